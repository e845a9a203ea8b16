// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package lvl implements the multigrid level: boxes, blocks and field storage
package lvl

import (
	"github.com/cpmech/gomg/comm"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// BC defines the boundary condition applied on all faces of the domain
type BC int

// boundary conditions
const (
	Periodic  BC = iota // wrap around
	Dirichlet           // homogeneous Dirichlet on cell faces
)

// String returns the name of the boundary condition
func (o BC) String() string {
	if o == Periodic {
		return "periodic"
	}
	return "dirichlet"
}

// Shape defines the footprint of a stencil
type Shape int

// stencil footprints
const (
	ShapeStar Shape = iota // 6 faces
	ShapeBox               // 6 faces, 12 edges and 8 corners
	NumShapes
)

// default tile sizes
const (
	DefaultTileI = 10000
	DefaultTileJ = 8
	DefaultTileK = 8
)

// Config holds the geometry of a level
type Config struct {
	Dim      Int3    // number of cells per axis in the whole domain
	BoxDim   int     // number of cells per axis in each box
	Ghosts   int     // number of ghost cells
	Tile     Int3    // maximum block extent; zero components take defaults
	BC       BC      // boundary condition
	H        float64 // cell spacing
	NumExtra int     // number of scratch fields after NumReserved
}

// Coarse returns the configuration of the next coarser level
func (o Config) Coarse() Config {
	c := o
	c.Dim = Int3{o.Dim.I / 2, o.Dim.J / 2, o.Dim.K / 2}
	c.BoxDim = o.BoxDim / 2
	c.H = o.H * 2
	return c
}

// CanCoarsen tells whether the level can be halved keeping boxes at least minDim wide
func (o Config) CanCoarsen(minDim int) bool {
	return o.Dim.I%2 == 0 && o.Dim.J%2 == 0 && o.Dim.K%2 == 0 && o.BoxDim%2 == 0 && o.BoxDim/2 >= minDim
}

// Check checks the configuration
func (o Config) Check() (err error) {
	if o.Dim.I < 1 || o.Dim.J < 1 || o.Dim.K < 1 {
		return chk.Err("domain dimensions must be positive. %v is invalid", o.Dim)
	}
	if o.BoxDim < 1 {
		return chk.Err("box dimension must be positive. %d is invalid", o.BoxDim)
	}
	if o.Ghosts < 1 || o.Ghosts > o.BoxDim {
		return chk.Err("number of ghosts must be in [1, %d]. %d is invalid", o.BoxDim, o.Ghosts)
	}
	if o.H <= 0 {
		return chk.Err("cell spacing must be positive. %g is invalid", o.H)
	}
	if o.NumExtra < 0 {
		return chk.Err("number of extra fields cannot be negative. %d is invalid", o.NumExtra)
	}
	if o.BC == Periodic {
		if o.Dim.I%o.BoxDim != 0 || o.Dim.J%o.BoxDim != 0 || o.Dim.K%o.BoxDim != 0 {
			return chk.Err("periodic domain %v must be a multiple of the box dimension %d", o.Dim, o.BoxDim)
		}
	}
	return
}

// Level holds one grid resolution of the multigrid hierarchy
type Level struct {
	H                  float64   // cell spacing
	Dim                Int3      // number of cells per axis in the whole domain
	BoxDim             int       // number of cells per axis in each box
	BoxesPerAxis       Int3      // number of boxes per axis
	Ghosts             int       // number of ghost cells
	BC                 BC        // boundary condition
	Tile               Int3      // maximum block extent
	Rank               int       // rank of this process
	Comm               comm.Comm // messaging and reductions
	Boxes              []*Box    // all boxes of the level; only owned ones have vectors
	MyBoxes            []*Box    // owned boxes, sorted by id
	MyBlocks           []Block   // compute blocks of owned boxes
	NumVectors         int       // number of fields per box
	DominantEigenvalue float64   // Gershgorin bound of D^-1 A
	MustSubtractMean   bool      // operator has a constant null space

	local []int // box id => index in MyBoxes or -1
}

// NewLevel allocates a new level
func NewLevel(cfg Config, c comm.Comm) (o *Level, err error) {

	// check
	if cfg.Tile.I < 1 {
		cfg.Tile.I = DefaultTileI
	}
	if cfg.Tile.J < 1 {
		cfg.Tile.J = DefaultTileJ
	}
	if cfg.Tile.K < 1 {
		cfg.Tile.K = DefaultTileK
	}
	err = cfg.Check()
	if err != nil {
		return
	}

	// new level
	o = &Level{
		H:          cfg.H,
		Dim:        cfg.Dim,
		BoxDim:     cfg.BoxDim,
		Ghosts:     cfg.Ghosts,
		BC:         cfg.BC,
		Tile:       cfg.Tile,
		Rank:       c.Rank(),
		Comm:       c,
		NumVectors: int(NumReserved) + cfg.NumExtra,
	}
	b := cfg.BoxDim
	o.BoxesPerAxis = Int3{(cfg.Dim.I + b - 1) / b, (cfg.Dim.J + b - 1) / b, (cfg.Dim.K + b - 1) / b}

	// boxes
	nboxes := o.BoxesPerAxis.Prod()
	owners := Decompose(nboxes, c.Size())
	o.Boxes = make([]*Box, nboxes)
	o.local = make([]int, nboxes)
	for id := 0; id < nboxes; id++ {
		bi, bj, bk := o.boxCoords(id)
		box := newBox(id, owners[id], Int3{bi * b, bj * b, bk * b}, b, cfg.Ghosts, cfg.Dim)
		o.Boxes[id] = box
		o.local[id] = -1
		if box.Owner == o.Rank {
			box.alloc(o.NumVectors)
			o.local[id] = len(o.MyBoxes)
			o.MyBoxes = append(o.MyBoxes, box)
		}
	}

	// blocks and validity mask
	o.MyBlocks = TileBlocks(o.MyBoxes, o.Tile)
	for _, box := range o.MyBoxes {
		o.setValid(box)
	}
	return
}

// BoxAt returns the box at box coordinates (bi,bj,bk), wrapping periodic axes
//  Note: returns nil outside a non-periodic domain
func (o *Level) BoxAt(bi, bj, bk int) *Box {
	n := o.BoxesPerAxis
	if o.BC == Periodic {
		bi, bj, bk = (bi+n.I)%n.I, (bj+n.J)%n.J, (bk+n.K)%n.K
	}
	if bi < 0 || bi >= n.I || bj < 0 || bj >= n.J || bk < 0 || bk >= n.K {
		return nil
	}
	return o.Boxes[bi+bj*n.I+bk*n.I*n.J]
}

// BoxCoords returns the box coordinates of a box
func (o *Level) BoxCoords(box *Box) (bi, bj, bk int) {
	return o.boxCoords(box.Id)
}

// LocalIndex returns the index in MyBoxes of box id, or -1 if it is not owned
func (o *Level) LocalIndex(id int) int { return o.local[id] }

// Inside tells whether global coordinate g along axis is inside the domain
func (o *Level) Inside(axis, g int) bool {
	return o.BC == Periodic || (g >= 0 && g < o.Dim.At(axis))
}

// NumCells returns the number of cells in the domain
func (o *Level) NumCells() int { return o.Dim.Prod() }

// String returns a summary of the level
func (o *Level) String() string {
	return io.Sf("h=%g dim=%v boxdim=%d boxes=%v mine=%d blocks=%d", o.H, o.Dim, o.BoxDim, o.BoxesPerAxis, len(o.MyBoxes), len(o.MyBlocks))
}

func (o *Level) boxCoords(id int) (bi, bj, bk int) {
	n := o.BoxesPerAxis
	bi = id % n.I
	bj = (id / n.I) % n.J
	bk = id / (n.I * n.J)
	return
}

// setValid computes the validity mask of a box, ghosts included
func (o *Level) setValid(box *Box) {
	v := box.View(Valid)
	g := box.Ghosts
	for k := -g; k < box.Dim+g; k++ {
		for j := -g; j < box.Dim+g; j++ {
			for i := -g; i < box.Dim+g; i++ {
				if o.Inside(0, box.Low.I+i) && o.Inside(1, box.Low.J+j) && o.Inside(2, box.Low.K+k) {
					v.Set(i, j, k, 1)
				}
			}
		}
	}
}
