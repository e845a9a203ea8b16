// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mg

import (
	"errors"
	"math"

	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/mat"
)

// MaxDenseCells is the maximum number of cells of a level solved by the dense bottom solver
const MaxDenseCells = 1000

// Dense assembles the operator of the coarsest level and solves with an LU factorisation
//  Note: all ranks hold the whole matrix; columns are assembled by applying the operator
//        to unit vectors and summing over ranks. A singular operator is regularised by
//        adding c/N to all entries, which leaves zero-mean solutions unchanged
type Dense struct {
	N     int           // number of cells
	A     *mat.Dense    // [N][N] operator
	lu    mat.LU        // factorisation of A
	cells []cell        // owned cells
	rhs   *mat.VecDense // [N] gathered right-hand side
	sol   *mat.VecDense // [N] solution
}

// cell locates one owned cell of the coarsest level
type cell struct {
	box *lvl.Box // box holding the cell
	p   int      // position in field buffers
	gid int      // global lexicographic index
}

// scratch fields
var (
	dnsX  = lvl.Scratch(0) // unit vector
	dnsAx = lvl.Scratch(1) // column of A
)

// add bottom solver to database
func init() {
	SetBottom("dense", func() Bottom { return new(Dense) })
}

// Name returns the name of the bottom solver
func (o *Dense) Name() string { return "dense" }

// NumScratch returns the number of scratch fields
func (o *Dense) NumScratch() int { return 2 }

// Setup assembles and factorises the operator
func (o *Dense) Setup(tm *lvl.Timers, h *Hierarchy) (err error) {
	g := h.Grids[h.coarsest()]
	l := g.L
	o.N = l.NumCells()
	if o.N > MaxDenseCells {
		return chk.Err("dense bottom solver is limited to %d cells; the coarsest level has %d. increase the number of levels or use another bottom solver", MaxDenseCells, o.N)
	}

	// owned cells
	o.cells = o.cells[:0]
	for _, box := range l.MyBoxes {
		for k := 0; k < box.Ext.K; k++ {
			for j := 0; j < box.Ext.J; j++ {
				for i := 0; i < box.Ext.I; i++ {
					G := lvl.Int3{I: box.Low.I + i, J: box.Low.J + j, K: box.Low.K + k}
					o.cells = append(o.cells, cell{box, box.Index(i, j, k), gid(l, G)})
				}
			}
		}
	}

	// columns
	o.A = mat.NewDense(o.N, o.N, nil)
	col := make([]float64, o.N)
	owner := make([]*cell, o.N)
	for i := range o.cells {
		owner[o.cells[i].gid] = &o.cells[i]
	}
	for _, c := range utl.IntRange(o.N) {
		g.Zero(tm, dnsX)
		err = g.Sync(tm)
		if err != nil {
			return
		}
		if own := owner[c]; own != nil {
			own.box.Vectors[dnsX][own.p] = 1
		}
		err = h.Op.ApplyOp(tm, g, dnsAx, dnsX, h.A, h.B)
		if err != nil {
			return
		}
		o.gather(col, dnsAx)
		l.Comm.AllReduceSumVec(col)
		o.A.SetCol(c, col)
	}

	// regularisation
	if l.MustSubtractMean {
		shift := 0.0
		for i := 0; i < o.N; i++ {
			shift = max(shift, o.A.At(i, i))
		}
		shift /= float64(o.N)
		for i := 0; i < o.N; i++ {
			for j := 0; j < o.N; j++ {
				o.A.Set(i, j, o.A.At(i, j)+shift)
			}
		}
	}

	// factorisation
	o.lu.Factorize(o.A)
	if math.IsInf(o.lu.Cond(), 1) {
		return chk.Err("operator of the coarsest level is singular")
	}
	o.rhs = mat.NewVecDense(o.N, nil)
	o.sol = mat.NewVecDense(o.N, nil)
	return
}

// Solve overwrites e with the solution of A e = R
func (o *Dense) Solve(tm *lvl.Timers, h *Hierarchy, e, R lvl.FieldId) (err error) {
	if o.A == nil {
		return chk.Err("dense bottom solver must be set up first")
	}
	g := h.Grids[h.coarsest()]
	err = g.Sync(tm)
	if err != nil {
		return
	}
	b := o.rhs.RawVector().Data
	o.gather(b, R)
	g.L.Comm.AllReduceSumVec(b)
	err = o.lu.SolveVecTo(o.sol, false, o.rhs)
	var cond mat.Condition
	if err != nil && !errors.As(err, &cond) {
		return chk.Err("dense bottom solver failed:\n%v", err)
	}
	x := o.sol.RawVector().Data
	for _, c := range o.cells {
		c.box.Vectors[e][c.p] = x[c.gid]
	}
	return nil
}

// gather zeroes dst and sets the entries of the owned cells from field id
func (o *Dense) gather(dst []float64, id lvl.FieldId) {
	clear(dst)
	for _, c := range o.cells {
		dst[c.gid] = c.box.Vectors[id][c.p]
	}
}

// gid returns the global lexicographic index of cell G
func gid(l *lvl.Level, G lvl.Int3) int {
	return G.I + l.Dim.I*(G.J+l.Dim.J*G.K)
}
