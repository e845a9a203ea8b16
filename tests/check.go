// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tests implements structures and functions to test operators and multigrid solvers
package tests

import (
	"math"
	"testing"

	"github.com/cpmech/gomg/comm"
	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/rnd"
)

// Level allocates a cubic level on the unit cube with one ghost layer
//  Input:
//   dim    -- number of cells per axis
//   boxdim -- number of cells per axis in each box
//   bc     -- boundary condition
//   nextra -- number of scratch fields
//   c      -- communicator; nil means serial
func Level(dim, boxdim int, bc lvl.BC, nextra int, c comm.Comm) (*lvl.Level, error) {
	if c == nil {
		c = new(comm.Serial)
	}
	return lvl.NewLevel(lvl.Config{
		Dim:      lvl.Cube(dim),
		BoxDim:   boxdim,
		Ghosts:   1,
		BC:       bc,
		H:        1.0 / float64(dim),
		NumExtra: nextra,
	}, c)
}

// Each runs fcn for every in-domain cell of the owned boxes
//  Note: fcn receives the box, the position in the field buffers and the global coordinates
func Each(l *lvl.Level, fcn func(box *lvl.Box, p int, G lvl.Int3)) {
	for _, box := range l.MyBoxes {
		for k := 0; k < box.Ext.K; k++ {
			for j := 0; j < box.Ext.J; j++ {
				for i := 0; i < box.Ext.I; i++ {
					fcn(box, box.Index(i, j, k), lvl.Int3{I: box.Low.I + i, J: box.Low.J + j, K: box.Low.K + k})
				}
			}
		}
	}
}

// SetFunc sets field id on in-domain cells with a function of the cell centre
func SetFunc(l *lvl.Level, id lvl.FieldId, fcn func(x, y, z float64) float64) {
	h := l.H
	Each(l, func(box *lvl.Box, p int, G lvl.Int3) {
		box.Vectors[id][p] = fcn((float64(G.I)+0.5)*h, (float64(G.J)+0.5)*h, (float64(G.K)+0.5)*h)
	})
}

// SetRandom sets field id on in-domain cells with random values in [lo, hi]
//  Note: the sequence follows the owned boxes; use SetFunc for values independent of the decomposition
func SetRandom(l *lvl.Level, id lvl.FieldId, seed int, lo, hi float64) {
	rnd.Init(seed)
	Each(l, func(box *lvl.Box, p int, G lvl.Int3) {
		box.Vectors[id][p] = rnd.Float64(lo, hi)
	})
}

// Bumpy is a smooth function with no symmetries on the unit cube
func Bumpy(x, y, z float64) float64 {
	return math.Sin(3*x+1) * math.Cos(5*y-2) * math.Sin(7*z+0.5)
}

// Collect returns the values of field id on the in-domain cells of the owned boxes
func Collect(l *lvl.Level, id lvl.FieldId) (res map[lvl.Int3]float64) {
	res = make(map[lvl.Int3]float64)
	Each(l, func(box *lvl.Box, p int, G lvl.Int3) {
		res[G] = box.Vectors[id][p]
	})
	return
}

// CheckFields compares two collections of cell values
func CheckFields(tst *testing.T, msg string, tol float64, a, b map[lvl.Int3]float64) {
	if len(a) != len(b) {
		tst.Errorf("%s: number of cells differ: %d != %d\n", msg, len(a), len(b))
		return
	}
	for G, va := range a {
		vb, ok := b[G]
		if !ok {
			tst.Errorf("%s: cell %v is missing\n", msg, G)
			return
		}
		if math.Abs(va-vb) > tol {
			tst.Errorf("%s: cell %v: %g != %g (diff = %g)\n", msg, G, va, vb, math.Abs(va-vb))
			return
		}
	}
	chk.PrintOk(msg)
}

// MaxAbs returns the max norm of field id over the owned in-domain cells
func MaxAbs(l *lvl.Level, id lvl.FieldId) (res float64) {
	Each(l, func(box *lvl.Box, p int, G lvl.Int3) {
		res = math.Max(res, math.Abs(box.Vectors[id][p]))
	})
	return
}
