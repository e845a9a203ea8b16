// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"math"
	"time"

	"github.com/cpmech/gomg/lvl"
	"gonum.org/v1/gonum/floats"
)

// rows runs fcn for each row (along i) of every block, in parallel over blocks
//  Note: fcn receives the position of the first cell of the row and its length
func (o *Grid) rows(name string, fcn func(box *lvl.Box, p, n int)) {
	l := o.L
	o.Dev.Launch(name, len(l.MyBlocks), func(ib int) {
		blk := l.MyBlocks[ib]
		box := l.MyBoxes[blk.Write.Box]
		w := blk.Write
		for k := 0; k < blk.Dim.K; k++ {
			for j := 0; j < blk.Dim.J; j++ {
				fcn(box, box.Index(w.I, w.J+j, w.K+k), blk.Dim.I)
			}
		}
	})
}

// reduce combines fcn over the rows of all blocks, then over all ranks
//  Input:
//   sum -- add the results; otherwise, take the maximum
func (o *Grid) reduce(tm *lvl.Timers, name string, fcn func(box *lvl.Box, p, n int) float64, sum bool) (res float64, err error) {
	l := o.L
	pair := math.Max
	if sum {
		pair = lvl.Sum
	}
	partial := make([]float64, len(l.MyBlocks))
	o.Dev.Launch(name, len(l.MyBlocks), func(ib int) {
		blk := l.MyBlocks[ib]
		box := l.MyBoxes[blk.Write.Box]
		w := blk.Write
		var r float64
		for k := 0; k < blk.Dim.K; k++ {
			for j := 0; j < blk.Dim.J; j++ {
				r = pair(r, fcn(box, box.Index(w.I, w.J+j, w.K+k), blk.Dim.I))
			}
		}
		partial[ib] = r
	})
	err = o.Sync(tm)
	if err != nil {
		return
	}
	res = lvl.Reduce(len(partial), func(ib int) float64 { return partial[ib] }, pair, 0)
	t0 := time.Now()
	if sum {
		res = l.Comm.AllReduceSum(res)
	} else {
		res = l.Comm.AllReduceMax(res)
	}
	lvl.Since(&tm.Collectives, t0)
	return
}

// Zero sets x = 0 on all in-domain cells
func (o *Grid) Zero(tm *lvl.Timers, x lvl.FieldId) {
	defer lvl.Since(&tm.Blas1, time.Now())
	o.rows("zero", func(box *lvl.Box, p, n int) {
		clear(box.Vectors[x][p : p+n])
	})
}

// Copy sets dst = src
func (o *Grid) Copy(tm *lvl.Timers, dst, src lvl.FieldId) {
	defer lvl.Since(&tm.Blas1, time.Now())
	o.rows("copy", func(box *lvl.Box, p, n int) {
		copy(box.Vectors[dst][p:p+n], box.Vectors[src][p:p+n])
	})
}

// Scale sets dst = s src
func (o *Grid) Scale(tm *lvl.Timers, dst lvl.FieldId, s float64, src lvl.FieldId) {
	defer lvl.Since(&tm.Blas1, time.Now())
	o.rows("scale", func(box *lvl.Box, p, n int) {
		floats.ScaleTo(box.Vectors[dst][p:p+n], s, box.Vectors[src][p:p+n])
	})
}

// AddVectors sets c = sa a + sb b
func (o *Grid) AddVectors(tm *lvl.Timers, c lvl.FieldId, sa float64, a lvl.FieldId, sb float64, b lvl.FieldId) {
	defer lvl.Since(&tm.Blas1, time.Now())
	o.rows("add", func(box *lvl.Box, p, n int) {
		cc, aa, bb := box.Vectors[c][p:p+n], box.Vectors[a][p:p+n], box.Vectors[b][p:p+n]
		for i := range cc {
			cc[i] = sa*aa[i] + sb*bb[i]
		}
	})
}

// MulVectors sets c = s a b (element-wise)
func (o *Grid) MulVectors(tm *lvl.Timers, c lvl.FieldId, s float64, a, b lvl.FieldId) {
	defer lvl.Since(&tm.Blas1, time.Now())
	o.rows("mul", func(box *lvl.Box, p, n int) {
		cc := box.Vectors[c][p : p+n]
		floats.MulTo(cc, box.Vectors[a][p:p+n], box.Vectors[b][p:p+n])
		floats.Scale(s, cc)
	})
}

// Shift sets c = a + s
func (o *Grid) Shift(tm *lvl.Timers, c lvl.FieldId, s float64, a lvl.FieldId) {
	defer lvl.Since(&tm.Blas1, time.Now())
	o.rows("shift", func(box *lvl.Box, p, n int) {
		cc := box.Vectors[c][p : p+n]
		copy(cc, box.Vectors[a][p:p+n])
		floats.AddConst(s, cc)
	})
}

// Dot returns the global dot product of a and b
func (o *Grid) Dot(tm *lvl.Timers, a, b lvl.FieldId) (float64, error) {
	defer lvl.Since(&tm.Blas1, time.Now())
	return o.reduce(tm, "dot", func(box *lvl.Box, p, n int) float64 {
		return floats.Dot(box.Vectors[a][p:p+n], box.Vectors[b][p:p+n])
	}, true)
}

// Norm returns the global max norm of x
func (o *Grid) Norm(tm *lvl.Timers, x lvl.FieldId) (float64, error) {
	defer lvl.Since(&tm.Blas1, time.Now())
	return o.reduce(tm, "norm", func(box *lvl.Box, p, n int) float64 {
		return floats.Norm(box.Vectors[x][p:p+n], math.Inf(1))
	}, false)
}

// Sum returns the global sum of x
func (o *Grid) Sum(tm *lvl.Timers, x lvl.FieldId) (float64, error) {
	defer lvl.Since(&tm.Blas1, time.Now())
	return o.reduce(tm, "sum", func(box *lvl.Box, p, n int) float64 {
		return floats.Sum(box.Vectors[x][p : p+n])
	}, true)
}

// Mean returns the global mean of x
func (o *Grid) Mean(tm *lvl.Timers, x lvl.FieldId) (mean float64, err error) {
	mean, err = o.Sum(tm, x)
	mean /= float64(o.L.NumCells())
	return
}

// Error returns the global max norm of a - b
func (o *Grid) Error(tm *lvl.Timers, a, b lvl.FieldId) (float64, error) {
	defer lvl.Since(&tm.Blas1, time.Now())
	return o.reduce(tm, "error", func(box *lvl.Box, p, n int) float64 {
		return floats.Distance(box.Vectors[a][p:p+n], box.Vectors[b][p:p+n], math.Inf(1))
	}, false)
}
