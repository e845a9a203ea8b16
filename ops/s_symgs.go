// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import "github.com/cpmech/gomg/lvl"

// SymGS implements the symmetric Gauss-Seidel smoother
//  Note: each sweep runs forward then backward in lexicographic order within each box;
//        boxes are relaxed concurrently with the ghost values of the last exchange
type SymGS struct {
	NumSmooths int // number of forward+backward sweeps
}

// add smoother to database
func init() {
	SetSmoother("symgs", func() Smoother { return &SymGS{NumSmooths: 2} })
}

// Name returns the name of the smoother
func (o *SymGS) Name() string { return "symgs" }

// Smooth relaxes A x = rhs in place
func (o *SymGS) Smooth(tm *lvl.Timers, op *Operator, g *Grid, x, rhs lvl.FieldId, a, b float64) (err error) {
	l := g.L
	for s := 0; s < o.NumSmooths; s++ {
		err = op.refresh(tm, g, x)
		if err != nil {
			return
		}
		g.Dev.Launch("symgs", len(l.MyBoxes), func(ib int) {
			box := l.MyBoxes[ib]
			st := op.newStencil(box, x, a, b, l.H)
			xx, f, dinv := box.Vectors[x], box.Vectors[rhs], box.Vectors[lvl.Dinv]
			e := box.Ext
			relax := func(i, j, k int) {
				p := box.Index(i, j, k)
				xx[p] += dinv[p] * (f[p] - st.ax(p))
			}
			for k := 0; k < e.K; k++ {
				for j := 0; j < e.J; j++ {
					for i := 0; i < e.I; i++ {
						relax(i, j, k)
					}
				}
			}
			for k := e.K - 1; k >= 0; k-- {
				for j := e.J - 1; j >= 0; j-- {
					for i := e.I - 1; i >= 0; i-- {
						relax(i, j, k)
					}
				}
			}
		})
		tm.Smooths++
	}
	return g.Sync(tm)
}
