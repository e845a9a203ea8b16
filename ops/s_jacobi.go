// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gosl/chk"
)

// Jacobi implements the weighted Jacobi smoother
//  Note: iterates alternate between x and Temp; NumSmooths must be even
type Jacobi struct {
	NumSmooths int         // number of sweeps
	Weight     float64     // damping
	Inverse    lvl.FieldId // Dinv or L1inv
	name       string
}

// add smoothers to database
func init() {
	SetSmoother("jacobi", func() Smoother {
		return &Jacobi{NumSmooths: 6, Weight: 2.0 / 3.0, Inverse: lvl.Dinv, name: "jacobi"}
	})
	SetSmoother("l1jacobi", func() Smoother {
		return &Jacobi{NumSmooths: 6, Weight: 1.0, Inverse: lvl.L1inv, name: "l1jacobi"}
	})
}

// Name returns the name of the smoother
func (o *Jacobi) Name() string { return o.name }

// Smooth relaxes A x = rhs in place
func (o *Jacobi) Smooth(tm *lvl.Timers, op *Operator, g *Grid, x, rhs lvl.FieldId, a, b float64) (err error) {
	if o.NumSmooths%2 != 0 {
		return chk.Err("number of Jacobi sweeps must be even. %d is invalid", o.NumSmooths)
	}
	l := g.L
	for s := 0; s < o.NumSmooths; s++ {
		xn, xnp1 := x, lvl.Temp
		if s%2 == 1 {
			xn, xnp1 = lvl.Temp, x
		}
		err = op.refresh(tm, g, xn)
		if err != nil {
			return
		}
		g.Dev.Launch(o.name, len(l.MyBlocks), func(ib int) {
			blk := l.MyBlocks[ib]
			box := l.MyBoxes[blk.Write.Box]
			st := op.newStencil(box, xn, a, b, l.H)
			cur, next := box.Vectors[xn], box.Vectors[xnp1]
			f, inv := box.Vectors[rhs], box.Vectors[o.Inverse]
			each(box, blk, func(p int) {
				next[p] = cur[p] + o.Weight*inv[p]*(f[p]-st.ax(p))
			})
		})
		tm.Smooths++
	}
	return g.Sync(tm)
}
