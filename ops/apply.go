// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"time"

	"github.com/cpmech/gomg/lvl"
)

// ApplyOp computes Ax = A·x on all in-domain cells
func (o *Operator) ApplyOp(tm *lvl.Timers, g *Grid, ax, x lvl.FieldId, a, b float64) (err error) {
	t0 := time.Now()
	defer lvl.Since(&tm.ApplyOp, t0)
	err = o.refresh(tm, g, x)
	if err != nil {
		return
	}
	l := g.L
	g.Dev.Launch("applyOp", len(l.MyBlocks), func(ib int) {
		blk := l.MyBlocks[ib]
		box := l.MyBoxes[blk.Write.Box]
		s := o.newStencil(box, x, a, b, l.H)
		s.window(box, blk, box.Vectors[ax], nil)
	})
	return g.Sync(tm)
}

// Residual computes res = rhs - A·x on all in-domain cells
func (o *Operator) Residual(tm *lvl.Timers, g *Grid, res, x, rhs lvl.FieldId, a, b float64) (err error) {
	t0 := time.Now()
	defer lvl.Since(&tm.Residual, t0)
	err = o.refresh(tm, g, x)
	if err != nil {
		return
	}
	l := g.L
	g.Dev.Launch("residual", len(l.MyBlocks), func(ib int) {
		blk := l.MyBlocks[ib]
		box := l.MyBoxes[blk.Write.Box]
		s := o.newStencil(box, x, a, b, l.H)
		s.window(box, blk, box.Vectors[res], box.Vectors[rhs])
	})
	return g.Sync(tm)
}
