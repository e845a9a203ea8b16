// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mg

import (
	"time"

	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gomg/ops"
)

// VCycle runs one V-cycle on A e = R starting at level
//  Note: coarser levels solve for the correction U with right-hand side Res
func (o *Hierarchy) VCycle(e, R lvl.FieldId, level int) (err error) {
	tm := &o.Tms[level]
	tm.Cycles++
	g := o.Grids[level]

	// coarsest level
	if level == o.NumLevels()-1 {
		return o.bottom(e, R)
	}

	// pre-smoothing and residual
	err = o.Op.Smooth(tm, g, e, R, o.A, o.B)
	if err != nil {
		return
	}
	err = o.Op.Residual(tm, g, lvl.Temp, e, R, o.A, o.B)
	if err != nil {
		return
	}

	// coarse-grid correction
	coarse := o.Grids[level+1]
	err = ops.Restriction(&o.Tms[level+1], coarse, lvl.Res, g, lvl.Temp, ops.Cell)
	if err != nil {
		return
	}
	coarse.Zero(&o.Tms[level+1], lvl.U)
	err = o.VCycle(lvl.U, lvl.Res, level+1)
	if err != nil {
		return
	}
	err = ops.InterpolationP0(tm, g, e, 1, coarse, lvl.U)
	if err != nil {
		return
	}

	// post-smoothing
	return o.Op.Smooth(tm, g, e, R, o.A, o.B)
}

// FCycle runs one F-cycle on A e = R starting at level
//  Note: the right-hand side is restricted to all coarser levels first;
//        each level is then initialised by trilinear interpolation and improved by a V-cycle
func (o *Hierarchy) FCycle(e, R lvl.FieldId, level int) (err error) {
	last := o.NumLevels() - 1

	// restrict right-hand side
	src := R
	for i := level; i < last; i++ {
		err = ops.Restriction(&o.Tms[i+1], o.Grids[i+1], lvl.Res, o.Grids[i], src, ops.Cell)
		if err != nil {
			return
		}
		src = lvl.Res
	}

	// coarsest level
	ids := func(i int) (lvl.FieldId, lvl.FieldId) {
		if i == level {
			return e, R
		}
		return lvl.U, lvl.Res
	}
	ee, rr := ids(last)
	o.Grids[last].Zero(&o.Tms[last], ee)
	o.Tms[last].Cycles++
	err = o.bottom(ee, rr)
	if err != nil {
		return
	}

	// upward sweep
	for i := last - 1; i >= level; i-- {
		ee, rr = ids(i)
		ec, _ := ids(i + 1)
		err = ops.InterpolationP1(&o.Tms[i], o.Grids[i], ee, 0, o.Grids[i+1], ec)
		if err != nil {
			return
		}
		err = o.VCycle(ee, rr, i)
		if err != nil {
			return
		}
	}
	return
}

// bottom solves on the coarsest level
func (o *Hierarchy) bottom(e, R lvl.FieldId) (err error) {
	last := o.NumLevels() - 1
	tm := &o.Tms[last]
	t0 := time.Now()
	defer lvl.Since(&tm.Bottom, t0)
	return o.Bottom.Solve(tm, o, e, R)
}
