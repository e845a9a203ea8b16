// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mg

import "github.com/cpmech/gomg/lvl"

// SmoothBottom applies the smoother of the hierarchy a fixed number of times
type SmoothBottom struct{}

// add bottom solver to database
func init() {
	SetBottom("smooth", func() Bottom { return new(SmoothBottom) })
}

// Name returns the name of the bottom solver
func (o *SmoothBottom) Name() string { return "smooth" }

// NumScratch returns the number of scratch fields
func (o *SmoothBottom) NumScratch() int { return 0 }

// Setup does nothing
func (o *SmoothBottom) Setup(tm *lvl.Timers, h *Hierarchy) error { return nil }

// Solve runs Ctrl.NumBottom smoother applications
func (o *SmoothBottom) Solve(tm *lvl.Timers, h *Hierarchy, e, R lvl.FieldId) (err error) {
	g := h.Grids[h.coarsest()]
	for i := 0; i < h.Ctrl.NumBottom; i++ {
		err = h.Op.Smooth(tm, g, e, R, h.A, h.B)
		if err != nil {
			return
		}
	}
	return
}
