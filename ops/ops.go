// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ops implements the stencil operators of the 7-point finite volume discretisation
//  The operator is Ax = a α x - b h⁻² Σ_faces β_f φ_f where φ_f depends on the boundary policy
package ops

import (
	"time"

	"github.com/cpmech/gomg/dev"
	"github.com/cpmech/gomg/halo"
	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gosl/chk"
)

// Policy defines how the operator handles non-periodic boundaries
type Policy int

// boundary policies
const (
	Fused Policy = iota // the validity mask removes the boundary contribution in the stencil
	Ghost               // ghost cells hold reflected values before the stencil is applied
)

// String returns the name of the policy
func (o Policy) String() string {
	if o == Fused {
		return "fused"
	}
	return "ghost"
}

// ParsePolicy returns the policy named name
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "fused", "":
		return Fused, nil
	case "ghost":
		return Ghost, nil
	}
	return Fused, chk.Err("cannot find boundary policy named %q", name)
}

// Operator holds the variant of the discrete operator chosen once per hierarchy
type Operator struct {
	Helmholtz bool     // include the a α x term
	Policy    Policy   // boundary policy
	Smoother  Smoother // smoother
}

// NewOperator returns a new operator
func NewOperator(helmholtz bool, policy Policy, smoother string) (o *Operator, err error) {
	o = &Operator{Helmholtz: helmholtz, Policy: policy}
	o.Smoother, err = NewSmoother(smoother)
	return
}

// Grid bundles one level with its exchanger and device
type Grid struct {
	L   *lvl.Level      // level
	X   *halo.Exchanger // ghost exchange
	Dev dev.Device      // kernel dispatch
}

// NewGrid returns a new grid
func NewGrid(l *lvl.Level, d dev.Device) *Grid {
	return &Grid{L: l, X: halo.New(l, d), Dev: d}
}

// Sync waits for the kernels launched on the grid's device
func (o *Grid) Sync(tm *lvl.Timers) (err error) {
	t0 := time.Now()
	err = o.Dev.Synchronize()
	lvl.Since(&tm.Sync, t0)
	return
}

// Smooth runs the smoother on x with right-hand side rhs
func (o *Operator) Smooth(tm *lvl.Timers, g *Grid, x, rhs lvl.FieldId, a, b float64) (err error) {
	t0 := time.Now()
	defer lvl.Since(&tm.Smooth, t0)
	return o.Smoother.Smooth(tm, o, g, x, rhs, a, b)
}

// refresh makes the ghost cells of x read by the 7-point stencil current
func (o *Operator) refresh(tm *lvl.Timers, g *Grid, x lvl.FieldId) (err error) {
	err = g.X.Exchange(tm, x, lvl.ShapeStar)
	if err != nil {
		return
	}
	if o.Policy == Ghost {
		err = g.X.ApplyBCs(tm, x, lvl.ShapeStar)
	}
	return
}

// each runs fcn for every cell of a block
func each(box *lvl.Box, blk lvl.Block, fcn func(ijk int)) {
	w := blk.Write
	for k := 0; k < blk.Dim.K; k++ {
		for j := 0; j < blk.Dim.J; j++ {
			ijk := box.Index(w.I, w.J+j, w.K+k)
			for i := 0; i < blk.Dim.I; i++ {
				fcn(ijk + i)
			}
		}
	}
}
