// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mg implements the multigrid hierarchy, V- and F-cycles and the solve loop
package mg

import (
	"github.com/cpmech/gomg/comm"
	"github.com/cpmech/gomg/dev"
	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gomg/ops"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Control holds the parameters of the solve loop
type Control struct {
	MaxCycles int     // maximum number of cycles
	Rtol      float64 // tolerance on ‖f-Au‖∞/‖f‖∞; ignored if zero
	Dtol      float64 // tolerance on ‖D⁻¹(f-Au)‖∞/‖D⁻¹f‖∞; ignored if zero
	Cycle     string  // "v" or "f"; "f" runs one F-cycle before the V-cycles
	NumBottom int     // number of smoother applications of the smooth bottom solver
	BottomTol float64 // relative tolerance of iterative bottom solvers
	BottomIts int     // maximum number of iterations of iterative bottom solvers
	MinCoarse int     // minimum box dimension of the coarsest level
	MaxLevels int     // maximum number of levels; zero means no limit
}

// SetDefault sets default values
func (o *Control) SetDefault() {
	o.MaxCycles = 20
	o.Rtol = 1e-10
	o.Cycle = "v"
	o.NumBottom = 8
	o.BottomTol = 1e-3
	o.BottomIts = 200
	o.MinCoarse = 2
}

// Check checks the parameters
func (o *Control) Check() (err error) {
	if o.MaxCycles < 1 {
		return chk.Err("maximum number of cycles must be positive. %d is invalid", o.MaxCycles)
	}
	if o.Cycle != "v" && o.Cycle != "f" {
		return chk.Err("cycle must be \"v\" or \"f\". %q is invalid", o.Cycle)
	}
	if o.Rtol < 0 || o.Dtol < 0 {
		return chk.Err("tolerances cannot be negative. rtol=%g and dtol=%g are invalid", o.Rtol, o.Dtol)
	}
	if o.MinCoarse < 1 {
		return chk.Err("minimum coarse box dimension must be positive. %d is invalid", o.MinCoarse)
	}
	if o.MaxLevels < 0 {
		return chk.Err("maximum number of levels cannot be negative. %d is invalid", o.MaxLevels)
	}
	return
}

// Hierarchy holds all levels of the multigrid solver, finest first
type Hierarchy struct {
	Op      *ops.Operator // operator variant shared by all levels
	Grids   []*ops.Grid   // [nlevels] grids
	Bottom  Bottom        // coarsest level solver
	Dev     dev.Device    // device shared by all levels
	Ctrl    Control       // solve loop parameters
	A, B    float64       // operator coefficients; A is zero without the α term
	Tms     []lvl.Timers  // [nlevels] timers
	ShowMsg bool          // show messages
}

// NewHierarchy allocates all levels by halving the finest one
//  Input:
//   cfg     -- geometry of the finest level
//   c       -- communicator
//   op      -- operator variant
//   device  -- name of device; e.g. "host" or "stream"
//   bottom  -- name of bottom solver; e.g. "smooth", "bicgstab" or "dense"
//   ctrl    -- solve loop parameters
//   a, b    -- operator coefficients; a is ignored without the α term
//   showMsg -- show messages
//  Note: the coefficients of the finest level must be set before calling Rebuild
func NewHierarchy(cfg lvl.Config, c comm.Comm, op *ops.Operator, device, bottom string, ctrl Control, a, b float64, showMsg bool) (o *Hierarchy, err error) {

	// check
	err = ctrl.Check()
	if err != nil {
		return
	}

	// new hierarchy
	if !op.Helmholtz {
		a = 0
	}
	o = &Hierarchy{Op: op, Ctrl: ctrl, A: a, B: b, ShowMsg: showMsg}
	o.Bottom, err = NewBottom(bottom)
	if err != nil {
		return
	}
	o.Dev, err = dev.New(device)
	if err != nil {
		return
	}

	// geometry of all levels
	cfgs := []lvl.Config{cfg}
	for cfgs[len(cfgs)-1].CanCoarsen(ctrl.MinCoarse) {
		if ctrl.MaxLevels > 0 && len(cfgs) == ctrl.MaxLevels {
			break
		}
		cfgs = append(cfgs, cfgs[len(cfgs)-1].Coarse())
	}
	cfgs[len(cfgs)-1].NumExtra += o.Bottom.NumScratch()

	// levels
	singular := cfg.BC == lvl.Periodic && a == 0
	o.Grids = make([]*ops.Grid, len(cfgs))
	o.Tms = make([]lvl.Timers, len(cfgs))
	for i, cf := range cfgs {
		var l *lvl.Level
		l, err = lvl.NewLevel(cf, c)
		if err != nil {
			return
		}
		l.MustSubtractMean = singular
		o.Grids[i] = ops.NewGrid(l, o.Dev)
		if o.ShowMsg {
			io.Pf("> level %d: %v\n", i, l)
		}
	}
	return
}

// NumLevels returns the number of levels
func (o *Hierarchy) NumLevels() int { return len(o.Grids) }

// Finest returns the finest level
func (o *Hierarchy) Finest() *lvl.Level { return o.Grids[0].L }

// Rebuild restricts the coefficients to all coarse levels and rebuilds the operator and bottom solver
//  Note: the coefficients of the finest level must be set
func (o *Hierarchy) Rebuild() (err error) {
	for i, g := range o.Grids {
		var from *ops.Grid
		if i > 0 {
			from = o.Grids[i-1]
		}
		err = o.Op.Rebuild(&o.Tms[i], g, from, o.A, o.B)
		if err != nil {
			return
		}
		if o.ShowMsg {
			io.Pf("> rebuilt level %d: h = %g  λmax ≤ %g\n", i, g.L.H, g.L.DominantEigenvalue)
		}
	}
	last := o.NumLevels() - 1
	return o.Bottom.Setup(&o.Tms[last], o)
}

// Close releases the device
func (o *Hierarchy) Close() (err error) {
	if s, ok := o.Dev.(*dev.Stream); ok {
		err = s.Close()
	}
	return
}

// Timers returns the sum of the timers of all levels
func (o *Hierarchy) Timers() (tm lvl.Timers) {
	for i := range o.Tms {
		tm.Add(&o.Tms[i])
	}
	return
}
