// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mg

import (
	"time"

	"github.com/cpmech/gomg/ana"
	"github.com/cpmech/gomg/comm"
	"github.com/cpmech/gomg/inp"
	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gomg/ops"
	"github.com/cpmech/gosl/io"
)

// Main holds all data for a simulation using the multigrid solver
type Main struct {
	Sim     *inp.Simulation   // simulation data
	Prob    *ana.Manufactured // manufactured solution
	H       *Hierarchy        // multigrid hierarchy
	Summary *Summary          // summary structure
	Nproc   int               // number of processors
	Proc    int               // processor id
	ShowMsg bool              // show messages
}

// NewMain returns a new Main structure
//  Input:
//   simfilepath -- simulation (.sim, .json or .yaml) filename including full path
//   alias       -- word to be appended to simulation key
//   erasePrev   -- erase previous results files
//   saveSummary -- save summary; also enabled by the "summary" flag of the simulation file
//   verbose     -- show messages
//   c           -- communicator
func NewMain(simfilepath, alias string, erasePrev, saveSummary, verbose bool, c comm.Comm) (o *Main, err error) {

	// new Main object
	o = new(Main)
	o.Proc = c.Rank()
	o.Nproc = c.Size()
	o.ShowMsg = verbose && (o.Proc == 0)

	// read input data
	if o.Proc != 0 {
		erasePrev = false
	}
	o.Sim, err = inp.ReadSim(simfilepath, alias, erasePrev, o.Proc == 0)
	if err != nil {
		return
	}
	if saveSummary || o.Sim.Data.Summary {
		o.Summary = new(Summary)
	}

	// message
	if o.ShowMsg {
		io.Pf("> Simulation file read\n")
		io.Pf("> %s\n", o.Sim.Data.Desc)
	}

	// problem
	periodic := o.Sim.Grid.Bc == "periodic"
	o.Prob, err = ana.New(o.Sim.Data.Problem, periodic, o.Sim.Data.VarCoef)
	if err != nil {
		return
	}

	// operator
	s := o.Sim.Solver
	policy, err := ops.ParsePolicy(s.Policy)
	if err != nil {
		return
	}
	op, err := ops.NewOperator(s.Helmholtz, policy, s.Smoother)
	if err != nil {
		return
	}

	// hierarchy
	g := o.Sim.Grid
	bc := lvl.Dirichlet
	if periodic {
		bc = lvl.Periodic
	}
	cfg := lvl.Config{
		Dim:    lvl.Cube(g.Dim),
		BoxDim: g.BoxDim,
		Ghosts: g.Ghosts,
		Tile:   lvl.Int3{I: g.TileI, J: g.TileJ, K: g.TileK},
		BC:     bc,
		H:      1.0 / float64(g.Dim),
	}
	ctrl := Control{
		MaxCycles: s.MaxCycles,
		Rtol:      s.Rtol,
		Dtol:      s.Dtol,
		Cycle:     s.Cycle,
		NumBottom: s.NBottom,
		BottomTol: s.BottomTol,
		BottomIts: s.BottomIts,
		MinCoarse: s.MinCoarse,
		MaxLevels: s.MaxLevels,
	}
	o.H, err = NewHierarchy(cfg, c, op, s.Device, s.Bottom, ctrl, s.A, s.B, o.ShowMsg)
	if err != nil {
		return
	}
	if o.ShowMsg {
		io.Pf("> Hierarchy with %d levels allocated on %d processors\n", o.H.NumLevels(), o.Nproc)
	}
	return
}

// Run sets the problem on the finest level, rebuilds the operator and solves
func (o *Main) Run() (err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()

	// problem; the α term of the right-hand side follows the operator
	l := o.H.Finest()
	tm := &o.H.Tms[0]
	a, b := o.H.A, o.H.B
	o.Prob.Setup(l, a, b)
	if o.Sim.Data.DiscreteRhs {
		err = o.H.Op.ApplyOp(tm, o.H.Grids[0], lvl.F, lvl.Utrue, a, b)
		if err != nil {
			return
		}
	}
	if o.ShowMsg {
		io.Pf("> Problem %q set\n", o.Prob.Name())
	}

	// operator on all levels
	err = o.H.Rebuild()
	if err != nil {
		return
	}

	// solve
	if o.ShowMsg {
		io.Pf("> Solving\n")
	}
	rep, err := o.H.Solve(lvl.U, lvl.F)
	if err != nil {
		return
	}
	errU, err := o.H.Error(lvl.U)
	if err != nil {
		return
	}
	if o.ShowMsg {
		io.Pf("> ‖u - u_true‖∞ = %g\n", errU)
	}
	if o.Summary != nil {
		o.Summary.Set(o, rep, errU)
	}
	return
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// onexit releases resources, prints final message with timings and saves summary
func (o *Main) onexit(cputime time.Time, prevErr error) (err error) {

	// clean resources
	var closeErr error
	if o.H != nil {
		closeErr = o.H.Close()
	}

	// show final message
	if o.ShowMsg {
		if prevErr == nil {
			io.PfGreen("> Success\n")
			io.Pf("> CPU time = %v\n", time.Now().Sub(cputime))
			io.Pf("\n%s\n", lvl.Table(o.H.Tms))
		} else {
			io.PfRed("> Failed\n")
		}
	}

	// save summary
	if o.Summary != nil && prevErr == nil && o.Proc == 0 {
		err = o.Summary.Save(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType)
	}

	// earlier errors have priority
	if closeErr != nil {
		err = closeErr
	}
	if prevErr != nil {
		err = prevErr
	}
	return
}
