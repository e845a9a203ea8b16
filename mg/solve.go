// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mg

import (
	"math"

	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gosl/io"
)

// Report holds the history of a solve
type Report struct {
	Cycles    int       // number of cycles run
	Norms     []float64 // [ncycles] ‖f-Au‖∞/‖f‖∞ after each cycle
	Dnorms    []float64 // [ncycles] ‖D⁻¹(f-Au)‖∞/‖D⁻¹f‖∞ after each cycle
	NormF     float64   // ‖f‖∞ after removing the mean
	Converged bool      // a tolerance was reached
}

// Solve solves A u = f on the finest level
//  Note: if the operator is singular, the mean of f is removed first and u is kept with zero mean.
//        Reaching MaxCycles without convergence is not an error; see Report.Converged
func (o *Hierarchy) Solve(u, f lvl.FieldId) (rep Report, err error) {
	g := o.Grids[0]
	l := g.L
	tm := &o.Tms[0]

	// zero-mean right-hand side
	if l.MustSubtractMean {
		var mean float64
		mean, err = g.Mean(tm, f)
		if err != nil {
			return
		}
		g.Shift(tm, f, -mean, f)
	}

	// norms of right-hand side
	rep.NormF, err = g.Norm(tm, f)
	if err != nil {
		return
	}
	g.MulVectors(tm, lvl.Temp, 1, f, lvl.Dinv)
	normDinvF, err := g.Norm(tm, lvl.Temp)
	if err != nil {
		return
	}
	g.Zero(tm, u)
	if rep.NormF == 0 {
		rep.Converged = true
		return
	}

	// cycles
	if o.ShowMsg {
		io.Pf("> %5s %23s %23s\n", "cycle", "‖f-Au‖/‖f‖", "‖D⁻¹(f-Au)‖/‖D⁻¹f‖")
	}
	for cycle := 0; cycle < o.Ctrl.MaxCycles; cycle++ {

		// run cycle
		if cycle == 0 && o.Ctrl.Cycle == "f" {
			err = o.FCycle(u, f, 0)
		} else {
			err = o.VCycle(u, f, 0)
		}
		if err != nil {
			return
		}
		if l.MustSubtractMean {
			var mean float64
			mean, err = g.Mean(tm, u)
			if err != nil {
				return
			}
			g.Shift(tm, u, -mean, u)
		}

		// norms of residual
		err = o.Op.Residual(tm, g, lvl.Temp, u, f, o.A, o.B)
		if err != nil {
			return
		}
		var nrm, dnrm float64
		nrm, err = g.Norm(tm, lvl.Temp)
		if err != nil {
			return
		}
		g.MulVectors(tm, lvl.Temp, 1, lvl.Temp, lvl.Dinv)
		dnrm, err = g.Norm(tm, lvl.Temp)
		if err != nil {
			return
		}
		rel, drel := nrm/rep.NormF, dnrm/normDinvF
		rep.Cycles++
		rep.Norms = append(rep.Norms, rel)
		rep.Dnorms = append(rep.Dnorms, drel)
		if o.ShowMsg {
			io.Pf("> %5d %23.15e %23.15e\n", rep.Cycles, rel, drel)
		}

		// check convergence
		if (o.Ctrl.Rtol > 0 && rel < o.Ctrl.Rtol) || (o.Ctrl.Dtol > 0 && drel < o.Ctrl.Dtol) {
			rep.Converged = true
			break
		}
		if math.IsNaN(rel) {
			break
		}
	}
	if o.ShowMsg {
		if rep.Converged {
			io.PfGreen("> converged after %d cycles\n", rep.Cycles)
		} else {
			io.PfRed("> did not converge after %d cycles\n", rep.Cycles)
		}
	}
	return
}

// Error returns ‖u - Utrue‖∞ on the finest level
func (o *Hierarchy) Error(u lvl.FieldId) (float64, error) {
	return o.Grids[0].Error(&o.Tms[0], u, lvl.Utrue)
}
