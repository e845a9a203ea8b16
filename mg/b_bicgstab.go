// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mg

import (
	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gosl/io"
)

// BiCGStab implements the unpreconditioned BiCGStab method on level fields
//  Note: on breakdown, or if the tolerance is not reached, the smooth bottom solver is applied
type BiCGStab struct {
	Its      int  // number of iterations of the last solve
	Fallback bool // the last solve fell back to smoothing
}

// scratch fields
var (
	bcgR  = lvl.Scratch(0) // residual
	bcgRt = lvl.Scratch(1) // shadow residual
	bcgP  = lvl.Scratch(2) // search direction
	bcgV  = lvl.Scratch(3) // A p
	bcgS  = lvl.Scratch(4) // intermediate residual
	bcgT  = lvl.Scratch(5) // A s
)

// add bottom solver to database
func init() {
	SetBottom("bicgstab", func() Bottom { return new(BiCGStab) })
}

// Name returns the name of the bottom solver
func (o *BiCGStab) Name() string { return "bicgstab" }

// NumScratch returns the number of scratch fields
func (o *BiCGStab) NumScratch() int { return 6 }

// Setup does nothing
func (o *BiCGStab) Setup(tm *lvl.Timers, h *Hierarchy) error { return nil }

// Solve runs BiCGStab until ‖r‖∞ < BottomTol ‖r₀‖∞ or BottomIts iterations
func (o *BiCGStab) Solve(tm *lvl.Timers, h *Hierarchy, e, R lvl.FieldId) (err error) {
	g := h.Grids[h.coarsest()]
	op, a, b := h.Op, h.A, h.B
	o.Its, o.Fallback = 0, false

	// r = R - A e; r̃ = p = r
	err = op.Residual(tm, g, bcgR, e, R, a, b)
	if err != nil {
		return
	}
	g.Copy(tm, bcgRt, bcgR)
	g.Copy(tm, bcgP, bcgR)
	norm0, err := g.Norm(tm, bcgR)
	if err != nil || norm0 == 0 {
		return
	}
	rho, err := g.Dot(tm, bcgR, bcgRt)
	if err != nil {
		return
	}
	tol := h.Ctrl.BottomTol * norm0

	// iterations
	converged := false
	for o.Its = 0; o.Its < h.Ctrl.BottomIts; o.Its++ {

		// v = A p; α = ρ / (v・r̃)
		err = op.ApplyOp(tm, g, bcgV, bcgP, a, b)
		if err != nil {
			return
		}
		var den float64
		den, err = g.Dot(tm, bcgV, bcgRt)
		if err != nil {
			return
		}
		if den == 0 {
			break
		}
		alpha := rho / den

		// s = r - α v
		g.AddVectors(tm, bcgS, 1, bcgR, -alpha, bcgV)
		var ns float64
		ns, err = g.Norm(tm, bcgS)
		if err != nil {
			return
		}
		if ns < tol {
			g.AddVectors(tm, e, 1, e, alpha, bcgP)
			converged = true
			o.Its++
			break
		}

		// t = A s; ω = (t・s) / (t・t)
		err = op.ApplyOp(tm, g, bcgT, bcgS, a, b)
		if err != nil {
			return
		}
		var tt, ts float64
		tt, err = g.Dot(tm, bcgT, bcgT)
		if err != nil {
			return
		}
		if tt == 0 {
			break
		}
		ts, err = g.Dot(tm, bcgT, bcgS)
		if err != nil {
			return
		}
		omega := ts / tt

		// e += α p + ω s; r = s - ω t
		g.AddVectors(tm, e, 1, e, alpha, bcgP)
		g.AddVectors(tm, e, 1, e, omega, bcgS)
		g.AddVectors(tm, bcgR, 1, bcgS, -omega, bcgT)
		var nr float64
		nr, err = g.Norm(tm, bcgR)
		if err != nil {
			return
		}
		if nr < tol {
			converged = true
			o.Its++
			break
		}

		// p = r + β (p - ω v)
		var rhoNew float64
		rhoNew, err = g.Dot(tm, bcgR, bcgRt)
		if err != nil {
			return
		}
		if rhoNew == 0 || omega == 0 {
			break
		}
		beta := (rhoNew / rho) * (alpha / omega)
		g.AddVectors(tm, bcgP, 1, bcgP, -omega, bcgV)
		g.AddVectors(tm, bcgP, 1, bcgR, beta, bcgP)
		rho = rhoNew
	}
	if converged {
		return
	}

	// fallback
	o.Fallback = true
	if h.ShowMsg {
		io.Pforan("> bicgstab did not converge after %d iterations; smoothing\n", o.Its)
	}
	return new(SmoothBottom).Solve(tm, h, e, R)
}
