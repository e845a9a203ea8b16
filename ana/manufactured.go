// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements manufactured solutions for the variable coefficient Helmholtz equation
package ana

import (
	"math"

	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gosl/chk"
)

// Problem sets the coefficients, right-hand side and exact solution of a level
type Problem interface {
	Setup(l *lvl.Level, a, b float64) // fills F, Utrue, Alpha, BetaI, BetaJ and BetaK
	Name() string                     // name of the problem
}

// Manufactured holds a solution u with known derivatives. The right-hand side is
//
//    f = a α u - b ∇・(β ∇u)
//      = a α u - b (β ∇²u + ∇β・∇u)
//
type Manufactured struct {
	name     string
	Periodic bool // solution is periodic on the unit cube; otherwise it vanishes on the boundary
	VarCoef  bool // β = 1 + ¼ sin(2πx) sin(2πy) sin(2πz); otherwise β = 1

	U    func(x, y, z float64) float64                // solution
	Grad func(x, y, z float64) (ux, uy, uz float64) // gradient of solution
	Lap  func(x, y, z float64) float64                // Laplacian of solution
}

// allocators holds all available problems
var allocators = map[string]func(periodic, varcoef bool) (*Manufactured, error){}

// New returns a new problem
//  Input:
//   name     -- "sine" or "poly"
//   periodic -- periodic boundaries; otherwise homogeneous Dirichlet
//   varcoef  -- variable β
func New(name string, periodic, varcoef bool) (*Manufactured, error) {
	if allocator, ok := allocators[name]; ok {
		return allocator(periodic, varcoef)
	}
	return nil, chk.Err("cannot find problem named %q", name)
}

func init() {

	// u = sin(kx) sin(ky) sin(kz) with k = 2π (periodic) or k = π (Dirichlet)
	allocators["sine"] = func(periodic, varcoef bool) (*Manufactured, error) {
		k := math.Pi
		if periodic {
			k = 2 * math.Pi
		}
		o := &Manufactured{name: "sine", Periodic: periodic, VarCoef: varcoef}
		o.U = func(x, y, z float64) float64 {
			return math.Sin(k*x) * math.Sin(k*y) * math.Sin(k*z)
		}
		o.Grad = func(x, y, z float64) (ux, uy, uz float64) {
			sx, sy, sz := math.Sin(k*x), math.Sin(k*y), math.Sin(k*z)
			cx, cy, cz := math.Cos(k*x), math.Cos(k*y), math.Cos(k*z)
			return k * cx * sy * sz, k * sx * cy * sz, k * sx * sy * cz
		}
		o.Lap = func(x, y, z float64) float64 {
			return -3 * k * k * o.U(x, y, z)
		}
		return o, nil
	}

	// u = p(x) p(y) p(z) with p(x) = x³ (1-x)³
	allocators["poly"] = func(periodic, varcoef bool) (*Manufactured, error) {
		if periodic {
			return nil, chk.Err("polynomial problem requires Dirichlet boundaries")
		}
		p := func(x float64) float64 { return x * x * x * (1 - x) * (1 - x) * (1 - x) }
		dp := func(x float64) float64 { return 3*x*x*math.Pow(1-x, 3) - 3*x*x*x*(1-x)*(1-x) }
		ddp := func(x float64) float64 {
			return 6*x*math.Pow(1-x, 3) - 18*x*x*(1-x)*(1-x) + 6*x*x*x*(1-x)
		}
		o := &Manufactured{name: "poly", Periodic: false, VarCoef: varcoef}
		o.U = func(x, y, z float64) float64 { return p(x) * p(y) * p(z) }
		o.Grad = func(x, y, z float64) (ux, uy, uz float64) {
			return dp(x) * p(y) * p(z), p(x) * dp(y) * p(z), p(x) * p(y) * dp(z)
		}
		o.Lap = func(x, y, z float64) float64 {
			return ddp(x)*p(y)*p(z) + p(x)*ddp(y)*p(z) + p(x)*p(y)*ddp(z)
		}
		return o, nil
	}
}

// Name returns the name of the problem
func (o *Manufactured) Name() string { return o.name }

// Alpha returns the cell coefficient α
func (o *Manufactured) Alpha(x, y, z float64) float64 { return 1 }

// Beta returns the face coefficient β
func (o *Manufactured) Beta(x, y, z float64) float64 {
	if !o.VarCoef {
		return 1
	}
	const c, k = 0.25, 2 * math.Pi
	return 1 + c*math.Sin(k*x)*math.Sin(k*y)*math.Sin(k*z)
}

// GradBeta returns ∇β
func (o *Manufactured) GradBeta(x, y, z float64) (bx, by, bz float64) {
	if !o.VarCoef {
		return
	}
	const c, k = 0.25, 2 * math.Pi
	sx, sy, sz := math.Sin(k*x), math.Sin(k*y), math.Sin(k*z)
	cx, cy, cz := math.Cos(k*x), math.Cos(k*y), math.Cos(k*z)
	return c * k * cx * sy * sz, c * k * sx * cy * sz, c * k * sx * sy * cz
}

// F returns the right-hand side
//  Note: a must be zero for the Poisson problem
func (o *Manufactured) F(x, y, z, a, b float64) float64 {
	ux, uy, uz := o.Grad(x, y, z)
	bx, by, bz := o.GradBeta(x, y, z)
	div := o.Beta(x, y, z)*o.Lap(x, y, z) + bx*ux + by*uy + bz*uz
	return a*o.Alpha(x, y, z)*o.U(x, y, z) - b*div
}

// Setup fills F, Utrue, Alpha and the face coefficients of all owned boxes
//  Note: cell centres are at (G+½)h; the low face of cell G along an axis is at G h.
//        Ghost cells are filled as well, so the high face of every box is set.
func (o *Manufactured) Setup(l *lvl.Level, a, b float64) {
	h := l.H
	for _, box := range l.MyBoxes {
		g := box.Ghosts
		v := box.Vectors
		for k := -g; k < box.Dim+g; k++ {
			for j := -g; j < box.Dim+g; j++ {
				for i := -g; i < box.Dim+g; i++ {
					p := box.Index(i, j, k)
					X := float64(box.Low.I+i) * h
					Y := float64(box.Low.J+j) * h
					Z := float64(box.Low.K+k) * h
					x, y, z := X+0.5*h, Y+0.5*h, Z+0.5*h
					v[lvl.Alpha][p] = o.Alpha(x, y, z)
					v[lvl.BetaI][p] = o.Beta(X, y, z)
					v[lvl.BetaJ][p] = o.Beta(x, Y, z)
					v[lvl.BetaK][p] = o.Beta(x, y, Z)
					if v[lvl.Valid][p] == 0 {
						continue
					}
					v[lvl.Utrue][p] = o.U(x, y, z)
					v[lvl.F][p] = o.F(x, y, z, a, b)
				}
			}
		}
	}
}
