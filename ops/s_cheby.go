// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gosl/chk"
)

// Cheby implements the Chebyshev polynomial smoother on D⁻¹A
//  Note: the polynomial targets [β/8, β] where β is the Gershgorin bound of the level.
//        Iterates alternate between x and Temp.
type Cheby struct {
	NumSmooths int // number of polynomial applications
	Degree     int // degree of the polynomial; must be even
}

// add smoother to database
func init() {
	SetSmoother("cheby", func() Smoother { return &Cheby{NumSmooths: 1, Degree: 4} })
}

// Name returns the name of the smoother
func (o *Cheby) Name() string { return "cheby" }

// Coefficients returns the coefficients of the three-term recurrence
//  x_{n+1} = x_n + c1 (x_n - x_{n-1}) + c2 D⁻¹ (rhs - A x_n)
func (o *Cheby) Coefficients(eig float64) (c1, c2 []float64) {
	c1 = make([]float64, o.Degree)
	c2 = make([]float64, o.Degree)
	beta := eig
	alpha := 0.125 * beta
	theta := 0.5 * (beta + alpha)
	delta := 0.5 * (beta - alpha)
	sigma := theta / delta
	rhoN := 1.0 / sigma
	c1[0] = 0
	c2[0] = 1.0 / theta
	for s := 1; s < o.Degree; s++ {
		rhoNm1 := rhoN
		rhoN = 1.0 / (2.0*sigma - rhoNm1)
		c1[s] = rhoN * rhoNm1
		c2[s] = rhoN * 2.0 / delta
	}
	return
}

// Smooth relaxes A x = rhs in place
func (o *Cheby) Smooth(tm *lvl.Timers, op *Operator, g *Grid, x, rhs lvl.FieldId, a, b float64) (err error) {
	l := g.L
	if o.Degree%2 != 0 {
		return chk.Err("degree of Chebyshev polynomial must be even. %d is invalid", o.Degree)
	}
	if l.DominantEigenvalue <= 0 && len(l.MyBlocks) > 0 {
		return chk.Err("Chebyshev smoother requires the eigenvalue bound; rebuild the operator first")
	}
	c1, c2 := o.Coefficients(l.DominantEigenvalue)
	for s := 0; s < o.Degree*o.NumSmooths; s++ {
		xn, xnm1, xnp1 := x, lvl.Temp, lvl.Temp
		if s%2 == 1 {
			xn, xnm1, xnp1 = lvl.Temp, x, x
		}
		err = op.refresh(tm, g, xn)
		if err != nil {
			return
		}
		k1, k2 := c1[s%o.Degree], c2[s%o.Degree]
		g.Dev.Launch("cheby", len(l.MyBlocks), func(ib int) {
			blk := l.MyBlocks[ib]
			box := l.MyBoxes[blk.Write.Box]
			st := op.newStencil(box, xn, a, b, l.H)
			cur, prev, next := box.Vectors[xn], box.Vectors[xnm1], box.Vectors[xnp1]
			f, dinv := box.Vectors[rhs], box.Vectors[lvl.Dinv]
			each(box, blk, func(p int) {
				xc := cur[p]
				next[p] = xc + k1*(xc-prev[p]) + k2*dinv[p]*(f[p]-st.ax(p))
			})
		})
		tm.Smooths++
	}
	return g.Sync(tm)
}
