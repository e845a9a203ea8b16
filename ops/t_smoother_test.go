// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"testing"

	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gomg/tests"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_smoother01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("smoother01. all smoothers reduce the residual")

	names := SmootherNames()
	chk.Strings(tst, "smoothers", names, []string{"cheby", "gsrb", "jacobi", "l1jacobi", "symgs"})

	for _, name := range names {
		for _, policy := range []Policy{Fused, Ghost} {
			var tm lvl.Timers
			g := newGrid(tst, 16, 8, lvl.Dirichlet, true, "host", nil)
			op, err := NewOperator(true, policy, name)
			if err != nil {
				tst.Errorf("NewOperator failed:\n%v", err)
				return
			}
			err = op.Rebuild(&tm, g, nil, 1, 1)
			if err != nil {
				tst.Errorf("Rebuild failed:\n%v", err)
				return
			}
			tests.SetRandom(g.L, lvl.U, 1111, -1, 1)
			err = op.Residual(&tm, g, lvl.Res, lvl.U, lvl.F, 1, 1)
			if err != nil {
				tst.Errorf("Residual failed:\n%v", err)
				return
			}
			before, err := g.Norm(&tm, lvl.Res)
			if err != nil {
				tst.Errorf("Norm failed:\n%v", err)
				return
			}
			err = op.Smooth(&tm, g, lvl.U, lvl.F, 1, 1)
			if err != nil {
				tst.Errorf("Smooth failed:\n%v", err)
				return
			}
			err = op.Residual(&tm, g, lvl.Res, lvl.U, lvl.F, 1, 1)
			if err != nil {
				tst.Errorf("Residual failed:\n%v", err)
				return
			}
			after, err := g.Norm(&tm, lvl.Res)
			if err != nil {
				tst.Errorf("Norm failed:\n%v", err)
				return
			}
			io.Pforan("%-8s %v: |r| = %10.3e => %10.3e  (%d sweeps)\n", name, policy, before, after, tm.Smooths)
			if after >= 0.5*before {
				tst.Errorf("%s with %v policy did not reduce the residual: %g => %g\n", name, policy, before, after)
			}
		}
	}
}

func Test_smoother02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("smoother02. invalid settings")

	_, err := NewOperator(true, Fused, "sor")
	if err == nil {
		tst.Errorf("unknown smoother must fail\n")
		return
	}
	io.Pforan("%v\n", err)

	var tm lvl.Timers
	g := newGrid(tst, 8, 4, lvl.Periodic, false, "host", nil)
	op := &Operator{Helmholtz: true, Smoother: &Cheby{NumSmooths: 1, Degree: 4}}
	err = op.Smooth(&tm, g, lvl.U, lvl.F, 1, 1)
	if err == nil {
		tst.Errorf("Chebyshev without eigenvalue bound must fail\n")
		return
	}
	op.Smoother = &Cheby{NumSmooths: 1, Degree: 3}
	err = op.Smooth(&tm, g, lvl.U, lvl.F, 1, 1)
	if err == nil {
		tst.Errorf("odd Chebyshev degree must fail\n")
		return
	}
	op.Smoother = &Jacobi{NumSmooths: 3, Weight: 1, Inverse: lvl.Dinv, name: "jacobi"}
	err = op.Smooth(&tm, g, lvl.U, lvl.F, 1, 1)
	if err == nil {
		tst.Errorf("odd number of Jacobi sweeps must fail\n")
	}

	_, err = ParsePolicy("mirror")
	if err == nil {
		tst.Errorf("unknown policy must fail\n")
	}
}

func Test_smoother03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("smoother03. Chebyshev coefficients")

	o := &Cheby{NumSmooths: 1, Degree: 4}
	c1, c2 := o.Coefficients(2)
	io.Pforan("c1 = %v\nc2 = %v\n", c1, c2)
	theta := 0.5 * (2 + 0.25)
	chk.Float64(tst, "c1[0]", 1e-15, c1[0], 0)
	chk.Float64(tst, "c2[0]", 1e-15, c2[0], 1/theta)
	for s := 1; s < 4; s++ {
		if c1[s] <= 0 || c2[s] <= 0 {
			tst.Errorf("coefficients must be positive: c1[%d] = %g, c2[%d] = %g\n", s, c1[s], s, c2[s])
		}
	}
}
