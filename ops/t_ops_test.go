// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"math"
	"testing"

	"github.com/cpmech/gomg/ana"
	"github.com/cpmech/gomg/comm"
	"github.com/cpmech/gomg/dev"
	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gomg/tests"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// newGrid allocates a grid on the unit cube with coefficients of the sine problem
func newGrid(tst *testing.T, dim, boxdim int, bc lvl.BC, varcoef bool, device string, c comm.Comm) *Grid {
	l, err := tests.Level(dim, boxdim, bc, 0, c)
	if err != nil {
		tst.Fatalf("cannot allocate level:\n%v", err)
	}
	prob, err := ana.New("sine", bc == lvl.Periodic, varcoef)
	if err != nil {
		tst.Fatalf("cannot allocate problem:\n%v", err)
	}
	prob.Setup(l, 1, 1)
	d, err := dev.New(device)
	if err != nil {
		tst.Fatalf("cannot allocate device:\n%v", err)
	}
	return NewGrid(l, d)
}

// unitCoefficients sets α = β = 1 on all cells, ghosts included
func unitCoefficients(l *lvl.Level) {
	for _, box := range l.MyBoxes {
		for _, id := range []lvl.FieldId{lvl.Alpha, lvl.BetaI, lvl.BetaJ, lvl.BetaK} {
			for p := range box.Vectors[id] {
				box.Vectors[id][p] = 1
			}
		}
	}
}

func Test_ops01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ops01. residual with zero right-hand side")

	for _, policy := range []Policy{Fused, Ghost} {
		var tm lvl.Timers
		g := newGrid(tst, 10, 4, lvl.Dirichlet, true, "host", nil)
		op, err := NewOperator(true, policy, "gsrb")
		if err != nil {
			tst.Errorf("NewOperator failed:\n%v", err)
			return
		}
		tests.SetRandom(g.L, lvl.U, 1234, -1, 1)
		g.Zero(&tm, lvl.F)
		err = op.ApplyOp(&tm, g, lvl.Temp, lvl.U, 1, 1)
		if err != nil {
			tst.Errorf("ApplyOp failed:\n%v", err)
			return
		}
		err = op.Residual(&tm, g, lvl.Res, lvl.U, lvl.F, 1, 1)
		if err != nil {
			tst.Errorf("Residual failed:\n%v", err)
			return
		}
		g.AddVectors(&tm, lvl.Res, 1, lvl.Res, 1, lvl.Temp)
		nrm, err := g.Norm(&tm, lvl.Res)
		if err != nil {
			tst.Errorf("Norm failed:\n%v", err)
			return
		}
		io.Pforan("%v: |r + Ax| = %v\n", policy, nrm)
		chk.Float64(tst, "|r + Ax|", 1e-12, nrm, 0)
	}
}

func Test_ops02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ops02. inverse of diagonal")

	for _, bc := range []lvl.BC{lvl.Periodic, lvl.Dirichlet} {
		for _, helmholtz := range []bool{false, true} {
			for _, policy := range []Policy{Fused, Ghost} {
				var tm lvl.Timers
				g := newGrid(tst, 4, 4, bc, true, "host", nil)
				op, err := NewOperator(helmholtz, policy, "jacobi")
				if err != nil {
					tst.Errorf("NewOperator failed:\n%v", err)
					return
				}
				err = op.Rebuild(&tm, g, nil, 1, 1)
				if err != nil {
					tst.Errorf("Rebuild failed:\n%v", err)
					return
				}
				box := g.L.MyBoxes[0]
				for k := 0; k < 4; k++ {
					for j := 0; j < 4; j++ {
						for i := 0; i < 4; i++ {
							p := box.Index(i, j, k)
							g.Zero(&tm, lvl.U)
							box.Vectors[lvl.U][p] = 1
							err = op.ApplyOp(&tm, g, lvl.Temp, lvl.U, 1, 1)
							if err != nil {
								tst.Errorf("ApplyOp failed:\n%v", err)
								return
							}
							aii := box.Vectors[lvl.Temp][p]
							chk.Float64(tst, io.Sf("%v %v %v: Dinv Aii", bc, helmholtz, policy), 1e-13, box.Vectors[lvl.Dinv][p]*aii, 1)
						}
					}
				}
			}
		}
	}
}

func Test_ops03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ops03. Gershgorin bound")

	for _, helmholtz := range []bool{true, false} {
		var tm lvl.Timers
		l, err := lvl.NewLevel(lvl.Config{Dim: lvl.Cube(8), BoxDim: 4, Ghosts: 1, BC: lvl.Periodic, H: 1}, new(comm.Serial))
		if err != nil {
			tst.Errorf("NewLevel failed:\n%v", err)
			return
		}
		unitCoefficients(l)
		g := NewGrid(l, new(dev.Host))
		op, err := NewOperator(helmholtz, Fused, "cheby")
		if err != nil {
			tst.Errorf("NewOperator failed:\n%v", err)
			return
		}
		err = op.Rebuild(&tm, g, nil, 1, 1)
		if err != nil {
			tst.Errorf("Rebuild failed:\n%v", err)
			return
		}
		io.Pforan("helmholtz=%v: λ = %v\n", helmholtz, l.DominantEigenvalue)
		box := l.MyBoxes[3]
		p := box.Index(1, 2, 3)
		if helmholtz {
			chk.Float64(tst, "λ", 1e-15, l.DominantEigenvalue, 13.0/7.0)
			chk.Float64(tst, "Dinv", 1e-15, box.Vectors[lvl.Dinv][p], 1.0/7.0)
			chk.Float64(tst, "L1inv", 1e-15, box.Vectors[lvl.L1inv][p], 1.0/10.0)
		} else {
			chk.Float64(tst, "λ", 1e-15, l.DominantEigenvalue, 2)
			chk.Float64(tst, "Dinv", 1e-15, box.Vectors[lvl.Dinv][p], 1.0/6.0)
			chk.Float64(tst, "L1inv", 1e-15, box.Vectors[lvl.L1inv][p], 1.0/9.0)
		}
	}
}

func Test_ops04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ops04. fused and ghost policies agree")

	res := make([]map[lvl.Int3]float64, 2)
	for n, policy := range []Policy{Fused, Ghost} {
		var tm lvl.Timers
		g := newGrid(tst, 10, 4, lvl.Dirichlet, true, "host", nil)
		op, err := NewOperator(true, policy, "gsrb")
		if err != nil {
			tst.Errorf("NewOperator failed:\n%v", err)
			return
		}
		tests.SetFunc(g.L, lvl.U, tests.Bumpy)
		err = op.Residual(&tm, g, lvl.Res, lvl.U, lvl.F, 1, 1)
		if err != nil {
			tst.Errorf("Residual failed:\n%v", err)
			return
		}
		res[n] = tests.Collect(g.L, lvl.Res)
	}
	tests.CheckFields(tst, "fused == ghost", 1e-9, res[0], res[1])
}

func Test_ops05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ops05. stream and host devices agree")

	res := make([]map[lvl.Int3]float64, 2)
	for n, device := range []string{"host", "stream"} {
		var tm lvl.Timers
		g := newGrid(tst, 12, 4, lvl.Dirichlet, true, device, nil)
		if s, ok := g.Dev.(*dev.Stream); ok {
			defer s.Close()
		}
		op, err := NewOperator(true, Fused, "gsrb")
		if err != nil {
			tst.Errorf("NewOperator failed:\n%v", err)
			return
		}
		err = op.Rebuild(&tm, g, nil, 1, 1)
		if err != nil {
			tst.Errorf("Rebuild failed:\n%v", err)
			return
		}
		tests.SetRandom(g.L, lvl.U, 4321, -1, 1)
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
		res[n] = tests.Collect(g.L, lvl.Res)
	}
	tests.CheckFields(tst, "host == stream", 0, res[0], res[1])
}

func Test_ops06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ops06. ranks without boxes")

	// serial reference
	var tm lvl.Timers
	g := newGrid(tst, 8, 4, lvl.Periodic, true, "host", nil)
	op, err := NewOperator(true, Fused, "gsrb")
	if err != nil {
		tst.Errorf("NewOperator failed:\n%v", err)
		return
	}
	run := func(tm *lvl.Timers, g *Grid) (eig, nrm float64, err error) {
		err = op.Rebuild(tm, g, nil, 1, 1)
		if err != nil {
			return
		}
		tests.SetFunc(g.L, lvl.U, tests.Bumpy)
		err = op.Smooth(tm, g, lvl.U, lvl.F, 1, 1)
		if err != nil {
			return
		}
		err = op.Residual(tm, g, lvl.Res, lvl.U, lvl.F, 1, 1)
		if err != nil {
			return
		}
		nrm, err = g.Norm(tm, lvl.Res)
		return g.L.DominantEigenvalue, nrm, err
	}
	eig, nrm, err := run(&tm, g)
	if err != nil {
		tst.Errorf("serial run failed:\n%v", err)
		return
	}
	io.Pforan("λ = %v  |r| = %v\n", eig, nrm)

	// 8 boxes on 10 ranks
	err = comm.RunLocal(10, func(c *comm.Local) error {
		var tm lvl.Timers
		g := newGrid(tst, 8, 4, lvl.Periodic, true, "host", c)
		if c.Rank() >= 8 && len(g.L.MyBoxes) != 0 {
			return chk.Err("rank %d must not own boxes", c.Rank())
		}
		e, r, err := run(&tm, g)
		if err != nil {
			return err
		}
		if math.Abs(e-eig) > 1e-15 || math.Abs(r-nrm) > 1e-12 {
			return chk.Err("rank %d: λ = %v and |r| = %v do not match serial %v and %v", c.Rank(), e, r, eig, nrm)
		}
		return nil
	})
	if err != nil {
		tst.Errorf("parallel run failed:\n%v", err)
	}
}
