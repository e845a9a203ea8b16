// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"testing"

	"github.com/cpmech/gomg/ana"
	"github.com/cpmech/gomg/comm"
	"github.com/cpmech/gomg/dev"
	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gomg/tests"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// pair allocates a fine grid and the next coarser one
func pair(tst *testing.T, dim, boxdim int, bc lvl.BC) (fine, coarse *Grid) {
	cfg := lvl.Config{Dim: lvl.Cube(dim), BoxDim: boxdim, Ghosts: 1, BC: bc, H: 1.0 / float64(dim)}
	lf, err := lvl.NewLevel(cfg, new(comm.Serial))
	if err != nil {
		tst.Fatalf("cannot allocate fine level:\n%v", err)
	}
	lc, err := lvl.NewLevel(cfg.Coarse(), new(comm.Serial))
	if err != nil {
		tst.Fatalf("cannot allocate coarse level:\n%v", err)
	}
	return NewGrid(lf, new(dev.Host)), NewGrid(lc, new(dev.Host))
}

func Test_transfer01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("transfer01. restriction and piecewise constant interpolation")

	var tm lvl.Timers
	fine, coarse := pair(tst, 8, 4, lvl.Periodic)
	tests.SetFunc(fine.L, lvl.Res, tests.Bumpy)
	err := Restriction(&tm, coarse, lvl.Res, fine, lvl.Res, Cell)
	if err != nil {
		tst.Errorf("Restriction failed:\n%v", err)
		return
	}

	// average of 8 children
	vf := tests.Collect(fine.L, lvl.Res)
	vc := tests.Collect(coarse.L, lvl.Res)
	for G, v := range vc {
		sum := 0.0
		for c := 0; c < 8; c++ {
			sum += vf[lvl.Int3{I: 2*G.I + c&1, J: 2*G.J + (c>>1)&1, K: 2*G.K + (c>>2)&1}]
		}
		chk.Float64(tst, io.Sf("R x @ %v", G), 1e-15, v, sum/8)
	}

	// piecewise constant: children hold the parent value
	err = InterpolationP0(&tm, fine, lvl.U, 0, coarse, lvl.Res)
	if err != nil {
		tst.Errorf("InterpolationP0 failed:\n%v", err)
		return
	}
	for G, v := range tests.Collect(fine.L, lvl.U) {
		chk.Float64(tst, io.Sf("P0 x @ %v", G), 1e-15, v, vc[lvl.Int3{I: G.I / 2, J: G.J / 2, K: G.K / 2}])
	}

	// accumulate
	err = InterpolationP0(&tm, fine, lvl.U, 1, coarse, lvl.Res)
	if err != nil {
		tst.Errorf("InterpolationP0 failed:\n%v", err)
		return
	}
	for G, v := range tests.Collect(fine.L, lvl.U) {
		chk.Float64(tst, io.Sf("x + P0 x @ %v", G), 1e-15, v, 2*vc[lvl.Int3{I: G.I / 2, J: G.J / 2, K: G.K / 2}])
	}

	// levels that are not a pair
	err = Restriction(&tm, fine, lvl.Res, fine, lvl.Res, Cell)
	if err == nil {
		tst.Errorf("restriction between equal levels must fail\n")
	}
}

func Test_transfer02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("transfer02. restriction of face coefficients")

	var tm lvl.Timers
	fine, coarse := pair(tst, 12, 4, lvl.Dirichlet)
	prob, err := ana.New("sine", false, true)
	if err != nil {
		tst.Errorf("New failed:\n%v", err)
		return
	}
	prob.Setup(fine.L, 1, 1)
	for _, r := range []struct {
		id   lvl.FieldId
		kind Kind
	}{
		{lvl.BetaI, FaceI}, {lvl.BetaJ, FaceJ}, {lvl.BetaK, FaceK},
	} {
		err = Restriction(&tm, coarse, r.id, fine, r.id, r.kind)
		if err != nil {
			tst.Errorf("Restriction failed:\n%v", err)
			return
		}
	}

	// the high face of each box is included
	hf := fine.L.H
	for _, box := range coarse.L.MyBoxes {
		bi := box.View(lvl.BetaI)
		bk := box.View(lvl.BetaK)
		for k := 0; k < box.Ext.K; k++ {
			for j := 0; j < box.Ext.J; j++ {
				for i := 0; i <= box.Ext.I; i++ {
					I, J, K := 2*(box.Low.I+i), 2*(box.Low.J+j), 2*(box.Low.K+k)
					sum := 0.0
					for b := 0; b < 2; b++ {
						for a := 0; a < 2; a++ {
							sum += prob.Beta(float64(I)*hf, (float64(J+a)+0.5)*hf, (float64(K+b)+0.5)*hf)
						}
					}
					chk.Float64(tst, "β_i", 1e-15, bi.At(i, j, k), sum/4)
				}
			}
		}
		k := box.Ext.K
		I, J, K := 2*box.Low.I, 2*box.Low.J, 2*(box.Low.K+k)
		sum := 0.0
		for b := 0; b < 2; b++ {
			for a := 0; a < 2; a++ {
				sum += prob.Beta((float64(I+a)+0.5)*hf, (float64(J+b)+0.5)*hf, float64(K)*hf)
			}
		}
		chk.Float64(tst, "β_k on high face", 1e-15, bk.At(0, 0, k), sum/4)
	}
}

func Test_transfer03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("transfer03. trilinear interpolation")

	// constants are preserved on periodic levels
	var tm lvl.Timers
	fine, coarse := pair(tst, 8, 4, lvl.Periodic)
	tests.SetFunc(coarse.L, lvl.U, func(x, y, z float64) float64 { return 3 })
	err := InterpolationP1(&tm, fine, lvl.U, 0, coarse, lvl.U)
	if err != nil {
		tst.Errorf("InterpolationP1 failed:\n%v", err)
		return
	}
	for G, v := range tests.Collect(fine.L, lvl.U) {
		chk.Float64(tst, io.Sf("P1 c @ %v", G), 1e-14, v, 3)
	}

	// weights of one interior child
	fine, coarse = pair(tst, 8, 8, lvl.Dirichlet)
	tests.SetFunc(coarse.L, lvl.U, func(x, y, z float64) float64 { return x + 10*y + 100*z })
	err = InterpolationP1(&tm, fine, lvl.U, 0, coarse, lvl.U)
	if err != nil {
		tst.Errorf("InterpolationP1 failed:\n%v", err)
		return
	}
	vc := tests.Collect(coarse.L, lvl.U)
	vf := tests.Collect(fine.L, lvl.U)
	at := func(i, j, k int) float64 { return vc[lvl.Int3{I: i, J: j, K: k}] }
	correct := (27*at(1, 2, 1) +
		9*(at(2, 2, 1)+at(1, 1, 1)+at(1, 2, 2)) +
		3*(at(2, 1, 1)+at(2, 2, 2)+at(1, 1, 2)) +
		at(2, 1, 2)) / 64
	chk.Float64(tst, "P1 @ (3,4,3)", 1e-12, vf[lvl.Int3{I: 3, J: 4, K: 3}], correct)

	// linear functions are exact away from boundaries
	hf := fine.L.H
	for G, v := range vf {
		if G.I == 0 || G.J == 0 || G.K == 0 || G.I == 7 || G.J == 7 || G.K == 7 {
			continue
		}
		x, y, z := (float64(G.I)+0.5)*hf, (float64(G.J)+0.5)*hf, (float64(G.K)+0.5)*hf
		chk.Float64(tst, io.Sf("P1 linear @ %v", G), 1e-12, v, x+10*y+100*z)
	}
}
