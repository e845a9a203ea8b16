// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gomg/comm"
	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/rnd"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// divFlux computes ∇・(β ∇u) with central differences of the fluxes
func divFlux(o *Manufactured, x, y, z, d float64) float64 {
	flux := func(x, y, z float64, axis int) float64 {
		ux, uy, uz := o.Grad(x, y, z)
		g := []float64{ux, uy, uz}
		return o.Beta(x, y, z) * g[axis]
	}
	return (flux(x+d, y, z, 0)-flux(x-d, y, z, 0))/(2*d) +
		(flux(x, y+d, z, 1)-flux(x, y-d, z, 1))/(2*d) +
		(flux(x, y, z+d, 2)-flux(x, y, z-d, 2))/(2*d)
}

func Test_manufactured01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("manufactured01. derivatives and right-hand side")

	rnd.Init(1234)
	d := 1e-5
	for _, name := range []string{"sine", "poly"} {
		for _, periodic := range []bool{true, false} {
			for _, varcoef := range []bool{false, true} {
				o, err := New(name, periodic, varcoef)
				if name == "poly" && periodic {
					if err == nil {
						tst.Errorf("periodic polynomial problem must fail\n")
					}
					continue
				}
				if err != nil {
					tst.Errorf("New failed:\n%v", err)
					return
				}
				io.Pforan("%s periodic=%v varcoef=%v\n", o.Name(), periodic, varcoef)
				for n := 0; n < 10; n++ {
					x, y, z := rnd.Float64(0, 1), rnd.Float64(0, 1), rnd.Float64(0, 1)

					// gradient
					ux, uy, uz := o.Grad(x, y, z)
					nx := (o.U(x+d, y, z) - o.U(x-d, y, z)) / (2 * d)
					ny := (o.U(x, y+d, z) - o.U(x, y-d, z)) / (2 * d)
					nz := (o.U(x, y, z+d) - o.U(x, y, z-d)) / (2 * d)
					chk.Array(tst, "∇u", 1e-7, []float64{ux, uy, uz}, []float64{nx, ny, nz})

					// right-hand side
					a, b := 2.0, 1.0
					f := a*o.U(x, y, z) - b*divFlux(o, x, y, z, d)
					chk.Float64(tst, "f", 1e-5, o.F(x, y, z, a, b), f)
				}
			}
		}
	}

	_, err := New("cosine", true, false)
	if err == nil {
		tst.Errorf("unknown problem must fail\n")
	}
}

func Test_manufactured02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("manufactured02. setup of a padded Dirichlet level")

	n := 10
	l, err := lvl.NewLevel(lvl.Config{Dim: lvl.Cube(n), BoxDim: 4, Ghosts: 1, BC: lvl.Dirichlet, H: 1.0 / float64(n)}, new(comm.Serial))
	if err != nil {
		tst.Errorf("NewLevel failed:\n%v", err)
		return
	}
	o, err := New("sine", false, true)
	if err != nil {
		tst.Errorf("New failed:\n%v", err)
		return
	}
	o.Setup(l, 1, 1)

	h := l.H
	for _, box := range l.MyBoxes {
		v := box.Vectors
		for k := 0; k < box.Dim; k++ {
			for j := 0; j < box.Dim; j++ {
				for i := 0; i < box.Dim; i++ {
					p := box.Index(i, j, k)
					G := lvl.Int3{I: box.Low.I + i, J: box.Low.J + j, K: box.Low.K + k}
					if i >= box.Ext.I || j >= box.Ext.J || k >= box.Ext.K {
						if v[lvl.F][p] != 0 || v[lvl.Utrue][p] != 0 {
							tst.Errorf("padded cell %v must not be set\n", G)
							return
						}
						continue
					}
					x, y, z := (float64(G.I)+0.5)*h, (float64(G.J)+0.5)*h, (float64(G.K)+0.5)*h
					chk.Float64(tst, "u", 1e-15, v[lvl.Utrue][p], o.U(x, y, z))
					chk.Float64(tst, "β_i", 1e-15, v[lvl.BetaI][p], o.Beta(float64(G.I)*h, y, z))
					chk.Float64(tst, "β_k", 1e-15, v[lvl.BetaK][p], o.Beta(x, y, float64(G.K)*h))
					if v[lvl.Alpha][p] != 1 {
						tst.Errorf("α must be 1\n")
						return
					}
				}
			}
		}
	}

	// the solution vanishes on the boundary faces
	chk.Float64(tst, "u(0,y,z)", 1e-15, o.U(0, 0.3, 0.6), 0)
	chk.Float64(tst, "u(1,y,z)", 1e-15, math.Abs(o.U(1, 0.3, 0.6)), 0)
}
