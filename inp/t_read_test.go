// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bytes"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_sim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim01. JSON file")

	sim, err := ReadSim("data/sine.sim", "alias", false, false)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	if chk.Verbose {
		var buf bytes.Buffer
		sim.GetInfo(&buf)
		io.Pforan("%v\n", buf.String())
	}

	chk.String(tst, sim.Key, "sine-alias")
	chk.String(tst, sim.DirOut, "/tmp/gomg/sine")
	chk.String(tst, sim.EncType, "json")
	chk.String(tst, sim.Data.Problem, "sine")
	if !sim.Data.VarCoef || sim.Data.DiscreteRhs {
		tst.Errorf("data flags are incorrect: %+v\n", sim.Data)
		return
	}

	// grid: given and default values
	chk.Ints(tst, "dim, boxdim, ghosts, tiles", []int{sim.Grid.Dim, sim.Grid.BoxDim, sim.Grid.Ghosts, sim.Grid.TileI, sim.Grid.TileJ, sim.Grid.TileK}, []int{32, 8, 1, 0, 4, 4})
	chk.String(tst, sim.Grid.Bc, "dirichlet")

	// solver: given and default values
	s := sim.Solver
	chk.String(tst, s.Stencil, "7pt")
	chk.String(tst, s.Policy, "fused")
	chk.String(tst, s.Smoother, "cheby")
	chk.String(tst, s.Bottom, "bicgstab")
	chk.String(tst, s.Cycle, "f")
	chk.String(tst, s.Device, "host")
	chk.Ints(tst, "maxcycles, mincoarse, maxlevels, nbottom, bottomits", []int{s.MaxCycles, s.MinCoarse, s.MaxLevels, s.NBottom, s.BottomIts}, []int{10, 2, 0, 8, 200})
	chk.Array(tst, "a, b, rtol, dtol, bottomtol", 1e-17, []float64{s.A, s.B, s.Rtol, s.Dtol, s.BottomTol}, []float64{1, 1, 1e-9, 0, 1e-3})
}

func Test_sim02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim02. YAML file")

	sim, err := ReadSim("data/poisson.yaml", "", false, false)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	chk.String(tst, sim.Key, "poisson")
	chk.String(tst, sim.EncType, "yaml")
	chk.String(tst, sim.Grid.Bc, "periodic")
	chk.String(tst, sim.Solver.Policy, "ghost")
	chk.String(tst, sim.Solver.Bottom, "dense")
	chk.String(tst, sim.Solver.Device, "stream")
	if sim.Solver.Helmholtz || !sim.Data.DiscreteRhs {
		tst.Errorf("flags are incorrect\n")
		return
	}
	chk.Array(tst, "rtol, dtol", 1e-17, []float64{sim.Solver.Rtol, sim.Solver.Dtol}, []float64{0, 1e-8})
}

func Test_sim03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim03. invalid files")

	for _, fn := range []string{"data/bad27.sim", "data/badpad.yml", "data/notfound.sim"} {
		_, err := ReadSim(fn, "", false, false)
		if err == nil {
			tst.Errorf("reading %q must fail\n", fn)
			return
		}
		io.Pforan("%s: %v\n", fn, err)
	}

	var s SolverData
	s.SetDefault()
	s.Cycle = "w"
	if s.PostProcess() == nil {
		tst.Errorf("cycle \"w\" must fail\n")
	}
	s.SetDefault()
	s.Rtol = 0
	if s.PostProcess() == nil {
		tst.Errorf("zero tolerances must fail\n")
	}

	var g GridData
	g.SetDefault()
	g.Bc = "Neumann"
	if g.PostProcess() == nil {
		tst.Errorf("Neumann boundaries must fail\n")
	}
}
