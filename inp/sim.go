// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON or YAML file
package inp

import (
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc        string `json:"desc" yaml:"desc"`               // description of simulation
	Problem     string `json:"problem" yaml:"problem"`         // manufactured solution; e.g. "sine" or "poly"
	VarCoef     bool   `json:"varcoef" yaml:"varcoef"`         // variable β
	DiscreteRhs bool   `json:"discreterhs" yaml:"discreterhs"` // compute f = A u_true instead of the analytical right-hand side
	DirOut      string `json:"dirout" yaml:"dirout"`           // directory for output; e.g. /tmp/gomg
	Encoder     string `json:"encoder" yaml:"encoder"`         // encoder name of the summary; "json" or "yaml"
	Summary     bool   `json:"summary" yaml:"summary"`         // save summary of the solve
}

// GridData holds the geometry of the finest level
type GridData struct {
	Dim    int    `json:"dim" yaml:"dim"`       // number of cells per axis in the unit cube
	BoxDim int    `json:"boxdim" yaml:"boxdim"` // number of cells per axis in each box
	Ghosts int    `json:"ghosts" yaml:"ghosts"` // number of ghost cells
	TileI  int    `json:"tilei" yaml:"tilei"`   // maximum block extent along i
	TileJ  int    `json:"tilej" yaml:"tilej"`   // maximum block extent along j
	TileK  int    `json:"tilek" yaml:"tilek"`   // maximum block extent along k
	Bc     string `json:"bc" yaml:"bc"`         // boundary condition: "periodic" or "dirichlet"
}

// SolverData holds multigrid solver data
type SolverData struct {

	// operator
	Stencil   string  `json:"stencil" yaml:"stencil"`     // stencil; only "7pt" is available
	Helmholtz bool    `json:"helmholtz" yaml:"helmholtz"` // include the a α u term
	A         float64 `json:"a" yaml:"a"`                 // coefficient of the α term
	B         float64 `json:"b" yaml:"b"`                 // coefficient of the divergence term
	Policy    string  `json:"policy" yaml:"policy"`       // boundary policy: "fused" or "ghost"
	Smoother  string  `json:"smoother" yaml:"smoother"`   // smoother: "gsrb", "cheby", "jacobi", "l1jacobi" or "symgs"
	Device    string  `json:"device" yaml:"device"`       // device: "host" or "stream"

	// cycles
	Bottom    string  `json:"bottom" yaml:"bottom"`       // bottom solver: "smooth", "bicgstab" or "dense"
	Cycle     string  `json:"cycle" yaml:"cycle"`         // "v" or "f"
	MaxCycles int     `json:"maxcycles" yaml:"maxcycles"` // maximum number of cycles
	Rtol      float64 `json:"rtol" yaml:"rtol"`           // tolerance on ‖f-Au‖∞/‖f‖∞
	Dtol      float64 `json:"dtol" yaml:"dtol"`           // tolerance on ‖D⁻¹(f-Au)‖∞/‖D⁻¹f‖∞
	MinCoarse int     `json:"mincoarse" yaml:"mincoarse"` // minimum box dimension of the coarsest level
	MaxLevels int     `json:"maxlevels" yaml:"maxlevels"` // maximum number of levels; 0 means no limit
	NBottom   int     `json:"nbottom" yaml:"nbottom"`     // number of smoother applications of the smooth bottom solver
	BottomTol float64 `json:"bottomtol" yaml:"bottomtol"` // relative tolerance of the bicgstab bottom solver
	BottomIts int     `json:"bottomits" yaml:"bottomits"` // maximum number of iterations of the bicgstab bottom solver
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data   Data       `json:"data" yaml:"data"`     // stores global simulation data
	Grid   GridData   `json:"grid" yaml:"grid"`     // geometry
	Solver SolverData `json:"solver" yaml:"solver"` // multigrid solver data

	// derived
	DirOut  string `json:"-" yaml:"-"` // directory to save results
	Key     string `json:"-" yaml:"-"` // simulation key; e.g. mysim01.sim => mysim01 or mysim01-alias
	EncType string `json:"-" yaml:"-"` // encoder type
}

// ReadSim reads all simulation data from a .sim (JSON), .json, .yaml or .yml file
//  Input:
//   simfilepath  -- simulation filename including full path
//   alias        -- word to be appended to simulation key
//   erasePrev    -- erase previous results files
//   createDirOut -- create directory for output results
func ReadSim(simfilepath, alias string, erasePrev, createDirOut bool) (o *Simulation, err error) {

	// new sim
	o = new(Simulation)

	// read file
	b, err := os.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q", simfilepath)
	}

	// set default values
	o.Data.SetDefault()
	o.Grid.SetDefault()
	o.Solver.SetDefault()

	// decode
	ext := strings.ToLower(filepath.Ext(simfilepath))
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, o)
	default:
		err = json.Unmarshal(b, o)
	}
	if err != nil {
		return nil, chk.Err("ReadSim: cannot unmarshal simulation file %q:\n%v", simfilepath, err)
	}

	// filename key
	fnkey := io.FnKey(filepath.Base(simfilepath))
	o.Key = fnkey
	if alias != "" {
		o.Key += "-" + alias
	}

	// output directory
	o.DirOut = os.ExpandEnv(o.Data.DirOut)
	if o.DirOut == "" {
		o.DirOut = "/tmp/gomg/" + fnkey
	}

	// encoder type
	o.EncType = o.Data.Encoder
	if o.EncType != "json" && o.EncType != "yaml" {
		o.EncType = "json"
	}

	// create directory
	if createDirOut {
		err = os.MkdirAll(o.DirOut, 0777)
		if err != nil {
			return nil, chk.Err("cannot create directory for output results (%s): %v", o.DirOut, err)
		}
	}

	// erase previous simulation results
	if erasePrev {
		io.RemoveAll(io.Sf("%s/%s*", o.DirOut, fnkey))
	}

	// check
	err = o.Grid.PostProcess()
	if err != nil {
		return nil, err
	}
	err = o.Solver.PostProcess()
	if err != nil {
		return nil, err
	}
	if o.Data.Problem == "poly" && o.Grid.Bc == "periodic" {
		return nil, chk.Err("problem %q requires Dirichlet boundaries", o.Data.Problem)
	}
	return
}

// GetInfo writes the simulation data in JSON format
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault sets defaults values
func (o *Data) SetDefault() {
	o.Problem = "sine"
	o.Encoder = "json"
}

// SetDefault sets defaults values
func (o *GridData) SetDefault() {
	o.Dim = 64
	o.BoxDim = 32
	o.Ghosts = 1
	o.Bc = "dirichlet"
}

// SetDefault sets defaults values
func (o *SolverData) SetDefault() {

	// operator
	o.Stencil = "7pt"
	o.Helmholtz = true
	o.A = 1
	o.B = 1
	o.Policy = "fused"
	o.Smoother = "gsrb"
	o.Device = "host"

	// cycles
	o.Bottom = "bicgstab"
	o.Cycle = "v"
	o.MaxCycles = 20
	o.Rtol = 1e-10
	o.MinCoarse = 2
	o.NBottom = 8
	o.BottomTol = 1e-3
	o.BottomIts = 200
}

// PostProcess checks the geometry just read
func (o *GridData) PostProcess() (err error) {
	o.Bc = strings.ToLower(o.Bc)
	if o.Bc != "periodic" && o.Bc != "dirichlet" {
		return chk.Err("boundary condition must be \"periodic\" or \"dirichlet\". %q is invalid", o.Bc)
	}
	if o.Dim < 1 || o.BoxDim < 1 {
		return chk.Err("dimensions must be positive. dim=%d and boxdim=%d are invalid", o.Dim, o.BoxDim)
	}
	if o.Bc == "periodic" && o.Dim%o.BoxDim != 0 {
		return chk.Err("periodic domain with dim=%d cannot be padded; it must be a multiple of boxdim=%d", o.Dim, o.BoxDim)
	}
	if o.Ghosts < 1 {
		return chk.Err("number of ghosts must be at least 1. %d is invalid", o.Ghosts)
	}
	return
}

// PostProcess checks the solver data just read
func (o *SolverData) PostProcess() (err error) {
	if o.Stencil != "7pt" {
		return chk.Err("stencil %q is not available; only \"7pt\" is", o.Stencil)
	}
	if o.Cycle != "v" && o.Cycle != "f" {
		return chk.Err("cycle must be \"v\" or \"f\". %q is invalid", o.Cycle)
	}
	if o.MaxCycles < 1 {
		return chk.Err("maximum number of cycles must be positive. %d is invalid", o.MaxCycles)
	}
	if o.Rtol <= 0 && o.Dtol <= 0 {
		return chk.Err("at least one of rtol and dtol must be positive")
	}
	if o.Bottom == "smooth" && o.NBottom < 1 {
		return chk.Err("number of bottom smoothing steps must be positive. %d is invalid", o.NBottom)
	}
	return
}
