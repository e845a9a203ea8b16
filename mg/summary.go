// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mg

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gopkg.in/yaml.v3"
)

// LevelSummary holds data of one level after a solve
type LevelSummary struct {
	H          float64 `json:"h" yaml:"h"`                   // cell spacing
	Dim        int     `json:"dim" yaml:"dim"`               // number of cells per axis
	BoxDim     int     `json:"boxdim" yaml:"boxdim"`         // number of cells per axis in each box
	Eigenvalue float64 `json:"eigenvalue" yaml:"eigenvalue"` // Gershgorin bound of D⁻¹A
	Cycles     int     `json:"cycles" yaml:"cycles"`         // number of cycles that visited the level
	Smooths    int     `json:"smooths" yaml:"smooths"`       // number of smoother sweeps
	Exchanges  int     `json:"exchanges" yaml:"exchanges"`   // number of halo exchanges
	Seconds    float64 `json:"seconds" yaml:"seconds"`       // time spent in smoothing, residuals and transfers
}

// Summary records the outcome of a simulation
type Summary struct {
	Desc      string         `json:"desc" yaml:"desc"`           // description of simulation
	Nproc     int            `json:"nproc" yaml:"nproc"`         // number of processors
	Smoother  string         `json:"smoother" yaml:"smoother"`   // smoother
	Bottom    string         `json:"bottom" yaml:"bottom"`       // bottom solver
	Cycles    int            `json:"cycles" yaml:"cycles"`       // number of cycles
	Norms     []float64      `json:"norms" yaml:"norms"`         // relative residuals after each cycle
	Converged bool           `json:"converged" yaml:"converged"` // a tolerance was reached
	Error     float64        `json:"error" yaml:"error"`         // ‖u - u_true‖∞
	Levels    []LevelSummary `json:"levels" yaml:"levels"`       // data of all levels
}

// Set collects the summary data
func (o *Summary) Set(m *Main, rep Report, errU float64) {
	o.Desc = m.Sim.Data.Desc
	o.Nproc = m.Nproc
	o.Smoother = m.H.Op.Smoother.Name()
	o.Bottom = m.H.Bottom.Name()
	o.Cycles = rep.Cycles
	o.Norms = rep.Norms
	o.Converged = rep.Converged
	o.Error = errU
	o.Levels = make([]LevelSummary, m.H.NumLevels())
	for i, g := range m.H.Grids {
		tm := &m.H.Tms[i]
		o.Levels[i] = LevelSummary{
			H:          g.L.H,
			Dim:        g.L.Dim.I,
			BoxDim:     g.L.BoxDim,
			Eigenvalue: g.L.DominantEigenvalue,
			Cycles:     tm.Cycles,
			Smooths:    tm.Smooths,
			Exchanges:  tm.Exchanges,
			Seconds:    (tm.Smooth + tm.Residual + tm.Restriction + tm.Interpolation + tm.Bottom).Seconds(),
		}
	}
}

// Save saves the summary to dirout/key.json or dirout/key.yaml
func (o *Summary) Save(dirout, key, enctype string) (err error) {
	var b []byte
	switch enctype {
	case "json":
		b, err = json.MarshalIndent(o, "", "  ")
	case "yaml":
		b, err = yaml.Marshal(o)
	default:
		return chk.Err("cannot find encoder named %q", enctype)
	}
	if err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}
	io.WriteBytesToFileD(dirout, key+"."+enctype, b)
	return
}

// ReadSummary reads a summary saved by Save
func ReadSummary(dirout, key, enctype string) (o *Summary, err error) {
	b, err := os.ReadFile(filepath.Join(dirout, key+"."+enctype))
	if err != nil {
		return
	}
	o = new(Summary)
	switch enctype {
	case "json":
		err = json.Unmarshal(b, o)
	case "yaml":
		err = yaml.Unmarshal(b, o)
	default:
		err = chk.Err("cannot find encoder named %q", enctype)
	}
	return
}
