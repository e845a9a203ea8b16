// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lvl

import (
	"time"

	"github.com/cpmech/gosl/io"
)

// Timers accumulates the time spent in each phase on one level
//  Note: operators receive a *Timers from the caller; callers merge them with Add
type Timers struct {
	Smooth        time.Duration
	Residual      time.Duration
	ApplyOp       time.Duration
	Blas1         time.Duration
	Rebuild       time.Duration
	Restriction   time.Duration
	Interpolation time.Duration
	GhostTotal    time.Duration
	GhostPack     time.Duration
	GhostLocal    time.Duration
	GhostWait     time.Duration
	GhostUnpack   time.Duration
	BCs           time.Duration
	Collectives   time.Duration
	Sync          time.Duration
	Bottom        time.Duration
	Cycles        int // number of cycles that visited this level
	Smooths       int // number of smoother sweeps
	Exchanges     int // number of halo exchanges
}

// Add adds the timings of b to o
func (o *Timers) Add(b *Timers) {
	o.Smooth += b.Smooth
	o.Residual += b.Residual
	o.ApplyOp += b.ApplyOp
	o.Blas1 += b.Blas1
	o.Rebuild += b.Rebuild
	o.Restriction += b.Restriction
	o.Interpolation += b.Interpolation
	o.GhostTotal += b.GhostTotal
	o.GhostPack += b.GhostPack
	o.GhostLocal += b.GhostLocal
	o.GhostWait += b.GhostWait
	o.GhostUnpack += b.GhostUnpack
	o.BCs += b.BCs
	o.Collectives += b.Collectives
	o.Sync += b.Sync
	o.Bottom += b.Bottom
	o.Cycles += b.Cycles
	o.Smooths += b.Smooths
	o.Exchanges += b.Exchanges
}

// Reset zeroes all timers
func (o *Timers) Reset() { *o = Timers{} }

// Since adds the time elapsed since t0 to *d
func Since(d *time.Duration, t0 time.Time) { *d += time.Since(t0) }

// Table returns a table with the timings of all levels
func Table(tms []Timers) (l string) {
	l = io.Sf("%-14s", "level")
	for i := range tms {
		l += io.Sf("%12d", i)
	}
	l += io.Sf("%12s\n", "total")
	row := func(name string, get func(t *Timers) time.Duration) {
		var tot time.Duration
		l += io.Sf("%-14s", name)
		for i := range tms {
			d := get(&tms[i])
			tot += d
			l += io.Sf("%12.6f", d.Seconds())
		}
		l += io.Sf("%12.6f\n", tot.Seconds())
	}
	row("smooth", func(t *Timers) time.Duration { return t.Smooth })
	row("residual", func(t *Timers) time.Duration { return t.Residual })
	row("applyOp", func(t *Timers) time.Duration { return t.ApplyOp })
	row("blas1", func(t *Timers) time.Duration { return t.Blas1 })
	row("rebuild", func(t *Timers) time.Duration { return t.Rebuild })
	row("restriction", func(t *Timers) time.Duration { return t.Restriction })
	row("interpolation", func(t *Timers) time.Duration { return t.Interpolation })
	row("ghosts", func(t *Timers) time.Duration { return t.GhostTotal })
	row("  pack", func(t *Timers) time.Duration { return t.GhostPack })
	row("  local", func(t *Timers) time.Duration { return t.GhostLocal })
	row("  wait", func(t *Timers) time.Duration { return t.GhostWait })
	row("  unpack", func(t *Timers) time.Duration { return t.GhostUnpack })
	row("bcs", func(t *Timers) time.Duration { return t.BCs })
	row("collectives", func(t *Timers) time.Duration { return t.Collectives })
	row("sync", func(t *Timers) time.Duration { return t.Sync })
	row("bottom", func(t *Timers) time.Duration { return t.Bottom })
	return
}
