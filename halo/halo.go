// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package halo implements the exchange of ghost cells and the boundary conditions
package halo

import (
	"time"

	"github.com/cpmech/gomg/dev"
	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gosl/chk"
)

// Exchanger keeps the ghost cells of one level consistent
type Exchanger struct {
	l     *lvl.Level
	dev   dev.Device
	plans [lvl.NumShapes]plan
}

// New returns a new exchanger for level l
//  Input:
//   l -- level
//   d -- device writing the fields; synchronised before any exchange
func New(l *lvl.Level, d dev.Device) (o *Exchanger) {
	o = &Exchanger{l: l, dev: d}
	for s := lvl.Shape(0); s < lvl.NumShapes; s++ {
		o.plans[s] = newPlan(l, s)
	}
	return
}

// NumMessages returns the number of messages sent and received per exchange
func (o *Exchanger) NumMessages(shape lvl.Shape) (nsend, nrecv int) {
	return len(o.plans[shape].sends), len(o.plans[shape].recvs)
}

// Exchange fills the ghost cells of field id reached by footprint shape
//  Note: blocking; returns only when every ghost of the footprint holds its neighbour's value
func (o *Exchanger) Exchange(tm *lvl.Timers, id lvl.FieldId, shape lvl.Shape) (err error) {
	t0 := time.Now()
	defer lvl.Since(&tm.GhostTotal, t0)
	tm.Exchanges++

	// kernels writing id must be done
	err = o.sync(tm)
	if err != nil {
		return
	}

	// post receives
	p := &o.plans[shape]
	c := o.l.Comm
	for _, m := range p.recvs {
		c.Irecv(m.peer, m.tag, m.buf)
	}

	// pack and post sends
	t := time.Now()
	lvl.Parallel(len(p.sends), func(i int) {
		m := p.sends[i]
		pack(m.buf, o.l.MyBoxes[m.blk.Read.Box].View(id), m.blk)
	})
	lvl.Since(&tm.GhostPack, t)
	for _, m := range p.sends {
		c.Isend(m.peer, m.tag, m.buf)
	}

	// same-rank copies
	t = time.Now()
	lvl.Parallel(len(p.local), func(i int) {
		blk := p.local[i]
		copyBlock(o.l.MyBoxes[blk.Write.Box].View(id), o.l.MyBoxes[blk.Read.Box].View(id), blk)
	})
	lvl.Since(&tm.GhostLocal, t)

	// wait for messages
	if len(p.sends)+len(p.recvs) > 0 {
		t = time.Now()
		err = c.WaitAll()
		lvl.Since(&tm.GhostWait, t)
		if err != nil {
			return chk.Err("exchange of %v failed:\n%v", id, err)
		}
	}

	// unpack
	t = time.Now()
	lvl.Parallel(len(p.recvs), func(i int) {
		m := p.recvs[i]
		unpack(o.l.MyBoxes[m.blk.Write.Box].View(id), m.buf, m.blk)
	})
	lvl.Since(&tm.GhostUnpack, t)
	return
}

// ApplyBCs fills the ghost cells of field id beyond non-periodic boundaries
//  Note: ghost = (-1)^n x[mirror] with n the number of axes outside the domain; the ghosts
//        of neighbouring boxes must have been exchanged with the same footprint
func (o *Exchanger) ApplyBCs(tm *lvl.Timers, id lvl.FieldId, shape lvl.Shape) (err error) {
	if o.l.BC == lvl.Periodic {
		return
	}
	t0 := time.Now()
	defer lvl.Since(&tm.BCs, t0)
	err = o.sync(tm)
	if err != nil {
		return
	}
	bcs := o.plans[shape].bcs
	lvl.Parallel(len(bcs), func(ib int) {
		x := o.l.MyBoxes[ib].Vectors[id]
		for _, p := range bcs[ib] {
			x[p.dst] = p.sign * x[p.src]
		}
	})
	return
}

func (o *Exchanger) sync(tm *lvl.Timers) (err error) {
	t0 := time.Now()
	err = o.dev.Synchronize()
	lvl.Since(&tm.Sync, t0)
	return
}

// pack copies the read region of blk into buf
func pack(buf []float64, src lvl.View, blk lvl.Block) {
	n, r := blk.Dim, blk.Read
	p := 0
	for k := 0; k < n.K; k++ {
		for j := 0; j < n.J; j++ {
			copy(buf[p:p+n.I], src.Row(r.I, r.J+j, r.K+k, n.I))
			p += n.I
		}
	}
}

// unpack copies buf into the write region of blk
func unpack(dst lvl.View, buf []float64, blk lvl.Block) {
	n, w := blk.Dim, blk.Write
	p := 0
	for k := 0; k < n.K; k++ {
		for j := 0; j < n.J; j++ {
			copy(dst.Row(w.I, w.J+j, w.K+k, n.I), buf[p:p+n.I])
			p += n.I
		}
	}
}

// copyBlock copies the read region of blk into its write region
func copyBlock(dst, src lvl.View, blk lvl.Block) {
	n, r, w := blk.Dim, blk.Read, blk.Write
	for k := 0; k < n.K; k++ {
		for j := 0; j < n.J; j++ {
			copy(dst.Row(w.I, w.J+j, w.K+k, n.I), src.Row(r.I, r.J+j, r.K+k, n.I))
		}
	}
}
