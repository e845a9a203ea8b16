// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comm

import (
	"math"
	"sync"

	"github.com/cpmech/gosl/chk"
	"golang.org/x/sync/errgroup"
)

// mailKey identifies a FIFO queue of messages
type mailKey struct {
	from, to int
	tag      Tag
}

// hub holds the state shared by all ranks of a Local group
type hub struct {
	size   int
	mu     sync.Mutex
	cond   *sync.Cond
	boxes  map[mailKey][][]float64 // queued messages
	failed error                   // set when one rank aborts

	// reductions
	gen   int         // generation of current reduction
	count int         // number of ranks that arrived
	parts [][]float64 // [size] contributions
	out   []float64   // result of last reduction
}

// Local implements Comm with ranks running as goroutines of the same process
type Local struct {
	rank  int
	hub   *hub
	recvs []pending
	err   error
}

// NewLocalGroup returns size communicators sharing the same mailboxes
func NewLocalGroup(size int) (group []*Local) {
	if size < 1 {
		chk.Panic("number of ranks must be at least 1; %d is invalid", size)
	}
	h := &hub{size: size, boxes: make(map[mailKey][][]float64), parts: make([][]float64, size)}
	h.cond = sync.NewCond(&h.mu)
	group = make([]*Local, size)
	for i := 0; i < size; i++ {
		group[i] = &Local{rank: i, hub: h}
	}
	return
}

// RunLocal runs fcn on size ranks, each in its own goroutine, and waits for all of them
//  Note: an error or panic on one rank aborts the group so that blocked ranks return
func RunLocal(size int, fcn func(c *Local) error) error {
	var g errgroup.Group
	for _, c := range NewLocalGroup(size) {
		c := c
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = chk.Err("rank %d panicked: %v", c.rank, r)
				}
				if err != nil {
					c.hub.abort(err)
				}
			}()
			return fcn(c)
		})
	}
	return g.Wait()
}

// Rank returns the id of this rank
func (o *Local) Rank() int { return o.rank }

// Size returns the number of ranks in the group
func (o *Local) Size() int { return o.hub.size }

// Isend queues a copy of buf in the mailbox of peer
func (o *Local) Isend(peer int, tag Tag, buf []float64) {
	if peer < 0 || peer >= o.hub.size {
		o.err = chk.Err("cannot send to rank %d: group has %d ranks", peer, o.hub.size)
		return
	}
	msg := make([]float64, len(buf))
	copy(msg, buf)
	k := mailKey{o.rank, peer, tag}
	o.hub.mu.Lock()
	o.hub.boxes[k] = append(o.hub.boxes[k], msg)
	o.hub.mu.Unlock()
	o.hub.cond.Broadcast()
}

// Irecv posts a receive into buf
func (o *Local) Irecv(peer int, tag Tag, buf []float64) {
	if peer < 0 || peer >= o.hub.size {
		o.err = chk.Err("cannot receive from rank %d: group has %d ranks", peer, o.hub.size)
		return
	}
	o.recvs = append(o.recvs, pending{peer, tag, buf})
}

// WaitAll blocks until all posted receives are filled
func (o *Local) WaitAll() (err error) {
	defer func() {
		o.recvs = o.recvs[:0]
		o.err = nil
	}()
	if o.err != nil {
		return o.err
	}
	h := o.hub
	for _, r := range o.recvs {
		k := mailKey{r.peer, o.rank, r.tag}
		h.mu.Lock()
		for len(h.boxes[k]) == 0 && h.failed == nil {
			h.cond.Wait()
		}
		if h.failed != nil {
			h.mu.Unlock()
			return chk.Err("rank %d: receive from rank %d aborted:\n%v", o.rank, r.peer, h.failed)
		}
		msg := h.boxes[k][0]
		h.boxes[k] = h.boxes[k][1:]
		h.mu.Unlock()
		if len(msg) != len(r.buf) {
			return chk.Err("rank %d: message from rank %d with tag %v has %d values; %d expected", o.rank, r.peer, r.tag, len(msg), len(r.buf))
		}
		copy(r.buf, msg)
	}
	return
}

// AllReduceMax returns the maximum of x over all ranks
func (o *Local) AllReduceMax(x float64) float64 {
	v := []float64{x}
	o.hub.allReduce(o.rank, v, math.Max)
	return v[0]
}

// AllReduceSum returns the sum of x over all ranks
func (o *Local) AllReduceSum(x float64) float64 {
	v := []float64{x}
	o.hub.allReduce(o.rank, v, add)
	return v[0]
}

// AllReduceSumVec sums x element-wise over all ranks
func (o *Local) AllReduceSumVec(x []float64) {
	o.hub.allReduce(o.rank, x, add)
}

func add(a, b float64) float64 { return a + b }

// allReduce combines contributions in rank order, so results do not depend on arrival order
func (o *hub) allReduce(rank int, x []float64, op func(a, b float64) float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	gen := o.gen
	o.parts[rank] = append(o.parts[rank][:0], x...)
	o.count++
	if o.count == o.size {
		res := make([]float64, len(x))
		copy(res, o.parts[0])
		for r := 1; r < o.size; r++ {
			for i := range res {
				res[i] = op(res[i], o.parts[r][i])
			}
		}
		o.out = res
		o.count = 0
		o.gen++
		o.cond.Broadcast()
	} else {
		for gen == o.gen && o.failed == nil {
			o.cond.Wait()
		}
		if o.failed != nil {
			return
		}
	}
	copy(x, o.out)
}

// abort wakes up every blocked rank
func (o *hub) abort(err error) {
	o.mu.Lock()
	if o.failed == nil {
		o.failed = err
	}
	o.mu.Unlock()
	o.cond.Broadcast()
}
