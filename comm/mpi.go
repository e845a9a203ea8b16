// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comm

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/mpi"
)

// Mpi implements Comm on top of the MPI World communicator
//  Note: MPI must be started (mpi.Start) before NewMpi is called. Posted operations are
//        completed in WaitAll, peer by peer in ascending rank order; for each pair, the lower
//        rank sends first. Messages to the same peer are ordered by tag on both sides.
type Mpi struct {
	comm  *mpi.Communicator
	sends []pending
	recvs []pending
}

// NewMpi returns a new communicator over all MPI processes
func NewMpi() *Mpi {
	if !mpi.IsOn() {
		chk.Panic("MPI must be started before creating the communicator")
	}
	return &Mpi{comm: mpi.NewCommunicator(nil)}
}

// Rank returns the id of this process
func (o *Mpi) Rank() int { return o.comm.Rank() }

// Size returns the number of processes
func (o *Mpi) Size() int { return o.comm.Size() }

// Isend posts a send
func (o *Mpi) Isend(peer int, tag Tag, buf []float64) {
	o.sends = append(o.sends, pending{peer, tag, buf})
}

// Irecv posts a receive
func (o *Mpi) Irecv(peer int, tag Tag, buf []float64) {
	o.recvs = append(o.recvs, pending{peer, tag, buf})
}

// WaitAll completes all posted sends and receives
func (o *Mpi) WaitAll() (err error) {
	defer func() {
		o.sends = o.sends[:0]
		o.recvs = o.recvs[:0]
	}()
	me, size := o.comm.Rank(), o.comm.Size()
	sends := groupByPeer(o.sends)
	recvs := groupByPeer(o.recvs)
	for peer := 0; peer < size; peer++ {
		ss, rr := sends[peer], recvs[peer]
		if len(ss) == 0 && len(rr) == 0 {
			continue
		}
		if peer == me {
			return chk.Err("rank %d cannot exchange messages with itself", me)
		}
		if me < peer {
			o.send(ss)
			o.recv(rr)
		} else {
			o.recv(rr)
			o.send(ss)
		}
	}
	return
}

// AllReduceMax returns the maximum of x over all processes
func (o *Mpi) AllReduceMax(x float64) float64 {
	res := []float64{0}
	o.comm.AllReduceMax(res, []float64{x})
	return res[0]
}

// AllReduceSum returns the sum of x over all processes
func (o *Mpi) AllReduceSum(x float64) float64 {
	res := []float64{0}
	o.comm.AllReduceSum(res, []float64{x})
	return res[0]
}

// AllReduceSumVec sums x element-wise over all processes
func (o *Mpi) AllReduceSumVec(x []float64) {
	res := make([]float64, len(x))
	o.comm.AllReduceSum(res, x)
	copy(x, res)
}

func (o *Mpi) send(msgs []pending) {
	for _, m := range msgs {
		o.comm.Send(m.buf, m.peer)
	}
}

func (o *Mpi) recv(msgs []pending) {
	for _, m := range msgs {
		o.comm.Recv(m.buf, m.peer)
	}
}

// groupByPeer splits messages by peer, each group sorted by tag
func groupByPeer(msgs []pending) (res map[int][]pending) {
	res = make(map[int][]pending)
	for _, m := range msgs {
		res[m.peer] = append(res[m.peer], m)
	}
	for _, list := range res {
		sort.Slice(list, func(i, j int) bool { return list[i].tag.Less(list[j].tag) })
	}
	return
}
