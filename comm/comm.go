// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package comm implements the messaging and reduction collaborators used by multigrid levels
package comm

import "github.com/cpmech/gosl/chk"

// Tag identifies one ghost message
type Tag struct {
	Box   int // id of the box receiving the ghost data
	Dir   int // direction index of the ghost region (0..26)
	Shape int // stencil footprint
}

// Less tells whether this tag comes before b
func (o Tag) Less(b Tag) bool {
	if o.Shape != b.Shape {
		return o.Shape < b.Shape
	}
	if o.Box != b.Box {
		return o.Box < b.Box
	}
	return o.Dir < b.Dir
}

// Comm defines point-to-point messages and collective reductions across ranks
//  Note: Isend and Irecv only post the operation; buffers must not be touched until WaitAll returns
type Comm interface {
	Rank() int                              // id of this rank
	Size() int                              // number of ranks
	Isend(peer int, tag Tag, buf []float64) // posts a send of buf to peer
	Irecv(peer int, tag Tag, buf []float64) // posts a receive into buf from peer
	WaitAll() error                         // completes all posted operations
	AllReduceMax(x float64) float64         // global maximum
	AllReduceSum(x float64) float64         // global sum
	AllReduceSumVec(x []float64)            // global element-wise sum; result replaces x
}

// pending holds a posted send or receive
type pending struct {
	peer int
	tag  Tag
	buf  []float64
}

// Serial implements Comm for a single rank
type Serial struct {
	err error
}

// Rank returns 0
func (o *Serial) Rank() int { return 0 }

// Size returns 1
func (o *Serial) Size() int { return 1 }

// Isend records an error since there are no peers
func (o *Serial) Isend(peer int, tag Tag, buf []float64) {
	o.err = chk.Err("serial communicator cannot send to rank %d (tag=%v)", peer, tag)
}

// Irecv records an error since there are no peers
func (o *Serial) Irecv(peer int, tag Tag, buf []float64) {
	o.err = chk.Err("serial communicator cannot receive from rank %d (tag=%v)", peer, tag)
}

// WaitAll returns the first error from posted operations, if any
func (o *Serial) WaitAll() (err error) {
	err, o.err = o.err, nil
	return
}

// AllReduceMax returns x
func (o *Serial) AllReduceMax(x float64) float64 { return x }

// AllReduceSum returns x
func (o *Serial) AllReduceSum(x float64) float64 { return x }

// AllReduceSumVec does nothing
func (o *Serial) AllReduceSumVec(x []float64) {}
