// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lvl

import "github.com/cpmech/gosl/io"

// Int3 holds a triple of integers along the i, j and k axes
type Int3 struct {
	I, J, K int
}

// Cube returns {n, n, n}
func Cube(n int) Int3 { return Int3{n, n, n} }

// Prod returns I*J*K
func (o Int3) Prod() int { return o.I * o.J * o.K }

// At returns the component along axis (0=i, 1=j, 2=k)
func (o Int3) At(axis int) int {
	switch axis {
	case 0:
		return o.I
	case 1:
		return o.J
	}
	return o.K
}

// With returns a copy of o with the component along axis replaced by v
func (o Int3) With(axis, v int) Int3 {
	switch axis {
	case 0:
		o.I = v
	case 1:
		o.J = v
	default:
		o.K = v
	}
	return o
}

// String returns a string representation of o
func (o Int3) String() string { return io.Sf("(%d,%d,%d)", o.I, o.J, o.K) }

// BlockRef points to the origin of a rectangular region inside one owned box
//  Note: I, J, K are relative to the first interior cell; negative values address ghosts
type BlockRef struct {
	Box     int // index in Level.MyBoxes
	I, J, K int // origin
}

// Block holds a rectangular unit of work
//  Note: for compute operators Read == Write; for copies, Read is the source region and
//        Write the destination region, both with extent Dim
type Block struct {
	Dim   Int3
	Read  BlockRef
	Write BlockRef
}

// Decompose assigns nboxes boxes, enumerated lexicographically, to nranks ranks in
// contiguous chunks. The first nboxes%nranks ranks receive one extra box.
func Decompose(nboxes, nranks int) (owners []int) {
	owners = make([]int, nboxes)
	q, r := nboxes/nranks, nboxes%nranks
	b := 0
	for rank := 0; rank < nranks; rank++ {
		n := q
		if rank < r {
			n++
		}
		for c := 0; c < n; c++ {
			owners[b] = rank
			b++
		}
	}
	return
}

// TileBlocks cuts the in-domain region of each box into blocks no larger than tile
//  Note: tail blocks carry their real extent
func TileBlocks(boxes []*Box, tile Int3) (blocks []Block) {
	for ib, box := range boxes {
		ext := box.Ext
		for k := 0; k < ext.K; k += tile.K {
			for j := 0; j < ext.J; j += tile.J {
				for i := 0; i < ext.I; i += tile.I {
					ref := BlockRef{ib, i, j, k}
					blocks = append(blocks, Block{
						Dim:   Int3{min(tile.I, ext.I-i), min(tile.J, ext.J-j), min(tile.K, ext.K-k)},
						Read:  ref,
						Write: ref,
					})
				}
			}
		}
	}
	return
}
