// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comm

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func Test_local01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("local01. ring of messages")

	size := 4
	res := make([][]float64, size)
	err := RunLocal(size, func(c *Local) error {
		me := c.Rank()
		right := (me + 1) % size
		left := (me + size - 1) % size
		out := []float64{float64(me), float64(10 * me)}
		in := make([]float64, 2)
		c.Irecv(left, Tag{Box: me, Dir: 4}, in)
		c.Isend(right, Tag{Box: right, Dir: 4}, out)
		out[0] = -1 // buffer was copied by Isend
		if err := c.WaitAll(); err != nil {
			return err
		}
		res[me] = in
		return nil
	})
	if err != nil {
		tst.Errorf("RunLocal failed:\n%v", err)
		return
	}
	for me := 0; me < size; me++ {
		left := (me + size - 1) % size
		chk.Array(tst, "received", 1e-17, res[me], []float64{float64(left), float64(10 * left)})
	}
}

func Test_local02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("local02. reductions")

	size := 3
	maxs := make([]float64, size)
	sums := make([]float64, size)
	vecs := make([][]float64, size)
	err := RunLocal(size, func(c *Local) error {
		me := c.Rank()
		for it := 0; it < 5; it++ { // repeated reductions reuse the same generation barrier
			maxs[me] = c.AllReduceMax(float64(me + it))
			sums[me] = c.AllReduceSum(1.5)
		}
		v := []float64{float64(me), 1}
		c.AllReduceSumVec(v)
		vecs[me] = v
		return nil
	})
	if err != nil {
		tst.Errorf("RunLocal failed:\n%v", err)
		return
	}
	for me := 0; me < size; me++ {
		chk.Float64(tst, "max", 1e-17, maxs[me], 6)
		chk.Float64(tst, "sum", 1e-17, sums[me], 4.5)
		chk.Array(tst, "vec", 1e-17, vecs[me], []float64{3, 3})
	}
}

func Test_local03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("local03. abort unblocks waiting ranks")

	err := RunLocal(2, func(c *Local) error {
		if c.Rank() == 0 {
			return errors.New("rank 0 gave up")
		}
		c.Irecv(0, Tag{}, make([]float64, 1))
		return c.WaitAll()
	})
	if err == nil {
		tst.Errorf("RunLocal should have failed\n")
	}
}

func Test_local04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("local04. message size mismatch and serial")

	err := RunLocal(2, func(c *Local) error {
		if c.Rank() == 0 {
			c.Isend(1, Tag{Box: 7}, []float64{1, 2, 3})
			return c.WaitAll()
		}
		c.Irecv(0, Tag{Box: 7}, make([]float64, 2))
		if e := c.WaitAll(); e == nil {
			return errors.New("size mismatch was not detected")
		}
		return nil
	})
	if err != nil {
		tst.Errorf("%v\n", err)
	}

	var s Serial
	chk.Int(tst, "rank", s.Rank(), 0)
	chk.Int(tst, "size", s.Size(), 1)
	chk.Float64(tst, "max", 1e-17, s.AllReduceMax(3), 3)
	s.Isend(1, Tag{}, nil)
	if s.WaitAll() == nil {
		tst.Errorf("serial send should fail\n")
	}
	if s.WaitAll() != nil {
		tst.Errorf("error should be cleared after WaitAll\n")
	}
}
