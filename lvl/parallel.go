// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lvl

import "github.com/exascience/pargo/parallel"

// Parallel runs fcn for every block in [0,n)
//  Note: runs inline when there is at most one block
func Parallel(n int, fcn func(b int)) {
	switch {
	case n < 1:
		return
	case n == 1:
		fcn(0)
		return
	}
	parallel.Range(0, n, 0, func(low, high int) {
		for b := low; b < high; b++ {
			fcn(b)
		}
	})
}

// Reduce runs fcn for every block in [0,n) and combines the results with pair
//  Input:
//   zero -- identity of pair; returned when n == 0
func Reduce(n int, fcn func(b int) float64, pair func(x, y float64) float64, zero float64) float64 {
	switch {
	case n < 1:
		return zero
	case n == 1:
		return pair(zero, fcn(0))
	}
	return parallel.RangeReduceFloat64(0, n, 0, func(low, high int) (res float64) {
		res = zero
		for b := low; b < high; b++ {
			res = pair(res, fcn(b))
		}
		return
	}, pair)
}

// Sum adds two numbers
func Sum(x, y float64) float64 { return x + y }
