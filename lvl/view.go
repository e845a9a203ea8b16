// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lvl

// View addresses one field of one box through its origin and strides
type View struct {
	Data    []float64 // field buffer
	Origin  int       // position of the first interior cell
	JStride int       // stride along j
	KStride int       // stride along k
	Lo, Hi  int       // valid local coordinates are Lo <= i,j,k < Hi
}

// Index returns the position of (i,j,k) in Data
func (o View) Index(i, j, k int) int {
	if Debug {
		o.check(i, j, k)
	}
	return o.Origin + i + j*o.JStride + k*o.KStride
}

// At returns the value at (i,j,k)
func (o View) At(i, j, k int) float64 { return o.Data[o.Index(i, j, k)] }

// Set sets the value at (i,j,k)
func (o View) Set(i, j, k int, v float64) { o.Data[o.Index(i, j, k)] = v }

// Row returns the n values starting at (i,j,k) along the i axis
func (o View) Row(i, j, k, n int) []float64 {
	if Debug && n > 0 {
		o.check(i+n-1, j, k)
	}
	p := o.Index(i, j, k)
	return o.Data[p : p+n]
}
