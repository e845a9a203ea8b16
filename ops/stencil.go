// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import "github.com/cpmech/gomg/lvl"

// stencil evaluates the 7-point operator on one box
type stencil struct {
	x, alpha   []float64 // unknown and cell coefficient
	bi, bj, bk []float64 // face coefficients
	valid      []float64 // validity mask
	js, ks     int       // strides
	a          float64   // coefficient of the α term
	bh2        float64   // b/h²
	helmholtz  bool      // include the α term
	fused      bool      // mask boundary contributions with valid
}

// newStencil returns the stencil of box applied to field x
func (o *Operator) newStencil(box *lvl.Box, x lvl.FieldId, a, b, h float64) stencil {
	v := box.Vectors
	return stencil{
		x:         v[x],
		alpha:     v[lvl.Alpha],
		bi:        v[lvl.BetaI],
		bj:        v[lvl.BetaJ],
		bk:        v[lvl.BetaK],
		valid:     v[lvl.Valid],
		js:        box.JStride,
		ks:        box.KStride,
		a:         a,
		bh2:       b / (h * h),
		helmholtz: o.Helmholtz,
		fused:     o.Policy == Fused,
	}
}

// axw returns (Ax)[ijk] given the k-neighbours xm, xp and the k-face coefficients bkm, bkp
//  Note: fused:  φ = valid_n (x + x_n) - 2x
//        ghost:  φ = x_n - x
func (o *stencil) axw(ijk int, xm, xc, xp, bkm, bkp float64) float64 {
	x, bi, bj, js := o.x, o.bi, o.bj, o.js
	var sum float64
	if o.fused {
		v, ks := o.valid, o.ks
		sum = bi[ijk]*(v[ijk-1]*(xc+x[ijk-1])-2*xc) +
			bi[ijk+1]*(v[ijk+1]*(xc+x[ijk+1])-2*xc) +
			bj[ijk]*(v[ijk-js]*(xc+x[ijk-js])-2*xc) +
			bj[ijk+js]*(v[ijk+js]*(xc+x[ijk+js])-2*xc) +
			bkm*(v[ijk-ks]*(xc+xm)-2*xc) +
			bkp*(v[ijk+ks]*(xc+xp)-2*xc)
	} else {
		sum = bi[ijk]*(x[ijk-1]-xc) +
			bi[ijk+1]*(x[ijk+1]-xc) +
			bj[ijk]*(x[ijk-js]-xc) +
			bj[ijk+js]*(x[ijk+js]-xc) +
			bkm*(xm-xc) +
			bkp*(xp-xc)
	}
	res := -o.bh2 * sum
	if o.helmholtz {
		res += o.a * o.alpha[ijk] * xc
	}
	return res
}

// ax returns (Ax)[ijk]
func (o *stencil) ax(ijk int) float64 {
	ks := o.ks
	return o.axw(ijk, o.x[ijk-ks], o.x[ijk], o.x[ijk+ks], o.bk[ijk], o.bk[ijk+ks])
}

// window computes out = Ax (rhs == nil) or out = rhs - Ax over a block
//  Note: x and β_k are read once per cell; the two trailing k-planes are carried along
func (o *stencil) window(box *lvl.Box, blk lvl.Block, out, rhs []float64) {
	w, ks := blk.Write, o.ks
	x, bk := o.x, o.bk
	for j := 0; j < blk.Dim.J; j++ {
		for i := 0; i < blk.Dim.I; i++ {
			ijk := box.Index(w.I+i, w.J+j, w.K)
			xm, xc, bkc := x[ijk-ks], x[ijk], bk[ijk]
			for k := 0; k < blk.Dim.K; k++ {
				xp, bkp := x[ijk+ks], bk[ijk+ks]
				v := o.axw(ijk, xm, xc, xp, bkc, bkp)
				if rhs != nil {
					v = rhs[ijk] - v
				}
				out[ijk] = v
				xm, xc, bkc = xc, xp, bkp
				ijk += ks
			}
		}
	}
}
