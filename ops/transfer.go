// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"time"

	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gosl/chk"
)

// Kind defines where a restricted quantity lives
type Kind int

// restriction kinds
const (
	Cell  Kind = iota // cell average of 8 fine cells
	FaceI             // average of 4 fine faces normal to i
	FaceJ             // average of 4 fine faces normal to j
	FaceK             // average of 4 fine faces normal to k
)

// P1 interpolation weights
const (
	w0 = 27.0 / 64.0 // coarse cell
	w1 = 9.0 / 64.0  // face neighbours
	w2 = 3.0 / 64.0  // edge neighbours
	w3 = 1.0 / 64.0  // corner neighbour
)

// checkPair checks that coarse and fine hold the same boxes
func checkPair(coarse, fine *Grid) error {
	if len(coarse.L.MyBoxes) != len(fine.L.MyBoxes) || coarse.L.BoxDim*2 != fine.L.BoxDim {
		return chk.Err("levels are not a coarse/fine pair: %v and %v", coarse.L, fine.L)
	}
	return nil
}

// Restriction computes field idc of the coarse grid from field idf of the fine grid
//  Note: face kinds include the high face of each box
func Restriction(tm *lvl.Timers, coarse *Grid, idc lvl.FieldId, fine *Grid, idf lvl.FieldId, kind Kind) (err error) {
	t0 := time.Now()
	defer lvl.Since(&tm.Restriction, t0)
	err = checkPair(coarse, fine)
	if err != nil {
		return
	}
	err = fine.Sync(tm)
	if err != nil {
		return
	}
	lc, lf := coarse.L, fine.L
	coarse.Dev.Launch("restriction", len(lc.MyBlocks), func(ib int) {
		blk := lc.MyBlocks[ib]
		cbox := lc.MyBoxes[blk.Write.Box]
		fbox := lf.MyBoxes[blk.Write.Box]
		c, f := cbox.View(idc), fbox.View(idf)
		w, n := blk.Write, blk.Dim
		ni, nj, nk := n.I, n.J, n.K
		switch kind {
		case FaceI:
			if w.I+n.I == cbox.Ext.I {
				ni++
			}
		case FaceJ:
			if w.J+n.J == cbox.Ext.J {
				nj++
			}
		case FaceK:
			if w.K+n.K == cbox.Ext.K {
				nk++
			}
		}
		for k := w.K; k < w.K+nk; k++ {
			for j := w.J; j < w.J+nj; j++ {
				for i := w.I; i < w.I+ni; i++ {
					I, J, K := 2*i, 2*j, 2*k
					var v float64
					switch kind {
					case Cell:
						v = 0.125 * (f.At(I, J, K) + f.At(I+1, J, K) + f.At(I, J+1, K) + f.At(I+1, J+1, K) +
							f.At(I, J, K+1) + f.At(I+1, J, K+1) + f.At(I, J+1, K+1) + f.At(I+1, J+1, K+1))
					case FaceI:
						v = 0.25 * (f.At(I, J, K) + f.At(I, J+1, K) + f.At(I, J, K+1) + f.At(I, J+1, K+1))
					case FaceJ:
						v = 0.25 * (f.At(I, J, K) + f.At(I+1, J, K) + f.At(I, J, K+1) + f.At(I+1, J, K+1))
					case FaceK:
						v = 0.25 * (f.At(I, J, K) + f.At(I+1, J, K) + f.At(I, J+1, K) + f.At(I+1, J+1, K))
					}
					c.Set(i, j, k, v)
				}
			}
		}
	})
	return
}

// InterpolationP0 computes x_f = prescale x_f + x_c with piecewise constant interpolation
func InterpolationP0(tm *lvl.Timers, fine *Grid, idf lvl.FieldId, prescale float64, coarse *Grid, idc lvl.FieldId) (err error) {
	t0 := time.Now()
	defer lvl.Since(&tm.Interpolation, t0)
	err = checkPair(coarse, fine)
	if err != nil {
		return
	}
	err = coarse.Sync(tm)
	if err != nil {
		return
	}
	lc, lf := coarse.L, fine.L
	fine.Dev.Launch("interpolationP0", len(lf.MyBlocks), func(ib int) {
		blk := lf.MyBlocks[ib]
		c := lc.MyBoxes[blk.Write.Box].View(idc)
		fbox := lf.MyBoxes[blk.Write.Box]
		f := fbox.Vectors[idf]
		w := blk.Write
		for k := w.K; k < w.K+blk.Dim.K; k++ {
			for j := w.J; j < w.J+blk.Dim.J; j++ {
				p := fbox.Index(w.I, j, k)
				for i := w.I; i < w.I+blk.Dim.I; i++ {
					f[p] = prescale*f[p] + c.At(i>>1, j>>1, k>>1)
					p++
				}
			}
		}
	})
	return
}

// InterpolationP1 computes x_f = prescale x_f + P x_c with trilinear interpolation
//  Note: the coarse field is exchanged with the box footprint and reflected at boundaries
func InterpolationP1(tm *lvl.Timers, fine *Grid, idf lvl.FieldId, prescale float64, coarse *Grid, idc lvl.FieldId) (err error) {
	err = checkPair(coarse, fine)
	if err != nil {
		return
	}
	err = coarse.X.Exchange(tm, idc, lvl.ShapeBox)
	if err != nil {
		return
	}
	err = coarse.X.ApplyBCs(tm, idc, lvl.ShapeBox)
	if err != nil {
		return
	}
	t0 := time.Now()
	defer lvl.Since(&tm.Interpolation, t0)
	lc, lf := coarse.L, fine.L
	fine.Dev.Launch("interpolationP1", len(lf.MyBlocks), func(ib int) {
		blk := lf.MyBlocks[ib]
		c := lc.MyBoxes[blk.Write.Box].View(idc)
		fbox := lf.MyBoxes[blk.Write.Box]
		f := fbox.Vectors[idf]
		w := blk.Write
		for k := w.K; k < w.K+blk.Dim.K; k++ {
			kc, dk := k>>1, delta(k)
			for j := w.J; j < w.J+blk.Dim.J; j++ {
				jc, dj := j>>1, delta(j)
				p := fbox.Index(w.I, j, k)
				for i := w.I; i < w.I+blk.Dim.I; i++ {
					ic, di := i>>1, delta(i)
					f[p] = prescale*f[p] +
						w0*c.At(ic, jc, kc) +
						w1*(c.At(ic+di, jc, kc)+c.At(ic, jc+dj, kc)+c.At(ic, jc, kc+dk)) +
						w2*(c.At(ic+di, jc+dj, kc)+c.At(ic+di, jc, kc+dk)+c.At(ic, jc+dj, kc+dk)) +
						w3*c.At(ic+di, jc+dj, kc+dk)
					p++
				}
			}
		}
	})
	return
}

// delta returns the direction of the nearest coarse neighbour of fine index i
func delta(i int) int {
	if i&1 == 0 {
		return -1
	}
	return 1
}
