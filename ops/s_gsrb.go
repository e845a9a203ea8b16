// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import "github.com/cpmech/gomg/lvl"

// GSRB implements the red-black Gauss-Seidel smoother
//  Note: the colour of a cell is the parity of the sum of its global coordinates
type GSRB struct {
	NumSmooths int // number of red+black pairs
}

// add smoother to database
func init() {
	SetSmoother("gsrb", func() Smoother { return &GSRB{NumSmooths: 2} })
}

// Name returns the name of the smoother
func (o *GSRB) Name() string { return "gsrb" }

// Smooth relaxes A x = rhs in place
func (o *GSRB) Smooth(tm *lvl.Timers, op *Operator, g *Grid, x, rhs lvl.FieldId, a, b float64) (err error) {
	l := g.L
	for s := 0; s < 2*o.NumSmooths; s++ {
		err = op.refresh(tm, g, x)
		if err != nil {
			return
		}
		color := s % 2
		g.Dev.Launch("gsrb", len(l.MyBlocks), func(ib int) {
			blk := l.MyBlocks[ib]
			box := l.MyBoxes[blk.Write.Box]
			st := op.newStencil(box, x, a, b, l.H)
			xx, f, dinv := box.Vectors[x], box.Vectors[rhs], box.Vectors[lvl.Dinv]
			w := blk.Write
			gi := box.Low.I + w.I
			for k := 0; k < blk.Dim.K; k++ {
				gk := box.Low.K + w.K + k
				for j := 0; j < blk.Dim.J; j++ {
					gj := box.Low.J + w.J + j
					ijk := box.Index(w.I, w.J+j, w.K+k)
					for i := (gi + gj + gk + color) & 1; i < blk.Dim.I; i += 2 {
						p := ijk + i
						xx[p] += dinv[p] * (f[p] - st.ax(p))
					}
				}
			}
		})
		tm.Smooths++
	}
	return g.Sync(tm)
}
