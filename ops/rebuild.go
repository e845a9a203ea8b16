// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"math"
	"time"

	"github.com/cpmech/gomg/lvl"
)

// Rebuild computes Dinv, L1inv and the Gershgorin bound of D⁻¹A
//  Input:
//   g    -- grid to rebuild
//   from -- finer grid whose coefficients are restricted onto g; nil on the finest level
//   a, b -- operator coefficients
//  Note: the bound is stored in g.L.DominantEigenvalue
func (o *Operator) Rebuild(tm *lvl.Timers, g *Grid, from *Grid, a, b float64) (err error) {
	t0 := time.Now()
	defer lvl.Since(&tm.Rebuild, t0)

	// coefficients from finer level
	if from != nil {
		for _, r := range []struct {
			id   lvl.FieldId
			kind Kind
		}{
			{lvl.Alpha, Cell}, {lvl.BetaI, FaceI}, {lvl.BetaJ, FaceJ}, {lvl.BetaK, FaceK},
		} {
			err = Restriction(tm, g, r.id, from, r.id, r.kind)
			if err != nil {
				return
			}
		}
	}

	// neighbour coefficients
	for _, id := range []lvl.FieldId{lvl.Alpha, lvl.BetaI, lvl.BetaJ, lvl.BetaK} {
		err = g.X.Exchange(tm, id, lvl.ShapeBox)
		if err != nil {
			return
		}
	}

	// diagonal, L1 row sums and bound per block
	l := g.L
	bh2 := b / (l.H * l.H)
	bounds := make([]float64, len(l.MyBlocks))
	g.Dev.Launch("rebuild", len(l.MyBlocks), func(ib int) {
		blk := l.MyBlocks[ib]
		box := l.MyBoxes[blk.Write.Box]
		v := box.Vectors
		alpha, bi, bj, bk, valid := v[lvl.Alpha], v[lvl.BetaI], v[lvl.BetaJ], v[lvl.BetaK], v[lvl.Valid]
		dinv, l1inv := v[lvl.Dinv], v[lvl.L1inv]
		js, ks := box.JStride, box.KStride
		bound := 0.0
		each(box, blk, func(ijk int) {
			sum := bi[ijk]*(valid[ijk-1]-2) +
				bi[ijk+1]*(valid[ijk+1]-2) +
				bj[ijk]*(valid[ijk-js]-2) +
				bj[ijk+js]*(valid[ijk+js]-2) +
				bk[ijk]*(valid[ijk-ks]-2) +
				bk[ijk+ks]*(valid[ijk+ks]-2)
			aii := -bh2 * sum
			if o.Helmholtz {
				aii += a * alpha[ijk]
			}
			sumAbs := math.Abs(bh2) * (math.Abs(bi[ijk]*valid[ijk-1]) +
				math.Abs(bi[ijk+1]*valid[ijk+1]) +
				math.Abs(bj[ijk]*valid[ijk-js]) +
				math.Abs(bj[ijk+js]*valid[ijk+js]) +
				math.Abs(bk[ijk]*valid[ijk-ks]) +
				math.Abs(bk[ijk+ks]*valid[ijk+ks]))
			dinv[ijk] = 1.0 / aii
			if aii >= 1.5*sumAbs {
				l1inv[ijk] = 1.0 / aii
			} else {
				l1inv[ijk] = 1.0 / (aii + 0.5*sumAbs)
			}
			bound = math.Max(bound, (aii+sumAbs)/aii)
		})
		bounds[ib] = bound
	})
	err = g.Sync(tm)
	if err != nil {
		return
	}

	// global bound
	local := lvl.Reduce(len(bounds), func(ib int) float64 { return bounds[ib] }, math.Max, 0)
	t := time.Now()
	l.DominantEigenvalue = l.Comm.AllReduceMax(local)
	lvl.Since(&tm.Collectives, t)

	// preconditioners are read by neighbours in smoothers
	for _, id := range []lvl.FieldId{lvl.Dinv, lvl.L1inv} {
		err = g.X.Exchange(tm, id, lvl.ShapeBox)
		if err != nil {
			return
		}
	}
	return g.Sync(tm)
}
