// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package halo

import (
	"github.com/cpmech/gomg/comm"
	"github.com/cpmech/gomg/lvl"
)

// message holds one ghost region sent to or received from another rank
type message struct {
	peer int       // remote rank
	tag  comm.Tag  // receiving box, direction and shape
	blk  lvl.Block // sends use blk.Read; receives use blk.Write
	buf  []float64 // packed values
}

// bcPoint holds one ghost cell filled by reflection
type bcPoint struct {
	dst  int     // position of the ghost cell
	src  int     // position of the mirror cell
	sign float64 // (-1)^n; n = number of axes outside the domain
}

// plan holds everything needed to refresh the ghosts of one footprint
type plan struct {
	local []lvl.Block // same-rank copies
	sends []message   // messages to other ranks
	recvs []message   // messages from other ranks
	bcs   [][]bcPoint // [nmyboxes][npoints] reflections
}

// DirIndex returns the index of direction (di,dj,dk) with components in {-1,0,1}
func DirIndex(di, dj, dk int) int { return (di + 1) + 3*(dj+1) + 9*(dk+1) }

// directions returns the directions reached by a footprint
func directions(shape lvl.Shape) (dirs []lvl.Int3) {
	for dk := -1; dk <= 1; dk++ {
		for dj := -1; dj <= 1; dj++ {
			for di := -1; di <= 1; di++ {
				n := abs(di) + abs(dj) + abs(dk)
				if n == 0 || (shape == lvl.ShapeStar && n > 1) {
					continue
				}
				dirs = append(dirs, lvl.Int3{I: di, J: dj, K: dk})
			}
		}
	}
	return
}

// ghostRange returns the ghost range [start, start+n) written along one axis
func ghostRange(d, dim, g int) (start, n int) {
	switch d {
	case -1:
		return -g, g
	case 1:
		return dim, g
	}
	return 0, dim
}

// sourceRange returns the interior range [start, start+n) read from the neighbour along one axis
func sourceRange(d, dim, g int) (start, n int) {
	switch d {
	case -1:
		return dim - g, g
	case 1:
		return 0, g
	}
	return 0, dim
}

// clip returns the number of cells of a ghost range along one axis that both boxes hold inside the domain
//  Note: padding cells hold boundary reflections and are never exchanged
func clip(d, n, extRecv, extSend int) int {
	switch d {
	case 0:
		return min(n, extRecv, extSend)
	case 1:
		return min(n, extSend)
	}
	return n
}

// newPlan computes the plan of one footprint
//  Note: all boxes of the level are visited in id order on every rank, so that both sides
//        of a message agree on its position in the sequence
func newPlan(l *lvl.Level, shape lvl.Shape) (o plan) {
	dirs := directions(shape)
	g := l.Ghosts
	for _, recv := range l.Boxes {
		bi, bj, bk := l.BoxCoords(recv)
		for _, d := range dirs {
			send := l.BoxAt(bi+d.I, bj+d.J, bk+d.K)
			if send == nil {
				continue
			}
			mineR, mineS := recv.Owner == l.Rank, send.Owner == l.Rank
			if !mineR && !mineS {
				continue
			}
			var blk lvl.Block
			var n lvl.Int3
			blk.Write.I, n.I = ghostRange(d.I, recv.Dim, g)
			blk.Write.J, n.J = ghostRange(d.J, recv.Dim, g)
			blk.Write.K, n.K = ghostRange(d.K, recv.Dim, g)
			blk.Read.I, _ = sourceRange(d.I, send.Dim, g)
			blk.Read.J, _ = sourceRange(d.J, send.Dim, g)
			blk.Read.K, _ = sourceRange(d.K, send.Dim, g)
			n.I = clip(d.I, n.I, recv.Ext.I, send.Ext.I)
			n.J = clip(d.J, n.J, recv.Ext.J, send.Ext.J)
			n.K = clip(d.K, n.K, recv.Ext.K, send.Ext.K)
			if n.I < 1 || n.J < 1 || n.K < 1 {
				continue
			}
			blk.Dim = n
			blk.Write.Box = l.LocalIndex(recv.Id)
			blk.Read.Box = l.LocalIndex(send.Id)
			tag := comm.Tag{Box: recv.Id, Dir: DirIndex(d.I, d.J, d.K), Shape: int(shape)}
			switch {
			case mineR && mineS:
				o.local = append(o.local, blk)
			case mineR:
				o.recvs = append(o.recvs, message{send.Owner, tag, blk, make([]float64, n.Prod())})
			default:
				o.sends = append(o.sends, message{recv.Owner, tag, blk, make([]float64, n.Prod())})
			}
		}
	}
	if l.BC != lvl.Periodic {
		o.bcs = make([][]bcPoint, len(l.MyBoxes))
		for ib, box := range l.MyBoxes {
			o.bcs[ib] = reflections(l, box, shape)
		}
	}
	return
}

// reflections returns the ghost cells beyond the domain boundary reached by a footprint
//  Note: a cell at distance δ <= Ghosts from the boundary mirrors the interior cell at
//        distance δ-1 on every axis that is outside the domain
func reflections(l *lvl.Level, box *lvl.Box, shape lvl.Shape) (pts []bcPoint) {
	g := box.Ghosts
	for k := -g; k < box.Dim+g; k++ {
		for j := -g; j < box.Dim+g; j++ {
			for i := -g; i < box.Dim+g; i++ {
				loc := lvl.Int3{I: i, J: j, K: k}
				mir := loc
				nout, ok := 0, true
				for axis := 0; axis < 3; axis++ {
					G := box.Low.At(axis) + loc.At(axis)
					dim := l.Dim.At(axis)
					var M int
					switch {
					case G < 0:
						ok = ok && -G <= g
						M = -G - 1
					case G >= dim:
						ok = ok && G-dim+1 <= g
						M = 2*dim - 1 - G
					default:
						continue
					}
					nout++
					mir = mir.With(axis, loc.At(axis)+M-G)
				}
				if nout == 0 || !ok {
					continue
				}
				if shape == lvl.ShapeStar {
					if nout > 1 || !starFace(loc, mir, box.Dim) {
						continue
					}
				}
				sign := 1.0
				if nout%2 == 1 {
					sign = -1.0
				}
				pts = append(pts, bcPoint{box.Index(i, j, k), box.Index(mir.I, mir.J, mir.K), sign})
			}
		}
	}
	return
}

// starFace tells whether the axes that were not reflected lie in the box interior
func starFace(loc, mir lvl.Int3, dim int) bool {
	for axis := 0; axis < 3; axis++ {
		if loc.At(axis) != mir.At(axis) {
			continue
		}
		if v := loc.At(axis); v < 0 || v >= dim {
			return false
		}
	}
	return true
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
