// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lvl

import "github.com/cpmech/gosl/io"

// FieldId selects one vector of a box
type FieldId int

// reserved fields
const (
	Temp        FieldId = iota // scratch used by residual, ping-pong smoothers and interpolation
	Utrue                      // exact solution
	Res                        // residual f - Au; right-hand side of the correction equation
	F                          // right-hand side
	U                          // solution or correction
	Alpha                      // cell-centred coefficient
	BetaI                      // face coefficient on low-i faces
	BetaJ                      // face coefficient on low-j faces
	BetaK                      // face coefficient on low-k faces
	Dinv                       // inverse of the diagonal
	L1inv                      // inverse of the L1 row sum
	Valid                      // 1 inside the domain, 0 outside
	NumReserved                // first scratch field
)

var fieldNames = []string{"Temp", "Utrue", "Res", "F", "U", "Alpha", "BetaI", "BetaJ", "BetaK", "Dinv", "L1inv", "Valid"}

// String returns the name of the field
func (o FieldId) String() string {
	if o >= 0 && int(o) < len(fieldNames) {
		return fieldNames[o]
	}
	return io.Sf("Scratch%d", int(o-NumReserved))
}

// Scratch returns the id of the n-th scratch field
func Scratch(n int) FieldId { return NumReserved + FieldId(n) }

// Box holds a cubic sub-array of the domain with ghost cells
type Box struct {
	Id      int         // global id (lexicographic, i fastest)
	Owner   int         // rank owning this box
	Low     Int3        // global coordinates of the first interior cell
	Dim     int         // number of interior cells per axis
	Ext     Int3        // number of interior cells inside the domain; Dim unless padded
	Ghosts  int         // number of ghost cells on each side
	JStride int         // Dim+2*Ghosts
	KStride int         // JStride*(Dim+2*Ghosts)
	Volume  int         // KStride*(Dim+2*Ghosts)
	Vectors [][]float64 // [nvectors][Volume] field buffers; nil if not owned
}

// newBox allocates the geometry of a box; buffers are allocated by alloc
func newBox(id, owner int, low Int3, dim, ghosts int, domain Int3) (o *Box) {
	o = &Box{Id: id, Owner: owner, Low: low, Dim: dim, Ghosts: ghosts}
	o.JStride = dim + 2*ghosts
	o.KStride = o.JStride * (dim + 2*ghosts)
	o.Volume = o.KStride * (dim + 2*ghosts)
	o.Ext = Int3{
		min(dim, domain.I-low.I),
		min(dim, domain.J-low.J),
		min(dim, domain.K-low.K),
	}
	return
}

// alloc allocates nvectors zeroed fields
func (o *Box) alloc(nvectors int) {
	o.Vectors = make([][]float64, nvectors)
	for i := range o.Vectors {
		o.Vectors[i] = make([]float64, o.Volume)
	}
}

// Index returns the position of cell (i,j,k) in a field buffer
//  Note: (0,0,0) is the first interior cell; -Ghosts <= i,j,k < Dim+Ghosts
func (o *Box) Index(i, j, k int) int {
	return o.Ghosts*(1+o.JStride+o.KStride) + i + j*o.JStride + k*o.KStride
}

// Coords returns the local coordinates of a buffer position
func (o *Box) Coords(idx int) (i, j, k int) {
	k = idx/o.KStride - o.Ghosts
	idx %= o.KStride
	j = idx/o.JStride - o.Ghosts
	i = idx%o.JStride - o.Ghosts
	return
}

// View returns the view of one field
func (o *Box) View(id FieldId) View {
	return View{
		Data:    o.Vectors[id],
		Origin:  o.Ghosts * (1 + o.JStride + o.KStride),
		JStride: o.JStride,
		KStride: o.KStride,
		Lo:      -o.Ghosts,
		Hi:      o.Dim + o.Ghosts,
	}
}
