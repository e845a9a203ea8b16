// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build mgdebug

package lvl

import "github.com/cpmech/gosl/chk"

// Debug tells whether box views check their bounds
const Debug = true

func (o View) check(i, j, k int) {
	if i < o.Lo || i >= o.Hi || j < o.Lo || j >= o.Hi || k < o.Lo || k >= o.Hi {
		chk.Panic("cell (%d,%d,%d) is outside view bounds [%d,%d)", i, j, k, o.Lo, o.Hi)
	}
}
