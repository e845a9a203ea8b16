// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !mgdebug

package lvl

// Debug tells whether box views check their bounds
const Debug = false

func (o View) check(i, j, k int) {}
