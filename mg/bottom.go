// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mg

import (
	"sort"

	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gosl/chk"
)

// Bottom solves A e = R on the coarsest level
type Bottom interface {

	// Name returns the name of the bottom solver
	Name() string

	// NumScratch returns the number of scratch fields needed on the coarsest level
	NumScratch() int

	// Setup prepares the solver after the operator of the coarsest level is rebuilt
	Setup(tm *lvl.Timers, h *Hierarchy) error

	// Solve improves e in place; e holds the initial guess
	Solve(tm *lvl.Timers, h *Hierarchy, e, R lvl.FieldId) error
}

// bottoms holds all available bottom solvers
var bottoms = make(map[string]func() Bottom)

// SetBottom sets a new allocator of bottom solvers
func SetBottom(name string, allocator func() Bottom) {
	if _, ok := bottoms[name]; ok {
		chk.Panic("cannot set allocator of bottom solver named %q because it exists already", name)
	}
	bottoms[name] = allocator
}

// NewBottom returns a new bottom solver
func NewBottom(name string) (Bottom, error) {
	if allocator, ok := bottoms[name]; ok {
		return allocator(), nil
	}
	return nil, chk.Err("cannot find bottom solver named %q. available: %v", name, BottomNames())
}

// BottomNames returns the names of all available bottom solvers
func BottomNames() (names []string) {
	for name := range bottoms {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// coarsest returns the index of the coarsest level
func (o *Hierarchy) coarsest() int { return o.NumLevels() - 1 }
