// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"sort"

	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gosl/chk"
)

// Smoother defines the relaxation applied on each level
type Smoother interface {

	// Name returns the name of the smoother
	Name() string

	// Smooth relaxes A x = rhs in place
	Smooth(tm *lvl.Timers, op *Operator, g *Grid, x, rhs lvl.FieldId, a, b float64) error
}

// smoothers holds all available smoothers
var smoothers = map[string]func() Smoother{}

// SetSmoother sets a new allocator of smoothers
func SetSmoother(name string, allocator func() Smoother) {
	if _, ok := smoothers[name]; ok {
		chk.Panic("cannot set allocator of smoother named %q because it exists already", name)
	}
	smoothers[name] = allocator
}

// NewSmoother returns a new smoother
func NewSmoother(name string) (Smoother, error) {
	if allocator, ok := smoothers[name]; ok {
		return allocator(), nil
	}
	return nil, chk.Err("cannot find smoother named %q. available: %v", name, SmootherNames())
}

// SmootherNames returns the names of all available smoothers
func SmootherNames() (names []string) {
	for name := range smoothers {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
