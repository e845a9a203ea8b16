// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package dev implements the dispatch of stencil kernels over blocks
package dev

import (
	"sync"

	"github.com/cpmech/gomg/lvl"
	"github.com/cpmech/gosl/chk"
)

// Kernel computes one block
type Kernel func(block int)

// Device launches kernels over blocks and waits for them
//  Note: results of a launched kernel may only be read after Synchronize returns
type Device interface {
	Launch(name string, nblocks int, kernel Kernel) // launches kernel over blocks [0,nblocks)
	Synchronize() error                             // waits for all launched kernels
}

// allocators holds all available devices
var allocators = map[string]func() Device{}

// SetAllocator sets a new allocator of devices
func SetAllocator(name string, allocator func() Device) {
	if _, ok := allocators[name]; ok {
		chk.Panic("cannot set allocator of device named %q because it exists already", name)
	}
	allocators[name] = allocator
}

// New returns a new device
func New(name string) (Device, error) {
	if allocator, ok := allocators[name]; ok {
		return allocator(), nil
	}
	return nil, chk.Err("cannot find device named %q", name)
}

func init() {
	SetAllocator("host", func() Device { return new(Host) })
	SetAllocator("stream", func() Device { return NewStream() })
}

// Host runs kernels immediately on the calling goroutine, blocks in parallel
type Host struct {
	mu  sync.Mutex
	err error
}

// Launch runs kernel over all blocks
func (o *Host) Launch(name string, nblocks int, kernel Kernel) {
	o.setErr(run(name, nblocks, kernel))
}

// Synchronize returns the first kernel failure since the last call
func (o *Host) Synchronize() (err error) {
	o.mu.Lock()
	err, o.err = o.err, nil
	o.mu.Unlock()
	return
}

func (o *Host) setErr(err error) {
	if err == nil {
		return
	}
	o.mu.Lock()
	if o.err == nil {
		o.err = err
	}
	o.mu.Unlock()
}

// run runs a kernel over blocks, turning panics into errors
func run(name string, nblocks int, kernel Kernel) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("kernel %q failed: %v", name, r)
		}
	}()
	lvl.Parallel(nblocks, func(b int) { kernel(b) })
	return
}
