// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dev

import (
	"sync"

	"github.com/cpmech/gosl/chk"
)

// launch holds one queued kernel
type launch struct {
	name    string
	nblocks int
	kernel  Kernel
}

// Stream runs kernels asynchronously, in launch order, on a worker goroutine
//  Note: after a failure, queued kernels are skipped until Synchronize reports it
type Stream struct {
	queue  chan launch
	wg     sync.WaitGroup
	mu     sync.Mutex // guards err
	err    error
	state  sync.Mutex // guards closed and the queue
	closed bool
}

// NewStream returns a new stream with a running worker
func NewStream() (o *Stream) {
	o = &Stream{queue: make(chan launch, 64)}
	go o.work()
	return
}

// Launch queues kernel
func (o *Stream) Launch(name string, nblocks int, kernel Kernel) {
	o.state.Lock()
	defer o.state.Unlock()
	if o.closed {
		chk.Panic("cannot launch kernel %q on a closed stream", name)
	}
	o.wg.Add(1)
	o.queue <- launch{name, nblocks, kernel}
}

// Synchronize waits for all queued kernels and returns the first failure
func (o *Stream) Synchronize() (err error) {
	o.wg.Wait()
	o.mu.Lock()
	err, o.err = o.err, nil
	o.mu.Unlock()
	return
}

// Close waits for queued kernels and stops the worker
func (o *Stream) Close() (err error) {
	o.state.Lock()
	if o.closed {
		o.state.Unlock()
		return
	}
	o.closed = true
	close(o.queue)
	o.state.Unlock()
	return o.Synchronize()
}

func (o *Stream) work() {
	for l := range o.queue {
		o.mu.Lock()
		failed := o.err != nil
		o.mu.Unlock()
		if !failed {
			if err := run(l.name, l.nblocks, l.kernel); err != nil {
				o.mu.Lock()
				o.err = err
				o.mu.Unlock()
			}
		}
		o.wg.Done()
	}
}
