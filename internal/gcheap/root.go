// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcheap

import (
	"fmt"

	"stella.dev/gc/internal/core"
)

// A RootRegistry is the bounded, strictly LIFO stack of precise roots the
// mutator maintains around live expressions. Each entry is a pointer to a
// core.Address living in the mutator's own frame; the collector rewrites
// the pointed-to value in place during collection.
type RootRegistry struct {
	slots     []*core.Address
	capacity  int
	highWater int
	debug     bool
}

// NewRootRegistry creates a registry bounded to capacity entries.
func NewRootRegistry(capacity int) *RootRegistry {
	return &RootRegistry{capacity: capacity}
}

// SetDebug toggles the debug-build LIFO assertion in Pop.
func (r *RootRegistry) SetDebug(on bool) { r.debug = on }

// Push registers slot as a new root. It is a programmer error (detected and
// reported, per §7 Misuse/RootStackOverflow) to push past capacity.
func (r *RootRegistry) Push(slot *core.Address) error {
	if len(r.slots) >= r.capacity {
		return fmt.Errorf("gcheap: root stack overflow: capacity %d exceeded", r.capacity)
	}
	r.slots = append(r.slots, slot)
	if len(r.slots) > r.highWater {
		r.highWater = len(r.slots)
	}
	return nil
}

// Pop removes the top root. slot is ignored for correctness — it always
// removes whatever was pushed last, per §4.5 — but in debug mode a
// mismatch between slot and the actual top is reported, since it indicates
// the mutator popped out of LIFO order.
func (r *RootRegistry) Pop(slot *core.Address) error {
	if len(r.slots) == 0 {
		return fmt.Errorf("gcheap: root stack underflow: pop with empty stack")
	}
	top := r.slots[len(r.slots)-1]
	r.slots = r.slots[:len(r.slots)-1]
	if r.debug && slot != nil && top != slot {
		return fmt.Errorf("gcheap: root pop %p does not match top-of-stack root %p (LIFO violation)", slot, top)
	}
	return nil
}

// Len returns the number of roots currently registered.
func (r *RootRegistry) Len() int { return len(r.slots) }

// HighWater returns the largest number of roots ever registered at once.
func (r *RootRegistry) HighWater() int { return r.highWater }

// forwardAll rewrites every registered root's pointed-to value through
// forward, in place.
func (r *RootRegistry) forwardAll(codec HeaderCodec, from, to *core.Region) error {
	for _, slot := range r.slots {
		nv, err := forward(codec, from, to, *slot)
		if err != nil {
			return err
		}
		*slot = nv
	}
	return nil
}
