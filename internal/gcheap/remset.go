// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcheap

import "stella.dev/gc/internal/core"

// A RememberedSet is a bounded, set-with-duplicates buffer of object
// addresses whose fields have been written since the last minor collection.
// It is cleared on minor collection. Duplicates are tolerated: the
// collector deduplicates effort by forward's own idempotence, not by
// deduplicating entries here.
type RememberedSet struct {
	entries  []core.Address
	capacity int
}

// NewRememberedSet creates a set bounded to capacity entries.
func NewRememberedSet(capacity int) *RememberedSet {
	return &RememberedSet{capacity: capacity}
}

// Full reports whether the set has reached capacity. A barrier that finds
// the set full must force a collection to drain it (the collector's
// correctness doesn't depend on which kind, only that one runs before more
// entries are demanded).
func (s *RememberedSet) Full() bool {
	return len(s.entries) >= s.capacity
}

// Add unconditionally records obj. The write barrier calls this for every
// store, without filtering young targets, which keeps the barrier
// branch-free; young entries are harmless because young space is traced in
// full on every minor collection anyway.
func (s *RememberedSet) Add(obj core.Address) {
	s.entries = append(s.entries, obj)
}

func (s *RememberedSet) forEach(fn func(core.Address)) {
	for _, e := range s.entries {
		fn(e)
	}
}

func (s *RememberedSet) clear() {
	s.entries = s.entries[:0]
}

// Len returns the number of entries currently buffered (duplicates
// counted).
func (s *RememberedSet) Len() int { return len(s.entries) }
