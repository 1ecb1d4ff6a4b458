// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcheap

import (
	"testing"

	"stella.dev/gc/internal/core"
)

func TestRootRegistryPushPopOrder(t *testing.T) {
	r := NewRootRegistry(4)
	var a, b core.Address = 1, 2

	if err := r.Push(&a); err != nil {
		t.Fatalf("Push(a): %v", err)
	}
	if err := r.Push(&b); err != nil {
		t.Fatalf("Push(b): %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	if err := r.Pop(&b); err != nil {
		t.Fatalf("Pop(b): %v", err)
	}
	if err := r.Pop(&a); err != nil {
		t.Fatalf("Pop(a): %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d, want 0", r.Len())
	}
}

func TestRootRegistryOverflow(t *testing.T) {
	r := NewRootRegistry(1)
	var a, b core.Address
	if err := r.Push(&a); err != nil {
		t.Fatalf("Push(a): %v", err)
	}
	if err := r.Push(&b); err == nil {
		t.Fatalf("Push(b) should have failed: capacity is 1")
	}
}

func TestRootRegistryUnderflow(t *testing.T) {
	r := NewRootRegistry(4)
	var a core.Address
	if err := r.Pop(&a); err == nil {
		t.Fatalf("Pop on an empty registry should have failed")
	}
}

// TestRootRegistryDebugLIFOAssertion checks §4.5's debug/release split:
// popping out of order is silently tolerated unless debug mode is on, in
// which case it's reported (while still correctly removing the actual top
// entry either way).
func TestRootRegistryDebugLIFOAssertion(t *testing.T) {
	var a, b core.Address = 1, 2

	release := NewRootRegistry(4)
	release.Push(&a)
	release.Push(&b)
	if err := release.Pop(&a); err != nil {
		t.Fatalf("release-mode out-of-order pop should be tolerated, got %v", err)
	}
	if release.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (the actual top, b, must still be the one removed)", release.Len())
	}

	debug := NewRootRegistry(4)
	debug.SetDebug(true)
	debug.Push(&a)
	debug.Push(&b)
	if err := debug.Pop(&a); err == nil {
		t.Fatalf("debug-mode out-of-order pop should be reported")
	}
	if debug.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (the mismatch is reported, but the top is still popped)", debug.Len())
	}
}

func TestRootRegistryHighWater(t *testing.T) {
	r := NewRootRegistry(4)
	var a, b, c core.Address
	r.Push(&a)
	r.Push(&b)
	r.Pop(&b)
	r.Push(&c)
	if r.HighWater() != 2 {
		t.Fatalf("HighWater = %d, want 2", r.HighWater())
	}
}

func TestRememberedSetFullAndClear(t *testing.T) {
	s := NewRememberedSet(2)
	if s.Full() {
		t.Fatalf("a fresh set should not be full")
	}
	s.Add(core.Address(1))
	s.Add(core.Address(2))
	if !s.Full() {
		t.Fatalf("set should be full at capacity")
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	s.clear()
	if s.Len() != 0 || s.Full() {
		t.Fatalf("clear should empty the set")
	}
}
