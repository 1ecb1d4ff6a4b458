// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcheap

import (
	"testing"

	"stella.dev/gc/internal/core"
)

const (
	tagNil  uint8 = 0
	tagCons uint8 = 1
)

func newCons(t *testing.T, c *Collector, car, cdr core.Address) Object {
	t.Helper()
	o, err := c.Alloc(tagCons, 2)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if err := c.WriteBarrier(o, 0, car); err != nil {
		t.Fatalf("WriteBarrier(car): %v", err)
	}
	if err := c.WriteBarrier(o, 1, cdr); err != nil {
		t.Fatalf("WriteBarrier(cdr): %v", err)
	}
	return o
}

func newNil(t *testing.T, c *Collector) Object {
	t.Helper()
	o, err := c.Alloc(tagNil, 0)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	return o
}

// TestAllocReadWrite checks a single object's tag and field values round
// trip through Alloc/WriteBarrier/Field without any collection involved.
func TestAllocReadWrite(t *testing.T) {
	c := New(WithDebug(true))
	n := newNil(t, c)
	o := newCons(t, c, core.Address(n), core.Address(n))

	if got := c.Tag(o); got != tagCons {
		t.Fatalf("Tag = %d, want %d", got, tagCons)
	}
	if got := c.Field(o, 0); got != core.Address(n) {
		t.Fatalf("car = %v, want %v", got, core.Address(n))
	}
	if got := c.Field(o, 1); got != core.Address(n) {
		t.Fatalf("cdr = %v, want %v", got, core.Address(n))
	}
	if got := c.Size(o); got != 3*core.WordSize {
		t.Fatalf("Size = %d, want %d", got, 3*core.WordSize)
	}
}

// TestMinorCollectionReclaimsGarbage is scenario S1/S2: a small young
// generation, one rooted list, and a flood of unreachable cons cells. Every
// allocation must eventually succeed (garbage is reclaimed rather than
// accumulating), the root's reachable structure survives intact, and at
// least one minor collection is observed.
func TestMinorCollectionReclaimsGarbage(t *testing.T) {
	c := New(WithYoungSize(256), WithOldSize(1024), WithDebug(true))

	n := newNil(t, c)
	tail := newCons(t, c, core.Address(n), core.Address(n))
	head := newCons(t, c, core.Address(tail), core.Address(tail))

	var root core.Address = core.Address(head)
	if err := c.PushRoot(&root); err != nil {
		t.Fatalf("PushRoot: %v", err)
	}
	defer c.PopRoot(&root)

	for i := 0; i < 500; i++ {
		newCons(t, c, core.Address(n), core.Address(n))
	}

	if c.Stats().MinorCollections == 0 {
		t.Fatalf("expected at least one minor collection, got %d", c.Stats().MinorCollections)
	}

	// root has moved, but the list it roots must still be a 2-cell chain
	// ending in a nil-tagged cell.
	movedHead := Object(root)
	if got := c.Tag(movedHead); got != tagCons {
		t.Fatalf("head Tag = %d, want %d", got, tagCons)
	}
	movedTail := Object(c.Field(movedHead, 0))
	if got := c.Tag(movedTail); got != tagCons {
		t.Fatalf("tail Tag = %d, want %d", got, tagCons)
	}
	movedNil := Object(c.Field(movedTail, 0))
	if got := c.Tag(movedNil); got != tagNil {
		t.Fatalf("innermost Tag = %d, want %d", got, tagNil)
	}
}

// TestCycleSurvivesCollection is scenario S3: two cons cells pointing at
// each other survive a collection as a cycle, not an infinite copy.
func TestCycleSurvivesCollection(t *testing.T) {
	c := New(WithYoungSize(192), WithOldSize(1024), WithDebug(true))

	n := newNil(t, c)
	a := newCons(t, c, core.Address(n), core.Address(n))
	b := newCons(t, c, core.Address(a), core.Address(n))
	if err := c.WriteBarrier(a, 0, core.Address(b)); err != nil {
		t.Fatalf("WriteBarrier: %v", err)
	}

	var root core.Address = core.Address(a)
	if err := c.PushRoot(&root); err != nil {
		t.Fatalf("PushRoot: %v", err)
	}
	defer c.PopRoot(&root)

	for i := 0; i < 200; i++ {
		newCons(t, c, core.Address(n), core.Address(n))
	}

	movedA := Object(root)
	movedB := Object(c.Field(movedA, 0))
	if got := c.Tag(movedB); got != tagCons {
		t.Fatalf("b Tag = %d, want %d", got, tagCons)
	}
	if back := c.Field(movedB, 0); back != core.Address(movedA) {
		t.Fatalf("b.car = %v, want %v (the cycle must close)", back, core.Address(movedA))
	}
}

// TestSharedSubstructureStaysShared is scenario S4: one object reachable
// from two distinct roots is copied exactly once; both roots must agree on
// its new address after a collection.
func TestSharedSubstructureStaysShared(t *testing.T) {
	c := New(WithYoungSize(192), WithOldSize(1024), WithDebug(true))

	n := newNil(t, c)
	shared := newCons(t, c, core.Address(n), core.Address(n))
	left := newCons(t, c, core.Address(shared), core.Address(n))
	right := newCons(t, c, core.Address(shared), core.Address(n))

	var leftRoot core.Address = core.Address(left)
	var rightRoot core.Address = core.Address(right)
	if err := c.PushRoot(&leftRoot); err != nil {
		t.Fatalf("PushRoot(left): %v", err)
	}
	if err := c.PushRoot(&rightRoot); err != nil {
		t.Fatalf("PushRoot(right): %v", err)
	}
	defer c.PopRoot(&rightRoot)
	defer c.PopRoot(&leftRoot)

	for i := 0; i < 200; i++ {
		newCons(t, c, core.Address(n), core.Address(n))
	}

	leftShared := c.Field(Object(leftRoot), 0)
	rightShared := c.Field(Object(rightRoot), 0)
	if leftShared != rightShared {
		t.Fatalf("shared object diverged: left sees %v, right sees %v", leftShared, rightShared)
	}
}

// TestSurvivorContentPersistsAcrossManyMinorCollections is part of scenario
// S5: an object kept alive across many minor collections keeps its tag and
// fields intact, whether or not it has already been promoted into the old
// generation (the collector doesn't expose which generation currently
// holds an object, only that its value survives).
func TestSurvivorContentPersistsAcrossManyMinorCollections(t *testing.T) {
	c := New(WithYoungSize(128), WithOldSize(512), WithDebug(true))

	n := newNil(t, c)
	survivor := newCons(t, c, core.Address(n), core.Address(n))

	var root core.Address = core.Address(survivor)
	if err := c.PushRoot(&root); err != nil {
		t.Fatalf("PushRoot: %v", err)
	}
	defer c.PopRoot(&root)

	for i := 0; i < 2000; i++ {
		if _, err := c.Alloc(tagNil, 0); err != nil {
			t.Fatalf("alloc %d: %v", i, err)
		}
	}

	if c.Stats().MinorCollections == 0 {
		t.Fatalf("expected at least one minor collection over 2000 allocations")
	}
	if got := c.Tag(Object(root)); got != tagCons {
		t.Fatalf("survivor Tag = %d, want %d (contents must survive promotion)", got, tagCons)
	}
}

// TestMajorCollectionReclaimsPromotedGarbage is scenario S5's other half:
// once an object has been promoted and then dropped, a major collection of
// the old generation must reclaim the space it occupied. The old
// generation is sized to hold only a handful of promoted cons cells, so
// repeatedly promoting one cell and abandoning it forces the old
// generation to fill and flip.
func TestMajorCollectionReclaimsPromotedGarbage(t *testing.T) {
	c := New(WithYoungSize(64), WithOldSize(160), WithDebug(true))

	n := newNil(t, c)
	var root core.Address = core.Address(newCons(t, c, core.Address(n), core.Address(n)))
	if err := c.PushRoot(&root); err != nil {
		t.Fatalf("PushRoot: %v", err)
	}
	defer c.PopRoot(&root)

	for i := 0; i < 20; i++ {
		// Force a minor collection so the current root is promoted (every
		// minor collection promotes whatever is reachable).
		before := c.Stats().MinorCollections
		for c.Stats().MinorCollections == before {
			newCons(t, c, core.Address(n), core.Address(n))
		}
		// Replace the root with a fresh, unrelated cell. The cell the root
		// used to point at has no other referent now, so once it's been
		// promoted it becomes old-generation garbage.
		root = core.Address(newCons(t, c, core.Address(n), core.Address(n)))
	}

	if c.Stats().MajorCollections == 0 {
		t.Fatalf("expected the old generation to fill and trigger at least one major collection")
	}
	if got := c.Tag(Object(root)); got != tagCons {
		t.Fatalf("current root Tag = %d, want %d", got, tagCons)
	}
}

// TestWriteBarrierRemembersOldToYoung is scenario S6: an old-generation
// object's field is rewritten (via the write barrier) to point at a
// young-generation object that has no root of its own. The remembered set
// must keep that young object alive across minor collections until the
// referring old object is itself collected or the field changes again.
func TestWriteBarrierRemembersOldToYoung(t *testing.T) {
	c := New(WithYoungSize(96), WithOldSize(1024), WithDebug(true))

	n := newNil(t, c)
	old := newCons(t, c, core.Address(n), core.Address(n))

	var root core.Address = core.Address(old)
	if err := c.PushRoot(&root); err != nil {
		t.Fatalf("PushRoot: %v", err)
	}
	defer c.PopRoot(&root)

	// Force enough minor collections to promote `old` into the old
	// generation before the remembered-set relationship is established.
	for i := 0; i < 64; i++ {
		if _, err := c.Alloc(tagNil, 0); err != nil {
			t.Fatalf("warmup alloc %d: %v", i, err)
		}
	}

	young := newNil(t, c)
	if err := c.WriteBarrier(Object(root), 0, core.Address(young)); err != nil {
		t.Fatalf("WriteBarrier: %v", err)
	}

	for i := 0; i < 64; i++ {
		if _, err := c.Alloc(tagNil, 0); err != nil {
			t.Fatalf("post-write alloc %d: %v", i, err)
		}
	}

	survivor := c.Field(Object(root), 0)
	if got := c.Tag(Object(survivor)); got != tagNil {
		t.Fatalf("young referent lost across collections: Tag = %d, want %d", got, tagNil)
	}
}
