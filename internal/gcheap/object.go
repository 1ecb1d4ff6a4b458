// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcheap

import "stella.dev/gc/internal/core"

// An Object is the address of a heap object's header word. The fields
// follow immediately after, one word each. This package uses the
// "moved_to header word" representation from the design notes: a single
// extra word, never exposed to the mutator, sits immediately before the
// header and holds the forwarding address once the object has been copied.
// That keeps field[0] untouched by collection, at the cost of one word of
// overhead per object — a trade the spec calls out as interchangeable with
// overloading field[0] directly.
type Object core.Address

// blockFootprint is the total bytes a live object occupies in its region,
// including the hidden moved_to word: moved_to + header + F fields.
func blockFootprint(fields int64) int64 {
	return core.WordSize + size(fields)
}

// allocBlock bump-allocates room for an object with the given field count
// in r and returns the address of its header word (the Object's address).
// Regions are mapped once and reused for the life of the process (Reset
// just rewinds the bump cursor; a major collection's flip just swaps which
// region is live), so the bytes a fresh block lands on may still hold an
// earlier epoch's moved_to value. That stale value would otherwise be
// indistinguishable from a real forwarding address into whatever region
// happens to be the destination this time around, so every fresh block's
// hidden word is explicitly invalidated here before the caller sees it.
func allocBlock(r *core.Region, fields int64) (Object, bool) {
	start, ok := r.Bump(blockFootprint(fields))
	if !ok {
		return 0, false
	}
	o := Object(start.Add(core.WordSize))
	setMovedTo(r, o, 0)
	return o, true
}

func movedTo(r *core.Region, o Object) core.Address {
	return r.ReadWord(core.Address(o).Add(-core.WordSize))
}

func setMovedTo(r *core.Region, o Object, v core.Address) {
	r.WriteWord(core.Address(o).Add(-core.WordSize), v)
}

func header(r *core.Region, o Object) core.Address {
	return r.ReadWord(core.Address(o))
}

func setHeader(r *core.Region, o Object, h core.Address) {
	r.WriteWord(core.Address(o), h)
}

func field(r *core.Region, o Object, i int64) core.Address {
	return r.ReadWord(core.Address(o).Add(core.WordSize * (1 + i)))
}

func setField(r *core.Region, o Object, i int64, v core.Address) {
	r.WriteWord(core.Address(o).Add(core.WordSize*(1+i)), v)
}

// fieldCount returns the number of pointer-sized fields in o, as recorded
// in its header.
func fieldCount(codec HeaderCodec, r *core.Region, o Object) int64 {
	_, fields := codec.Decode(header(r, o))
	return fields
}

// ObjectSize returns the mutator-visible size of o in bytes: (1+F)*WordSize.
// It does not include the hidden moved_to word.
func ObjectSize(codec HeaderCodec, r *core.Region, o Object) int64 {
	return size(fieldCount(codec, r, o))
}

// Tag returns the object's tag, as recorded in its header.
func Tag(codec HeaderCodec, r *core.Region, o Object) uint8 {
	tag, _ := codec.Decode(header(r, o))
	return tag
}

// Field returns the value of field i of o (0-indexed).
func Field(r *core.Region, o Object, i int64) core.Address {
	return field(r, o, i)
}
