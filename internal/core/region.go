// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import "fmt"

// A Region is a contiguous arena of memory from which objects are bump
// allocated. It never shrinks and, once mapped, is never returned to the OS
// before process exit: heap regions are acquired lazily on first use and
// held for the lifetime of the process.
type Region struct {
	base Address // first byte of the arena
	size int64   // capacity in bytes
	next Address // bump cursor; base <= next <= base+size
	gen  int     // generation number this region belongs to

	mem []byte // backing storage, mapped by NewRegion
}

// NewRegion maps size bytes of zeroed, read-write memory and returns a
// Region with its bump cursor at the base. size must be a positive multiple
// of WordSize. Regions are created lazily by the collector on first use and
// held for the process's lifetime.
func NewRegion(size int64, gen int) (*Region, error) {
	if size <= 0 || size%WordSize != 0 {
		return nil, fmt.Errorf("core: region size %d is not a positive multiple of %d", size, WordSize)
	}
	mem, err := mmapRegion(size)
	if err != nil {
		return nil, fmt.Errorf("core: mapping %d-byte region: %w", size, err)
	}
	base := Address(uintptrOf(mem))
	return &Region{
		base: base,
		size: size,
		next: base,
		gen:  gen,
		mem:  mem,
	}, nil
}

// Base returns the first address of the region.
func (r *Region) Base() Address { return r.base }

// Size returns the region's capacity in bytes.
func (r *Region) Size() int64 { return r.size }

// Next returns the current bump cursor: the boundary between live bytes
// and unused capacity.
func (r *Region) Next() Address { return r.next }

// Limit returns the address one past the last usable byte.
func (r *Region) Limit() Address { return r.base.Add(r.size) }

// Gen returns the generation number this region is assigned to.
func (r *Region) Gen() int { return r.gen }

// SetGen reassigns the region's generation number. The collector does not
// call it: repointing the young generation's destination at the old space
// leaves that region's number unchanged.
func (r *Region) SetGen(gen int) { r.gen = gen }

// Contains reports whether a falls in [base, base+size).
func (r *Region) Contains(a Address) bool {
	return a >= r.base && a < r.base.Add(r.size)
}

// Bump reserves n bytes at the current cursor, returning the address of the
// reserved block and true, or false if the region doesn't have room.
func (r *Region) Bump(n int64) (Address, bool) {
	if r.next.Add(n) > r.Limit() {
		return 0, false
	}
	p := r.next
	r.next = r.next.Add(n)
	return p, true
}

// Reset rewinds the bump cursor to the base, discarding (logically freeing)
// everything the region held. Used when a young generation empties after
// promoting all its survivors.
func (r *Region) Reset() {
	r.next = r.base
}

// ReadWord reads the word-sized value stored at a.
func (r *Region) ReadWord(a Address) Address {
	off := a.Sub(r.base)
	return Address(byteOrder.Uint64(r.mem[off : off+WordSize]))
}

// WriteWord stores a word-sized value at a.
func (r *Region) WriteWord(a Address, v Address) {
	off := a.Sub(r.base)
	byteOrder.PutUint64(r.mem[off:off+WordSize], uint64(v))
}

// CopyWords copies n words starting at src to dst, both addresses within
// (possibly different) regions. Used to duplicate header+fields verbatim
// during chase.
func CopyWords(dst *Region, dstAddr Address, src *Region, srcAddr Address, n int64) {
	dOff := dstAddr.Sub(dst.base)
	sOff := srcAddr.Sub(src.base)
	copy(dst.mem[dOff:dOff+n*WordSize], src.mem[sOff:sOff+n*WordSize])
}
