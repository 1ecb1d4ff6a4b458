// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package core provides the address arithmetic and memory regions that the
// collector builds on. There's nothing GC-specific about this package; it
// could back any manual memory manager. See ../gcheap for the collector
// itself.
package core

import "fmt"

// An Address is a location in one of the collector's heap regions, or a
// pointer value that lies outside all of them (the collector treats those
// opaquely).
type Address uintptr

// Add returns the address n bytes past a.
func (a Address) Add(n int64) Address {
	return a + Address(n)
}

// Sub returns the number of bytes between a and b (a-b).
func (a Address) Sub(b Address) int64 {
	return int64(a) - int64(b)
}

func (a Address) String() string {
	return fmt.Sprintf("0x%x", uintptr(a))
}

// WordSize is the size in bytes of a header word or a field slot.
// The collector is built for a 64-bit mutator; object headers and fields
// are always one word wide.
const WordSize = 8
