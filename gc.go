// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gc is a precise, moving, generational garbage collector for a
// small functional language runtime. It implements the allocator, the
// Cheney-style copying collector with its iterative forwarding ("chase")
// engine, a young/old generational split with an inter-generational
// remembered set, and a precise root registry.
//
// The collector is deliberately narrow: it consumes an object header
// decoder (tag + field count) and a mutator-maintained stack of precise
// roots, and exposes only the allocator, the read/write barriers, root
// registration, and statistics readouts. Everything else — the compiled
// mutator, the object tag scheme beyond a field count, printing/start-up —
// is the host runtime's concern.
//
// This package is a thin public face over internal/gcheap, the way the
// teacher this is built from keeps its engine under internal/gocore and
// exposes a short wrapper package.
package gc

import (
	"stella.dev/gc/internal/core"
	"stella.dev/gc/internal/gcheap"
)

// Address is a location in a heap region, or an opaque bit pattern the
// collector leaves untouched.
type Address = core.Address

// Object is the address of a heap object's header word.
type Object = gcheap.Object

// Config holds the collector's tunables: region sizes, root and
// remembered-set capacities, the debug-log toggle, and the header codec.
type Config = gcheap.Config

// Option configures a Collector at construction time.
type Option = gcheap.Option

// Stats is a snapshot of the collector's running counters.
type Stats = gcheap.Stats

// HeaderCodec decodes and encodes an object's header word.
type HeaderCodec = gcheap.HeaderCodec

// DefaultCodec packs a one-byte tag and a field count into a single word.
var DefaultCodec = gcheap.DefaultCodec

// Collector is a complete, self-contained garbage collector instance. It
// holds no package-level state, so a process may run more than one.
type Collector = gcheap.Collector

// New creates a Collector with the given options applied over sensible
// defaults (8 KiB young generation, 32 KiB old generation, 1024 roots, 256
// remembered-set entries).
func New(opts ...Option) *Collector {
	return gcheap.New(opts...)
}

// WithYoungSize sets the young generation's region size, in bytes.
func WithYoungSize(n int64) Option { return gcheap.WithYoungSize(n) }

// WithOldSize sets the old generation's region size, in bytes. Each of the
// old generation's two regions (from and to) is this size.
func WithOldSize(n int64) Option { return gcheap.WithOldSize(n) }

// WithRootCapacity sets the root registry's maximum depth.
func WithRootCapacity(n int) Option { return gcheap.WithRootCapacity(n) }

// WithRemSetCapacity sets the remembered set's maximum entry count.
func WithRemSetCapacity(n int) Option { return gcheap.WithRemSetCapacity(n) }

// WithDebug toggles extra runtime assertions (e.g. LIFO root-pop checks).
func WithDebug(on bool) Option { return gcheap.WithDebug(on) }

// WithHeaderCodec overrides the object header layout.
func WithHeaderCodec(h HeaderCodec) Option { return gcheap.WithHeaderCodec(h) }
