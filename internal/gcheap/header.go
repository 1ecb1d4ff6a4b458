// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcheap

import "stella.dev/gc/internal/core"

// A HeaderCodec decodes and encodes the single header word that precedes
// every heap object's fields. The collector never interprets tag bits
// itself (precise type maps beyond the field-count header are out of
// scope); it only needs the field count to know how many word-sized slots
// to copy and scan.
type HeaderCodec interface {
	// Decode splits a raw header word into a tag and a field count.
	Decode(header core.Address) (tag uint8, fields int64)
	// Encode packs a tag and field count back into a header word.
	Encode(tag uint8, fields int64) core.Address
}

// defaultCodec packs the tag into the low byte and the field count into the
// remaining bits, which is enough for Stella's small object tags and keeps
// the encoding trivial to reason about in tests.
type defaultCodec struct{}

// DefaultCodec is the header layout used when a mutator doesn't supply its
// own. It is good enough for every scenario in this package's tests and for
// the demo mutator in cmd/stellagc.
var DefaultCodec HeaderCodec = defaultCodec{}

func (defaultCodec) Decode(header core.Address) (tag uint8, fields int64) {
	v := uint64(header)
	return uint8(v & 0xff), int64(v >> 8)
}

func (defaultCodec) Encode(tag uint8, fields int64) core.Address {
	return core.Address(uint64(tag) | uint64(fields)<<8)
}

// size returns the total byte size of an object's header+fields given its
// field count: (1+F)*WordSize, per the data model's object size rule.
func size(fields int64) int64 {
	return (1 + fields) * core.WordSize
}
