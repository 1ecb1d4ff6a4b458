// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcheap

import "stella.dev/gc/internal/core"

// forward returns the address p should now denote, copying its reachable
// subgraph into to (via chase) the first time p is seen.
//
//  1. If p doesn't lie in from, it's a pointer into an older generation, a
//     tagged primitive, or some other opaque bit pattern: return it as-is.
//  2. If p is already forwarded — its moved_to word holds an address inside
//     to — return that address.
//  3. Otherwise chase(p): copy it (and eagerly one unforwarded descendant
//     chain) into to, install the forwarding address, and return it.
//
// forward is idempotent: forward(forward(p)) == forward(p) within a single
// collection, since a p already in to is simply not in from and is
// returned unchanged by rule 1.
func forward(codec HeaderCodec, from, to *core.Region, p core.Address) (core.Address, error) {
	if !from.Contains(p) {
		return p, nil
	}
	o := Object(p)
	if fwd := movedTo(from, o); to.Contains(fwd) {
		return fwd, nil
	}
	return chase(codec, from, to, o)
}

// chase iteratively copies o, and eagerly one unforwarded descendant at a
// time, into to, installing forwarding addresses as it goes. It never
// recurses, so its stack usage doesn't grow with the depth of the object
// graph. Cycles terminate because the forwarding address for an object is
// installed before chase moves on to any of that object's descendants.
//
// On return, o (the argument) is forwarded; objects discovered along the
// eager chain are forwarded too, but the rest of o's reachable graph is
// left for the generation's Cheney scan to discover once it reaches the
// freshly copied objects in to.
func chase(codec HeaderCodec, from, to *core.Region, o Object) (core.Address, error) {
	first := core.Address(o)
	for {
		fields := fieldCount(codec, from, o)
		q, ok := allocBlock(to, fields)
		if !ok {
			return 0, ErrOldGenFull
		}

		setHeader(to, q, header(from, o))
		var next Object
		var haveNext bool
		for i := int64(0); i < fields; i++ {
			v := field(from, o, i)
			setField(to, q, i, v)

			if !from.Contains(v) {
				continue
			}
			r := Object(v)
			if fwd := movedTo(from, r); to.Contains(fwd) {
				continue
			}
			// Remember the last unforwarded child; it's fine that earlier
			// candidates are dropped, they'll be found again once the
			// Cheney scan reaches q.
			next, haveNext = r, true
		}

		setMovedTo(from, o, core.Address(q))
		if !haveNext {
			break
		}
		o = next
	}
	return movedTo(from, Object(first)), nil
}
