// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcheap

import "stella.dev/gc/internal/core"

// A Generation ties a source ("from") region, currently in use by the
// mutator, to a destination ("to") region that the next collection of this
// generation copies survivors into.
//
// The young generation's to region is the old generation's from region: a
// minor collection promotes everything it finds live. The old generation's
// from and to are two distinct, same-sized regions belonging to it alone;
// a major collection flips them.
type Generation struct {
	Number int
	From   *core.Region
	To     *core.Region
}

// walkObjects calls fn with the address of every densely packed object in
// [base, limit) of r, in order. fn must not itself allocate into r.
func walkObjects(codec HeaderCodec, r *core.Region, base, limit core.Address, fn func(Object)) {
	for a := base; a < limit; {
		o := Object(a.Add(core.WordSize))
		fn(o)
		a = a.Add(blockFootprint(fieldCount(codec, r, o)))
	}
}

// forwardFields rewrites every field of o in region r through forward,
// moving referents from "from" into "to".
func forwardFields(codec HeaderCodec, from, to *core.Region, r *core.Region, o Object) error {
	n := fieldCount(codec, r, o)
	for i := int64(0); i < n; i++ {
		v := field(r, o, i)
		nv, err := forward(codec, from, to, v)
		if err != nil {
			return err
		}
		if nv != v {
			setField(r, o, i, nv)
		}
	}
	return nil
}

// collect runs a single collection of g, per the ordering in the
// generation pass:
//
//  1. scan starts at g.To's current boundary.
//  2. every registered root is forwarded in place.
//  3. every generation younger than g (smaller Number) is scanned in full,
//     so cross-generation references the remembered set missed (or that
//     existed since an object's birth, before any write barrier fired) are
//     still honored.
//  4. every remembered-set entry has its fields forwarded, then the set is
//     cleared.
//  5. a Cheney scan walks newly copied survivors in g.To until it catches
//     up with the bump cursor, discovering the rest of the reachable graph.
//  6. the regions are closed out: flipped (major) or the young region is
//     emptied (minor, promoting into the generation g.To belongs to).
//
// On ErrOldGenFull, collect returns immediately; the caller is expected to
// collect the generation g promotes into and retry the entire pass, which
// is safe because forward is idempotent.
func collect(codec HeaderCodec, g *Generation, younger []*Generation, roots *RootRegistry, remset *RememberedSet) error {
	scan := g.To.Next()

	if err := roots.forwardAll(codec, g.From, g.To); err != nil {
		return err
	}

	for _, h := range younger {
		if h.Number >= g.Number {
			continue
		}
		var walkErr error
		walkObjects(codec, h.From, h.From.Base(), h.From.Next(), func(o Object) {
			if walkErr != nil {
				return
			}
			walkErr = forwardFields(codec, g.From, g.To, h.From, o)
		})
		if walkErr != nil {
			return walkErr
		}
	}

	var remErr error
	remset.forEach(func(obj core.Address) {
		if remErr != nil {
			return
		}
		o := Object(obj)
		// An entry may itself live in the generation being collected; it
		// will be (or already was) visited by normal scanning, so there's
		// nothing extra to do — forwardFields on it is still correct and
		// idempotent, just redundant.
		home := regionOf(g, obj)
		if home == nil {
			return
		}
		remErr = forwardFields(codec, g.From, g.To, home, o)
	})
	if remErr != nil {
		return remErr
	}
	remset.clear()

	for scan < g.To.Next() {
		o := Object(scan.Add(core.WordSize))
		if err := forwardFields(codec, g.From, g.To, g.To, o); err != nil {
			return err
		}
		scan = scan.Add(blockFootprint(fieldCount(codec, g.To, o)))
	}

	if g.From.Gen() == g.To.Gen() {
		// Major collection: from and to belong to the same generation.
		g.From, g.To = g.To, g.From
		g.To.Reset()
	} else {
		// Minor collection: survivors were promoted into g.To's
		// generation. The young region is now empty.
		g.From.Reset()
	}
	return nil
}

// regionOf finds which region a remembered-set address actually lives in:
// either g's own from/to, or (most commonly for a minor collection) the
// older generation that g.To belongs to.
func regionOf(g *Generation, a core.Address) *core.Region {
	switch {
	case g.From.Contains(a):
		return g.From
	case g.To.Contains(a):
		return g.To
	default:
		return nil
	}
}
