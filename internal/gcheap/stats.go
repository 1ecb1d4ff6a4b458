// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcheap

// A Statistic is a node in a tree representing a breakdown of some
// quantity (here, heap residency) by category. We maintain the invariant
// that, if a node has children, its Value equals the sum of its children's
// Values.
type Statistic struct {
	Name  string
	Value int64

	children map[string]*Statistic
}

func leafStat(name string, value int64) *Statistic {
	return &Statistic{Name: name, Value: value}
}

func groupStat(name string, children ...*Statistic) *Statistic {
	var cmap map[string]*Statistic
	var value int64
	if len(children) != 0 {
		cmap = make(map[string]*Statistic, len(children))
		for _, c := range children {
			cmap[c.Name] = c
			value += c.Value
		}
	}
	return &Statistic{Name: name, Value: value, children: cmap}
}

// Sub walks a chain of child names and returns the statistic found, or nil.
func (s *Statistic) Sub(chain ...string) *Statistic {
	for _, name := range chain {
		if s == nil {
			return nil
		}
		s = s.children[name]
	}
	return s
}

// Children returns this node's children, in no particular order.
func (s *Statistic) Children() []*Statistic {
	out := make([]*Statistic, 0, len(s.children))
	for _, c := range s.children {
		out = append(out, c)
	}
	return out
}

// Stats tracks the allocation and collection counters named in §6's
// print_gc_alloc_stats row, plus the high-water marks the original source
// tracks separately from the running totals.
type Stats struct {
	AllocatedBytes   int64
	AllocatedObjects int64
	MaxBytes         int64
	MaxObjects       int64

	Reads  int64
	Writes int64

	MinorCollections int64
	MajorCollections int64

	residentBytes   int64
	residentObjects int64
}

// recordAlloc updates the running totals and high-water marks after a
// successful allocation of n bytes. total_allocated_bytes and
// total_allocated_objects are monotonically non-decreasing, per §8
// property 5.
func (s *Stats) recordAlloc(n int64) {
	s.AllocatedBytes += n
	s.AllocatedObjects++
	s.residentBytes += n
	s.residentObjects++
	if s.residentBytes > s.MaxBytes {
		s.MaxBytes = s.residentBytes
	}
	if s.residentObjects > s.MaxObjects {
		s.MaxObjects = s.residentObjects
	}
}

func (s *Stats) recordRead()  { s.Reads++ }
func (s *Stats) recordWrite() { s.Writes++ }

func (s *Stats) recordMinorCollection() { s.MinorCollections++ }
func (s *Stats) recordMajorCollection() { s.MajorCollections++ }

// Collections returns the total number of collect() invocations, minor and
// major, treating each invocation as one event per the spec's resolution
// of the gc_collect_stat_update placement ambiguity.
func (s *Stats) Collections() int64 {
	return s.MinorCollections + s.MajorCollections
}

// setResidency replaces the current resident byte/object counts, used
// after a collection recomputes exactly how much survived.
func (s *Stats) setResidency(bytes, objects int64) {
	s.residentBytes = bytes
	s.residentObjects = objects
}

// breakdown produces a Statistic tree of the current heap, in the shape
// cmd/stellagc's "stats" command renders as an indented list.
func (s *Stats) breakdown(roots *RootRegistry) *Statistic {
	return groupStat("heap",
		leafStat("resident bytes", s.residentBytes),
		leafStat("resident objects", s.residentObjects),
		groupStat("allocated",
			leafStat("bytes", s.AllocatedBytes),
			leafStat("objects", s.AllocatedObjects),
		),
		groupStat("max residency",
			leafStat("bytes", s.MaxBytes),
			leafStat("objects", s.MaxObjects),
		),
		groupStat("barrier calls",
			leafStat("reads", s.Reads),
			leafStat("writes", s.Writes),
		),
		groupStat("collections",
			leafStat("minor", s.MinorCollections),
			leafStat("major", s.MajorCollections),
		),
		leafStat("roots high water", int64(roots.HighWater())),
	)
}
