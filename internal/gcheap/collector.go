// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcheap

import (
	"fmt"
	"io"
	"text/tabwriter"

	"stella.dev/gc/internal/core"
)

// Generation numbers. G0 is young; G1 is old. Step 3 of the generation
// pass scans every generation whose number is less than the one being
// collected, which only ever matters for a major (G1) collection: it
// catches pointers from the young generation into the old one that were
// never recorded in the remembered set because they were written before
// any write barrier fired (an object's fields, for instance, set directly
// by the allocator's caller at construction time).
const (
	genYoung = 0
	genOld   = 1
)

// Config holds the collector's compile-time tunables. Sensible defaults
// are applied by New for anything left zero.
type Config struct {
	YoungSize      int64
	OldSize        int64
	RootCapacity   int
	RemSetCapacity int
	Debug          bool
	Codec          HeaderCodec
}

// Option configures a Collector at construction time.
type Option func(*Config)

func WithYoungSize(n int64) Option          { return func(c *Config) { c.YoungSize = n } }
func WithOldSize(n int64) Option            { return func(c *Config) { c.OldSize = n } }
func WithRootCapacity(n int) Option         { return func(c *Config) { c.RootCapacity = n } }
func WithRemSetCapacity(n int) Option       { return func(c *Config) { c.RemSetCapacity = n } }
func WithDebug(on bool) Option              { return func(c *Config) { c.Debug = on } }
func WithHeaderCodec(h HeaderCodec) Option  { return func(c *Config) { c.Codec = h } }

func (c *Config) setDefaults() {
	if c.YoungSize == 0 {
		c.YoungSize = 8 << 10
	}
	if c.OldSize == 0 {
		c.OldSize = c.YoungSize * 4
	}
	if c.RootCapacity == 0 {
		c.RootCapacity = 1024
	}
	if c.RemSetCapacity == 0 {
		c.RemSetCapacity = 256
	}
	if c.Codec == nil {
		c.Codec = DefaultCodec
	}
}

// A Collector owns every piece of collector state: the two generations,
// the root registry, the remembered set, and the running statistics. It is
// an ordinary Go value with no package-level globals, so a process can run
// more than one in isolation (the source this is modeled on keeps all of
// this in module-level statics; we encapsulate it instead).
type Collector struct {
	cfg    Config
	g0     *Generation
	g1     *Generation
	roots  *RootRegistry
	remset *RememberedSet
	stats  Stats

	warnings []string
}

// New creates a Collector. Regions are mapped lazily, on first use, the
// same way the source's from_space/to_space are malloc'd on demand.
func New(opts ...Option) *Collector {
	var cfg Config
	for _, o := range opts {
		o(&cfg)
	}
	cfg.setDefaults()
	roots := NewRootRegistry(cfg.RootCapacity)
	roots.SetDebug(cfg.Debug)
	return &Collector{
		cfg:    cfg,
		g0:     &Generation{Number: genYoung},
		g1:     &Generation{Number: genOld},
		roots:  roots,
		remset: NewRememberedSet(cfg.RemSetCapacity),
	}
}

func (c *Collector) ensureYoung() error {
	if c.g0.From != nil {
		return nil
	}
	r, err := core.NewRegion(c.cfg.YoungSize, genYoung)
	if err != nil {
		return err
	}
	c.g0.From = r
	return nil
}

func (c *Collector) ensureOld() error {
	if c.g1.From != nil {
		return nil
	}
	from, err := core.NewRegion(c.cfg.OldSize, genOld)
	if err != nil {
		return err
	}
	to, err := core.NewRegion(c.cfg.OldSize, genOld)
	if err != nil {
		return err
	}
	c.g1.From, c.g1.To = from, to
	return nil
}

// Alloc is gc_alloc: it bump-allocates an object with the given tag and
// field count in the young generation, triggering (and retrying once
// after) a minor collection on failure, per §4.1. Fields are
// zero-initialized; the caller (the mutator) still must publish real field
// values before the object is reachable from any root.
func (c *Collector) Alloc(tag uint8, fields int64) (Object, error) {
	if err := c.ensureYoung(); err != nil {
		return 0, err
	}
	o, ok := allocBlock(c.g0.From, fields)
	if !ok {
		if err := c.minorCollect(); err != nil {
			return 0, err
		}
		o, ok = allocBlock(c.g0.From, fields)
		if !ok {
			return 0, fmt.Errorf("%w: cannot fit %d bytes in young generation after collection", ErrOutOfMemory, size(fields))
		}
	}
	setHeader(c.g0.From, o, c.cfg.Codec.Encode(tag, fields))
	for i := int64(0); i < fields; i++ {
		setField(c.g0.From, o, i, 0)
	}
	c.stats.recordAlloc(size(fields))
	return o, nil
}

// minorCollect runs collect(G0), promoting survivors into the old
// generation. If promotion doesn't fit, it collects the old generation
// (major) and retries once; two consecutive failures are fatal.
func (c *Collector) minorCollect() error {
	if err := c.ensureOld(); err != nil {
		return err
	}
	c.g0.To = c.g1.From

	err := collect(c.cfg.Codec, c.g0, nil, c.roots, c.remset)
	if err == ErrOldGenFull {
		if merr := c.majorCollect(); merr != nil {
			return merr
		}
		c.g0.To = c.g1.From
		err = collect(c.cfg.Codec, c.g0, nil, c.roots, c.remset)
		if err == ErrOldGenFull {
			return fmt.Errorf("%w: old generation cannot hold minor collection's survivors even after a major collection", ErrOutOfMemory)
		}
	}
	if err != nil {
		return err
	}
	c.stats.recordMinorCollection()
	c.recomputeResidency()
	return nil
}

// majorCollect runs collect(G1): a classic two-space flip of the old
// generation, additionally scanning the young generation for
// since-birth/missed cross-generation references (step 3 of §4.3).
func (c *Collector) majorCollect() error {
	err := collect(c.cfg.Codec, c.g1, []*Generation{c.g0}, c.roots, c.remset)
	if err == ErrOldGenFull {
		return fmt.Errorf("%w: old generation cannot fit its own survivors", ErrOutOfMemory)
	}
	if err != nil {
		return err
	}
	c.stats.recordMajorCollection()
	c.recomputeResidency()
	return nil
}

// PushRoot is gc_push_root.
func (c *Collector) PushRoot(slot *core.Address) error {
	if err := c.roots.Push(slot); err != nil {
		c.warn(err.Error())
		return err
	}
	return nil
}

// PopRoot is gc_pop_root.
func (c *Collector) PopRoot(slot *core.Address) error {
	if err := c.roots.Pop(slot); err != nil {
		c.warn(err.Error())
		return err
	}
	return nil
}

// ReadBarrier is gc_read_barrier: statistics only.
func (c *Collector) ReadBarrier(o Object, field int64) {
	c.stats.recordRead()
}

// WriteBarrier is gc_write_barrier: it stores v into field i of o, bumps
// the write counter, and unconditionally records o in the remembered set.
// The store and the remembered-set entry are recorded first; if that leaves
// the set full, it then forces a minor collection to drain it, per §4.4's
// implementer's-choice flush policy.
func (c *Collector) WriteBarrier(o Object, i int64, v core.Address) error {
	c.stats.recordWrite()
	r := c.regionContaining(core.Address(o))
	if r == nil {
		return fmt.Errorf("gcheap: write barrier on object %v not in any live region", core.Address(o))
	}
	setField(r, o, i, v)
	c.remset.Add(core.Address(o))

	if c.remset.Full() {
		if err := c.minorCollect(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) regionContaining(a core.Address) *core.Region {
	if c.g0.From != nil && c.g0.From.Contains(a) {
		return c.g0.From
	}
	if c.g1.From != nil && c.g1.From.Contains(a) {
		return c.g1.From
	}
	return nil
}

func (c *Collector) warn(msg string) {
	c.warnings = append(c.warnings, msg)
}

// Warnings returns every non-fatal anomaly observed so far (e.g. a debug
// LIFO-discipline mismatch on root pop).
func (c *Collector) Warnings() []string { return c.warnings }

// Stats returns a snapshot of the running allocation/collection counters.
func (c *Collector) Stats() Stats { return c.stats }

// Breakdown returns the current heap statistics as a named tree, the same
// shape cmd/stellagc's "stats" command renders.
func (c *Collector) Breakdown() *Statistic { return c.stats.breakdown(c.roots) }

// Field reads field i of o without touching the read-barrier counters
// (mirrors Object/Field's role in the teacher: a plain structural
// accessor, separate from the mutator-facing barrier call).
func (c *Collector) Field(o Object, i int64) core.Address {
	r := c.regionContaining(core.Address(o))
	if r == nil {
		return 0
	}
	return field(r, o, i)
}

// Size returns the mutator-visible byte size of o.
func (c *Collector) Size(o Object) int64 {
	r := c.regionContaining(core.Address(o))
	if r == nil {
		return 0
	}
	return ObjectSize(c.cfg.Codec, r, o)
}

// Tag returns o's tag.
func (c *Collector) Tag(o Object) uint8 {
	r := c.regionContaining(core.Address(o))
	if r == nil {
		return 0
	}
	return Tag(c.cfg.Codec, r, o)
}

func (c *Collector) recomputeResidency() {
	var bytes, objects int64
	if c.g0.From != nil {
		walkObjects(c.cfg.Codec, c.g0.From, c.g0.From.Base(), c.g0.From.Next(), func(o Object) {
			bytes += ObjectSize(c.cfg.Codec, c.g0.From, o)
			objects++
		})
	}
	if c.g1.From != nil {
		walkObjects(c.cfg.Codec, c.g1.From, c.g1.From.Base(), c.g1.From.Next(), func(o Object) {
			bytes += ObjectSize(c.cfg.Codec, c.g1.From, o)
			objects++
		})
	}
	c.stats.setResidency(bytes, objects)
}

// PrintAllocStats is print_gc_alloc_stats: overall totals, residency,
// collection counts, and the root stack's high-water mark, followed by the
// full heap state (the source calls print_gc_state for debug at the end of
// this routine too).
func (c *Collector) PrintAllocStats(w io.Writer) {
	s := c.stats
	fmt.Fprintf(w, "Total memory allocation: %d bytes (%d objects)\n", s.AllocatedBytes, s.AllocatedObjects)
	fmt.Fprintf(w, "Total garbage collecting: %d (minor %d, major %d)\n", s.Collections(), s.MinorCollections, s.MajorCollections)
	fmt.Fprintf(w, "Maximum residency:       %d bytes (%d objects)\n", s.MaxBytes, s.MaxObjects)
	fmt.Fprintf(w, "Total memory use:        %d reads and %d writes\n", s.Reads, s.Writes)
	fmt.Fprintf(w, "Max GC roots stack size: %d roots\n", c.roots.HighWater())
	printStatistic(w, c.Breakdown(), 0)
	c.PrintState(w)
}

// printStatistic renders a Statistic tree depth-first, one line per node,
// indented by depth.
func printStatistic(w io.Writer, s *Statistic, depth int) {
	fmt.Fprintf(w, "%*s%s: %d\n", depth*2, "", s.Name, s.Value)
	for _, c := range s.Children() {
		printStatistic(w, c, depth+1)
	}
}

// PrintState is print_gc_state: the contents of each generation's from
// region, object by object, plus each region's bounds and free range, the
// root count and high-water mark, and the remembered set's size.
func (c *Collector) PrintState(w io.Writer) {
	t := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(t, "generation\taddress\ttag\tfields\n")
	printGen := func(name string, g *Generation) {
		if g.From == nil {
			fmt.Fprintf(t, "%s\t(unmapped)\t\t\n", name)
			return
		}
		walkObjects(c.cfg.Codec, g.From, g.From.Base(), g.From.Next(), func(o Object) {
			n := fieldCount(c.cfg.Codec, g.From, o)
			fields := make([]string, n)
			for i := int64(0); i < n; i++ {
				fields[i] = field(g.From, o, i).String()
			}
			fmt.Fprintf(t, "%s\t%v\t%d\t%v\n", name, core.Address(o), Tag(c.cfg.Codec, g.From, o), fields)
		})
		fmt.Fprintf(t, "%s bounds\t[%v,%v)\t\t\n", name, g.From.Base(), g.From.Limit())
		fmt.Fprintf(t, "%s free\t[%v,%v)\t\t\n", name, g.From.Next(), g.From.Limit())
	}
	printGen("G0", c.g0)
	printGen("G1", c.g1)
	fmt.Fprintf(t, "roots\t%d active, %d high water\t\t\n", c.roots.Len(), c.roots.HighWater())
	fmt.Fprintf(t, "remembered set\t%d entries\t\t\n", c.remset.Len())
	t.Flush()
}
