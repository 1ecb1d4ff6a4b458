// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "stella.dev/gc"

// A tiny stand-in for a Stella mutator: two-field cons cells. Tag 1 means
// "cons", tag 0 means "nil" (a zero-field object used as a scenario
// terminator so every cell's cdr is a real, forwardable object rather than
// a sentinel address the collector would have to special-case).
const (
	tagNil  = 0
	tagCons = 1
)

func newNil(c *gc.Collector) (gc.Object, error) {
	return c.Alloc(tagNil, 0)
}

func newCons(c *gc.Collector, car, cdr gc.Address) (gc.Object, error) {
	o, err := c.Alloc(tagCons, 2)
	if err != nil {
		return 0, err
	}
	if err := c.WriteBarrier(o, 0, car); err != nil {
		return 0, err
	}
	if err := c.WriteBarrier(o, 1, cdr); err != nil {
		return 0, err
	}
	return o, nil
}

func car(c *gc.Collector, o gc.Object) gc.Address {
	c.ReadBarrier(o, 0)
	return c.Field(o, 0)
}

func cdr(c *gc.Collector, o gc.Object) gc.Address {
	c.ReadBarrier(o, 1)
	return c.Field(o, 1)
}
