// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stella.dev/gc"
)

func newDemoCmd(newCollector func() *gc.Collector) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Build a small linked list and force a collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(newCollector())
		},
	}
}

// runDemo allocates a 3-cell list a->b->c, registers a root on the head,
// then keeps consing onto the front until a collection has run at least
// once, printing the heap state before and after.
func runDemo(c *gc.Collector) error {
	n, err := newNil(c)
	if err != nil {
		return err
	}
	tail, err := newCons(c, gc.Address(n), gc.Address(n))
	if err != nil {
		return err
	}
	mid, err := newCons(c, gc.Address(tail), gc.Address(tail))
	if err != nil {
		return err
	}
	head, err := newCons(c, gc.Address(mid), gc.Address(mid))
	if err != nil {
		return err
	}

	var root gc.Address = gc.Address(head)
	if err := c.PushRoot(&root); err != nil {
		return err
	}
	defer c.PopRoot(&root)

	fmt.Fprintln(os.Stdout, "--- before collection ---")
	c.PrintState(os.Stdout)

	before := c.Stats().Collections()
	for c.Stats().Collections() == before {
		if _, err := newCons(c, gc.Address(head), gc.Address(head)); err != nil {
			return err
		}
	}

	fmt.Fprintln(os.Stdout, "--- after collection ---")
	c.PrintState(os.Stdout)
	fmt.Fprintf(os.Stdout, "root now points at %v\n", root)
	return nil
}
