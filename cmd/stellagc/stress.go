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

func newStressCmd(newCollector func() *gc.Collector) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Allocate many cons cells with old<->young mutation to exercise promotion and the remembered set",
	}
	cmd.Flags().Int("iterations", 5000, "number of allocations to perform")
	cmd.Flags().Int("report-every", 500, "print stats every N allocations (0 disables)")
	cmd.RunE = func(c *cobra.Command, args []string) error {
		n, err := c.Flags().GetInt("iterations")
		if err != nil {
			return err
		}
		every, err := c.Flags().GetInt("report-every")
		if err != nil {
			return err
		}
		return runStress(newCollector(), n, every)
	}
	return cmd
}

// runStress keeps two persistent roots — one on the very first cell ever
// allocated, one on the current head of a growing list — and conses a
// fresh cell onto the head on every iteration. Periodically it rewrites
// the first cell's cdr to point at the current head, which exercises the
// write barrier and, once the first cell has been promoted, the
// remembered set. Both roots are pushed once at the start and popped once
// at the end, in reverse order, so root discipline stays strictly LIFO
// throughout.
func runStress(c *gc.Collector, iterations, reportEvery int) error {
	n, err := newNil(c)
	if err != nil {
		return err
	}
	first, err := newCons(c, gc.Address(n), gc.Address(n))
	if err != nil {
		return err
	}

	var firstRoot gc.Address = gc.Address(first)
	if err := c.PushRoot(&firstRoot); err != nil {
		return err
	}
	defer c.PopRoot(&firstRoot)

	var headRoot gc.Address = firstRoot
	if err := c.PushRoot(&headRoot); err != nil {
		return err
	}
	defer c.PopRoot(&headRoot)

	for i := 0; i < iterations; i++ {
		cell, err := newCons(c, headRoot, headRoot)
		if err != nil {
			return err
		}
		headRoot = gc.Address(cell)

		if i%7 == 0 {
			if err := c.WriteBarrier(gc.Object(firstRoot), 1, headRoot); err != nil {
				return err
			}
		}

		if reportEvery > 0 && i > 0 && i%reportEvery == 0 {
			fmt.Fprintf(os.Stdout, "--- after %d allocations ---\n", i)
			c.PrintAllocStats(os.Stdout)
		}
	}

	fmt.Fprintln(os.Stdout, "--- final ---")
	c.PrintAllocStats(os.Stdout)
	return nil
}
