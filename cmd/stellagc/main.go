// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The stellagc tool drives the Stella collector outside of a compiled
// Stella program, for demos and manual exploration: it builds cons-cell
// graphs with a toy mutator, runs them through gc.Collector, and prints
// collector state and statistics. Run "stellagc help" for a list of
// commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stella.dev/gc"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var youngSize, oldSize int64
	var rootCap, remsetCap int
	var debug bool

	root := &cobra.Command{
		Use:   "stellagc",
		Short: "Drive the Stella collector outside of a compiled program",
	}
	root.PersistentFlags().Int64Var(&youngSize, "young", 2<<10, "young generation size, in bytes")
	root.PersistentFlags().Int64Var(&oldSize, "old", 8<<10, "old generation size, in bytes")
	root.PersistentFlags().IntVar(&rootCap, "root-capacity", 1024, "root registry capacity")
	root.PersistentFlags().IntVar(&remsetCap, "remset-capacity", 256, "remembered set capacity")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug-mode assertions")

	newCollector := func() *gc.Collector {
		return gc.New(
			gc.WithYoungSize(youngSize),
			gc.WithOldSize(oldSize),
			gc.WithRootCapacity(rootCap),
			gc.WithRemSetCapacity(remsetCap),
			gc.WithDebug(debug),
		)
	}

	root.AddCommand(newDemoCmd(newCollector))
	root.AddCommand(newStressCmd(newCollector))
	root.AddCommand(newReplCmd(newCollector))
	return root
}

