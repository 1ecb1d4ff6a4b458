// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"stella.dev/gc"
)

func newReplCmd(newCollector func() *gc.Collector) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively drive a collector instance",
		Long: `repl starts an interactive shell over a fresh collector instance.

Commands:
  nil                 allocate a nil cell, prints its address
  cons <car> <cdr>     allocate a cons cell, prints its address
  push <addr>          register <addr> as a root (stored as $N)
  pop                  pop the most recently pushed root
  read <addr> <i>      print field i of the object at <addr>
  write <addr> <i> <v> store v into field i of the object at <addr>
  collect              force a minor collection by over-allocating
  state                print per-generation heap contents
  stats                print allocation/collection statistics
  quit                 exit
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(newCollector())
		},
	}
}

// runRepl implements a minimal line-oriented shell, in the spirit of the
// interactive debugger demos elsewhere in this source tree, but driving a
// live in-process collector rather than inspecting a dumped one.
func runRepl(c *gc.Collector) error {
	rl, err := readline.New("stellagc> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	var roots []*gc.Address

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "exit":
			return nil
		case "nil":
			o, err := newNil(c)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			fmt.Fprintf(os.Stdout, "%v\n", gc.Address(o))
		case "cons":
			if len(fields) != 3 {
				fmt.Fprintln(os.Stderr, "usage: cons <car> <cdr>")
				continue
			}
			carV, err1 := parseAddr(fields[1])
			cdrV, err2 := parseAddr(fields[2])
			if err1 != nil || err2 != nil {
				fmt.Fprintln(os.Stderr, "bad address")
				continue
			}
			o, err := newCons(c, carV, cdrV)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			fmt.Fprintf(os.Stdout, "%v\n", gc.Address(o))
		case "push":
			if len(fields) != 2 {
				fmt.Fprintln(os.Stderr, "usage: push <addr>")
				continue
			}
			v, err := parseAddr(fields[1])
			if err != nil {
				fmt.Fprintln(os.Stderr, "bad address")
				continue
			}
			slot := new(gc.Address)
			*slot = v
			if err := c.PushRoot(slot); err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			roots = append(roots, slot)
			fmt.Fprintf(os.Stdout, "$%d = %v\n", len(roots)-1, *slot)
		case "pop":
			if len(roots) == 0 {
				fmt.Fprintln(os.Stderr, "no roots registered")
				continue
			}
			top := roots[len(roots)-1]
			if err := c.PopRoot(top); err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			roots = roots[:len(roots)-1]
			fmt.Fprintf(os.Stdout, "popped %v\n", *top)
		case "read":
			if len(fields) != 3 {
				fmt.Fprintln(os.Stderr, "usage: read <addr> <i>")
				continue
			}
			a, err1 := parseAddr(fields[1])
			i, err2 := strconv.ParseInt(fields[2], 10, 64)
			if err1 != nil || err2 != nil {
				fmt.Fprintln(os.Stderr, "bad arguments")
				continue
			}
			o := gc.Object(a)
			c.ReadBarrier(o, i)
			fmt.Fprintf(os.Stdout, "%v\n", c.Field(o, i))
		case "write":
			if len(fields) != 4 {
				fmt.Fprintln(os.Stderr, "usage: write <addr> <i> <v>")
				continue
			}
			a, err1 := parseAddr(fields[1])
			i, err2 := strconv.ParseInt(fields[2], 10, 64)
			v, err3 := parseAddr(fields[3])
			if err1 != nil || err2 != nil || err3 != nil {
				fmt.Fprintln(os.Stderr, "bad arguments")
				continue
			}
			if err := c.WriteBarrier(gc.Object(a), i, v); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case "collect":
			// There's no direct "collect now" entry point in the public
			// API (the spec only triggers collection from allocation
			// failure); allocate zero-field nil cells repeatedly until a
			// collection has been observed.
			before := c.Stats().Collections()
			for c.Stats().Collections() == before {
				if _, err := newNil(c); err != nil {
					fmt.Fprintln(os.Stderr, err)
					break
				}
			}
		case "state":
			c.PrintState(os.Stdout)
		case "stats":
			c.PrintAllocStats(os.Stdout)
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n", fields[0])
		}
	}
}

func parseAddr(s string) (gc.Address, error) {
	s = strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, err
	}
	return gc.Address(v), nil
}
