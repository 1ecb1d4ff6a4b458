// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux || darwin

package core

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// mmapRegion maps a fresh anonymous, zeroed read-write mapping of size
// bytes. Regions are never munmap'd: they live for the process's lifetime,
// same as the teacher's core.Process mappings, which are only ever torn
// down by process exit.
func mmapRegion(size int64) ([]byte, error) {
	return unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func uintptrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
