// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux && !darwin

package core

import "unsafe"

// mmapRegion falls back to an ordinary Go allocation on targets where we
// don't have an x/sys/unix mmap binding (e.g. Windows). The arena is still
// a single contiguous, never-shrinking slice; only its provenance differs.
func mmapRegion(size int64) ([]byte, error) {
	return make([]byte, size), nil
}

func uintptrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
