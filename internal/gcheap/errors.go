// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcheap

import "errors"

// ErrOldGenFull is returned by chase when copying a survivor into an older
// generation's from region (promotion) doesn't fit. The caller aborts the
// in-progress collection pass; the driver collects the older generation
// and retries the whole pass, which is safe because forward is idempotent
// and every object it already forwarded is skipped on the retry.
var ErrOldGenFull = errors.New("gcheap: promotion target generation is full")

// ErrOutOfMemory is fatal: a collection ran and the allocation still
// doesn't fit, or a major collection's survivors don't fit in the flipped
// region.
var ErrOutOfMemory = errors.New("gcheap: out of memory")
