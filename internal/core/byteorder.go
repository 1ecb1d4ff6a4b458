// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import "encoding/binary"

// byteOrder is the encoding used for header and field words stored in a
// Region. The collector only ever runs on little-endian targets today, but
// keeping this as a variable rather than calling binary.LittleEndian
// directly documents that the choice is a policy, not an accident, the way
// the teacher's core.Process carries an explicit byteOrder field read off
// the core file rather than assuming one.
var byteOrder binary.ByteOrder = binary.LittleEndian
