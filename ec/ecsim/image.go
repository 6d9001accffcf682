// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecsim

const (
	prjOffset = 0x100
	verOffset = 0x140
)

// Image returns a synthetic firmware image of the given size, tagged
// with the project prj and the version field ver (reported as "1."+ver).
//
// The payload bytes follow a deterministic, non-uniform pattern.
func Image(prj, ver string, size int) []byte {
	raw := make([]byte, size)
	for i := range raw {
		raw[i] = byte(i % 251)
	}
	copy(raw[prjOffset:], "PRJ:"+prj+"$")
	copy(raw[verOffset:], "VER:"+ver+"$")
	return raw
}
