// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package main

import (
	"fmt"
	"runtime"
)

func reset() error {
	return fmt.Errorf("reboot not supported on %s", runtime.GOOS)
}
