// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// reset cold reboots the machine.
func reset() error {
	unix.Sync()
	err := unix.Reboot(unix.LINUX_REBOOT_CMD_RESTART)
	if err != nil {
		return fmt.Errorf("could not reboot: %w", err)
	}
	return nil
}
