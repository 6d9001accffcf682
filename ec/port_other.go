// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package ec

import (
	"fmt"
	"runtime"
)

// Port is a Driver issuing transactions on the EC I/O ports.
// It is only available on linux.
type Port struct{}

// OpenPort always fails: I/O port access is not supported on this platform.
func OpenPort(primary bool) (*Port, error) {
	return nil, fmt.Errorf("ec: I/O port access not supported on %s", runtime.GOOS)
}

// Close is a no-op.
func (p *Port) Close() error { return nil }

// Cmd fails with ErrHardware.
func (p *Port) Cmd(v byte) error { return ErrHardware }

// Read fails with ErrHardware.
func (p *Port) Read() (byte, error) { return 0, ErrHardware }

// Write fails with ErrHardware.
func (p *Port) Write(v byte) error { return ErrHardware }

// Param fails with ErrHardware.
func (p *Port) Param(addr byte) (byte, error) { return 0, ErrHardware }

// SetParam fails with ErrHardware.
func (p *Port) SetParam(addr, v byte) error { return ErrHardware }

// Project returns an empty project.
func (p *Port) Project() string { return "" }

// Version returns an empty version.
func (p *Port) Version() string { return "" }

// Size returns zero.
func (p *Port) Size() int { return 0 }

var _ Driver = (*Port)(nil)
