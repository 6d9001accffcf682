// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package ec

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const (
	stsOBF = 1 << 0 // output buffer full
	stsIBF = 1 << 1 // input buffer full

	portTimeout = 100000 // status polls before giving up
	maxStrLen   = 256
)

// Port is a Driver issuing transactions on the EC I/O ports through /dev/port.
type Port struct {
	fd   int
	data int64
	cmd  int64
}

// OpenPort opens the primary (data 0x62, command 0x66) or
// secondary (data 0x68, command 0x6c) EC.
func OpenPort(primary bool) (*Port, error) {
	return openPort("/dev/port", primary)
}

func openPort(fname string, primary bool) (*Port, error) {
	fd, err := unix.Open(fname, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("ec: could not open %q: %w", fname, err)
	}

	p := &Port{fd: fd, data: 0x62, cmd: 0x66}
	if !primary {
		p.data, p.cmd = 0x68, 0x6c
	}
	return p, nil
}

// Close releases the I/O port handle.
func (p *Port) Close() error {
	if p.fd < 0 {
		return os.ErrClosed
	}
	err := unix.Close(p.fd)
	p.fd = -1
	return err
}

func (p *Port) inb(port int64) (byte, error) {
	var buf [1]byte
	_, err := unix.Pread(p.fd, buf[:], port)
	if err != nil {
		return 0, fmt.Errorf("%w: inb 0x%x: %v", ErrHardware, port, err)
	}
	return buf[0], nil
}

func (p *Port) outb(port int64, v byte) error {
	_, err := unix.Pwrite(p.fd, []byte{v}, port)
	if err != nil {
		return fmt.Errorf("%w: outb 0x%x: %v", ErrHardware, port, err)
	}
	return nil
}

func (p *Port) wait(mask, want byte) error {
	for i := 0; i < portTimeout; i++ {
		sts, err := p.inb(p.cmd)
		if err != nil {
			return err
		}
		if sts&mask == want {
			return nil
		}
	}
	return fmt.Errorf("%w: timeout on status 0x%x", ErrHardware, mask)
}

// Cmd sends a command byte.
func (p *Port) Cmd(v byte) error {
	err := p.wait(stsIBF, 0)
	if err != nil {
		return err
	}
	return p.outb(p.cmd, v)
}

// Read reads a data byte.
func (p *Port) Read() (byte, error) {
	err := p.wait(stsOBF, stsOBF)
	if err != nil {
		return 0, err
	}
	return p.inb(p.data)
}

// Write writes a data byte.
func (p *Port) Write(v byte) error {
	err := p.wait(stsIBF, 0)
	if err != nil {
		return err
	}
	return p.outb(p.data, v)
}

// Param reads the indexed parameter addr.
func (p *Port) Param(addr byte) (byte, error) {
	err := p.Cmd(0x80)
	if err != nil {
		return 0, err
	}
	err = p.Cmd(addr)
	if err != nil {
		return 0, err
	}
	return p.Read()
}

// SetParam writes v to the indexed parameter addr.
func (p *Port) SetParam(addr, v byte) error {
	err := p.Cmd(0x81)
	if err != nil {
		return err
	}
	err = p.Cmd(addr)
	if err != nil {
		return err
	}
	return p.Cmd(v)
}

func (p *Port) str(cmd byte) string {
	var buf []byte
	if p.Cmd(cmd) != nil {
		return ""
	}
	for i := 0; i < maxStrLen; i++ {
		v, err := p.Read()
		if err != nil || v == '$' {
			break
		}
		buf = append(buf, v)
	}
	return string(buf)
}

// Project returns the project name reported by the EC.
func (p *Port) Project() string { return p.str(0x92) }

// Version returns the firmware version reported by the EC.
func (p *Port) Version() string { return "1." + p.str(0x93) }

// Size returns the flash size reported by the EC.
func (p *Port) Size() int {
	v, err := p.Param(0xe5)
	if err == nil && v == 0x80 {
		return 128 * 1024
	}
	return 64 * 1024
}

var _ Driver = (*Port)(nil)
