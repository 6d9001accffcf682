// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ec

import (
	"fmt"
	"io"
	"time"
)

const (
	eraseStalls = 64
	eraseStall  = 15 * time.Millisecond
)

// Flasher is an unlocked flash session on a Device.
//
// A Flasher owns its device exclusively until Close is called.
// Project, Version and Size are frozen at unlock time.
type Flasher struct {
	dev *Device
	drv Driver
	cfg config

	project string
	version string
	size    int

	a, b byte // tuning bytes of the capability profile
}

// Unlock places the flash interface of dev into programming mode and
// returns the session owning dev.
//
// If any register transaction fails, the device is released and left
// in an undefined state.
func Unlock(dev *Device, opts ...Option) (*Flasher, error) {
	drv, err := dev.acquire()
	if err != nil {
		return nil, err
	}

	f := &Flasher{
		dev:     dev,
		drv:     drv,
		cfg:     newConfig(),
		project: drv.Project(),
		version: drv.Version(),
		size:    drv.Size(),
	}
	for _, opt := range opts {
		opt(&f.cfg)
	}

	err = f.unlock()
	if err != nil {
		dev.release()
		return nil, fmt.Errorf("ec: could not unlock %s: %w", dev.name, err)
	}

	return f, nil
}

func (f *Flasher) unlock() error {
	for _, p := range []struct {
		addr, v byte
	}{
		{0xf9, 0x20},
		{0xfa, 0x02},
		{0xfb, 0x00},
		{0xf8, 0xb1},
	} {
		err := f.drv.SetParam(p.addr, p.v)
		if err != nil {
			return fmt.Errorf("could not set param 0x%02x: %w", p.addr, err)
		}
	}

	v, err := f.drv.Param(0xf9)
	if err != nil {
		return fmt.Errorf("could not get param 0xf9: %w", err)
	}
	f.a, f.b = profile(v)

	for _, cmd := range []byte{0xde, 0xdc, 0xf0} {
		err = f.drv.Cmd(cmd)
		if err != nil {
			return fmt.Errorf("could not send handshake 0x%02x: %w", cmd, err)
		}
	}

	_, err = f.drv.Read()
	if err != nil {
		return fmt.Errorf("could not read handshake: %w", err)
	}

	return nil
}

// profile returns the tuning bytes for the capability reported in
// the high nibble of param 0xf9.
func profile(v byte) (a, b byte) {
	switch v & 0xf0 {
	case 0x40:
		return 0xc0, 0x03
	case 0x80:
		return 0xff, 0x04
	default:
		return 0x80, 0x01
	}
}

// Project returns the project reported by the device at unlock time.
func (f *Flasher) Project() string { return f.project }

// Version returns the version reported by the device at unlock time.
func (f *Flasher) Version() string { return f.version }

// Size returns the flash size reported by the device at unlock time.
func (f *Flasher) Size() int { return f.size }

// Info returns the metadata snapshot taken at unlock time.
func (f *Flasher) Info() Info {
	return Info{Project: f.project, Version: f.version, Size: f.size}
}

// Profile returns the tuning bytes selected during unlock.
func (f *Flasher) Profile() (a, b byte) { return f.a, f.b }

// Close ends the session and releases the device.
func (f *Flasher) Close() error {
	if f.drv == nil {
		return ErrClosed
	}
	f.drv = nil
	f.dev.release()
	return nil
}

func (f *Flasher) blocks() int { return f.size / BlockSize }

// Read reads the whole flash content into dst.
//
// Exactly Size bytes are read from the hardware: bytes beyond len(dst)
// are drained and discarded.
func (f *Flasher) Read(dst []byte) error {
	if f.drv == nil {
		return ErrClosed
	}
	fmt.Fprintf(f.cfg.out, "Read %d KB\n", f.size/1024)

	pos := 0
	for i := 0; i < f.blocks(); i++ {
		err := f.cmds(0x03, byte(i))
		if err != nil {
			return fmt.Errorf("ec: could not start reading block %d: %w", i, err)
		}

		fmt.Fprintf(f.cfg.out, "Block %d: ", i)
		for j := 0; j < nChunks; j++ {
			for k := 0; k < ChunkSize; k++ {
				v, err := f.drv.Read()
				if err != nil {
					return fmt.Errorf("ec: could not read block %d: %w", i, err)
				}
				if pos < len(dst) {
					dst[pos] = v
				}
				pos++
			}
			io.WriteString(f.cfg.out, "*")
		}
		io.WriteString(f.cfg.out, "\n")
	}

	return nil
}

// Erase erases the whole flash content.
//
// The hardware exposes no ready status: Erase waits for a fixed,
// empirically tuned duration.
func (f *Flasher) Erase() error {
	if f.drv == nil {
		return ErrClosed
	}
	fmt.Fprintf(f.cfg.out, "Erase %d KB\n", f.size/1024)

	err := f.cmds(0x01, 0x00, 0x00, 0x00, 0x00)
	if err != nil {
		return fmt.Errorf("ec: could not start erase: %w", err)
	}

	io.WriteString(f.cfg.out, "Erasing: ")
	for i := 0; i < eraseStalls; i++ {
		f.cfg.stall(eraseStall)
		io.WriteString(f.cfg.out, "*")
	}
	io.WriteString(f.cfg.out, "\n")

	return nil
}

// Write writes src to the flash.
//
// Exactly Size bytes are written: past the end of src, the erased
// value 0xff is written.
func (f *Flasher) Write(src []byte) error {
	if f.drv == nil {
		return ErrClosed
	}
	fmt.Fprintf(f.cfg.out, "Write %d KB\n", f.size/1024)

	pos := 0
	for i := 0; i < f.blocks(); i++ {
		err := f.cmds(0x02, 0x00, byte(i), 0x00, 0x00)
		if err != nil {
			return fmt.Errorf("ec: could not start writing block %d: %w", i, err)
		}

		fmt.Fprintf(f.cfg.out, "Block %d: ", i)
		for j := 0; j < nChunks; j++ {
			for k := 0; k < ChunkSize; k++ {
				v := byte(0xff)
				if pos < len(src) {
					v = src[pos]
				}
				pos++
				err := f.drv.Write(v)
				if err != nil {
					return fmt.Errorf("ec: could not write block %d: %w", i, err)
				}
			}
			io.WriteString(f.cfg.out, "*")
		}
		io.WriteString(f.cfg.out, "\n")
	}

	return nil
}

func (f *Flasher) cmds(vs ...byte) error {
	for _, v := range vs {
		err := f.drv.Cmd(v)
		if err != nil {
			return err
		}
	}
	return nil
}
