// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ec drives the flash interface of an ITE-style embedded controller.
//
// The package is built on top of a Driver, which issues the primitive
// byte-level transactions against one EC chip. On top of it, a Device exposes
// the live metadata of the controller and a Flasher holds an unlocked,
// exclusive session used to read, erase and write the EC flash array.
//
// All flash operations are destructive and cannot be resumed: a failure
// after Unlock may leave the controller in an undefined state.
package ec // import "github.com/go-lpc/fwup/ec"

import (
	"errors"
)

const (
	BlockSize = 65536 // size of a flash block, addressed by a single index
	ChunkSize = 1024  // progress granularity inside a block

	nChunks = BlockSize / ChunkSize
)

var (
	// ErrHardware is the undifferentiated error reported by a Driver
	// whenever a register transaction fails.
	ErrHardware = errors.New("ec: hardware error")

	// ErrBusy is returned when a device is already owned by a flash session.
	ErrBusy = errors.New("ec: device owned by a flash session")

	// ErrClosed is returned by operations on a released flash session.
	ErrClosed = errors.New("ec: flash session closed")
)

// Driver is the register-level interface to one EC chip.
//
// Errors returned by Cmd, Read, Write, Param and SetParam wrap ErrHardware.
type Driver interface {
	Cmd(v byte) error
	Read() (byte, error)
	Write(v byte) error
	Param(addr byte) (byte, error)
	SetParam(addr, v byte) error

	Project() string
	Version() string
	Size() int
}

// Info is a snapshot of the metadata of a firmware image or a live EC.
type Info struct {
	Project string
	Version string
	Size    int
}
