// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flash decides whether a firmware update applies to the attached
// embedded controllers and drives the update with layered verification.
//
// An update is never attempted unattended: after the size, project and
// version guards pass, the operator must confirm with a keypress.
// Once the flash is erased, there is no rollback.
package flash // import "github.com/go-lpc/fwup/flash"

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/go-lpc/fwup/ec"
)

// Opener opens the register driver of an EC instance.
type Opener interface {
	Open(inst Instance) (ec.Driver, error)
}

// Loader loads files from the boot volume.
// Missing files are reported with an error wrapping ErrImageNotFound.
type Loader interface {
	Load(name string) ([]byte, error)
}

// Confirmer blocks until the operator presses a key.
type Confirmer interface {
	WaitKey() (rune, error)
}

// BIOS flashes the system BIOS.
type BIOS interface {
	Flash() error
}

// Option configures an Updater.
type Option func(*Updater)

// WithOutput sets the writer receiving status lines and progress markers.
func WithOutput(w io.Writer) Option {
	return func(u *Updater) {
		u.out = w
	}
}

// WithStall sets the function used to wait for the erase to settle.
func WithStall(stall func(time.Duration)) Option {
	return func(u *Updater) {
		u.stall = stall
	}
}

// WithBIOS enables BIOS updates through b.
func WithBIOS(b BIOS) Option {
	return func(u *Updater) {
		u.bios = b
	}
}

// Updater updates the firmware of the embedded controllers.
type Updater struct {
	ecs  Opener
	vol  Loader
	kbd  Confirmer
	bios BIOS

	out   io.Writer
	msg   *log.Logger
	stall func(time.Duration)
}

// New returns an updater opening controllers with ecs, loading images
// with vol and asking for confirmation with kbd.
func New(ecs Opener, vol Loader, kbd Confirmer, opts ...Option) *Updater {
	u := &Updater{
		ecs:   ecs,
		vol:   vol,
		kbd:   kbd,
		out:   os.Stdout,
		stall: time.Sleep,
	}
	for _, opt := range opts {
		opt(u)
	}
	u.msg = log.New(u.out, "", 0)
	return u
}

func (u *Updater) logger(name string) *log.Logger {
	return log.New(u.out, name+": ", 0)
}

func (u *Updater) flashOpts() []ec.Option {
	return []ec.Option{
		ec.WithOutput(u.out),
		ec.WithStall(u.stall),
	}
}

func closeDriver(drv ec.Driver) {
	if c, ok := drv.(io.Closer); ok {
		_ = c.Close()
	}
}
