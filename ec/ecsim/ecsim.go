// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ecsim provides an in-memory simulated embedded controller.
//
// The simulated EC interprets the byte stream of the flash protocol
// (unlock handshake, block read, erase, block write) against a flash
// array, and reports its live project and version from the content of
// that array.
package ecsim // import "github.com/go-lpc/fwup/ec/ecsim"

import (
	"fmt"

	"github.com/go-lpc/fwup/ec"
)

type mode int

const (
	modeIdle mode = iota
	modeRead
	modeWrite
)

// Stats counts the register transactions issued to a simulated EC.
type Stats struct {
	Cmds      int
	Reads     int
	Writes    int
	Params    int
	SetParams int
}

// Total returns the total number of register transactions.
func (st Stats) Total() int {
	return st.Cmds + st.Reads + st.Writes + st.Params + st.SetParams
}

// EC is a simulated embedded controller.
type EC struct {
	flash  []byte
	params [256]byte

	// Chip is the value reported by param 0xf9 once the flash
	// interface has been configured.
	Chip byte

	// FailAt, when positive, makes the FailAt-th register transaction
	// (counting from 1) and all later ones fail.
	FailAt int

	// Stuck holds flash offsets whose value does not change on erase.
	Stuck map[int]byte

	// Erases counts the completed erase commands.
	Erases int

	stats    Stats
	unlocked bool
	pending  []byte
	mode     mode
	pos      int
	end      int
}

// New returns a simulated EC holding a copy of flash.
// len(flash) must be a multiple of ec.BlockSize.
func New(flash []byte) *EC {
	if len(flash)%ec.BlockSize != 0 {
		panic(fmt.Errorf("ecsim: invalid flash size %d", len(flash)))
	}
	sim := &EC{flash: make([]byte, len(flash))}
	copy(sim.flash, flash)
	return sim
}

// Flash returns the current flash content.
func (sim *EC) Flash() []byte { return sim.flash }

// Stats returns the register transactions issued so far.
func (sim *EC) Stats() Stats { return sim.stats }

// Unlocked reports whether the flash interface is in programming mode.
func (sim *EC) Unlocked() bool { return sim.unlocked }

func (sim *EC) op() error {
	if sim.FailAt > 0 && sim.stats.Total() >= sim.FailAt-1 {
		return fmt.Errorf("%w: injected fault", ec.ErrHardware)
	}
	return nil
}

// Cmd implements ec.Driver.
func (sim *EC) Cmd(v byte) error {
	if err := sim.op(); err != nil {
		return err
	}
	sim.stats.Cmds++

	sim.pending = append(sim.pending, v)
	return sim.exec()
}

func (sim *EC) exec() error {
	cmd := sim.pending
	switch cmd[0] {
	case 0xde, 0xdc:
		sim.pending = sim.pending[:0]
	case 0xf0:
		sim.pending = sim.pending[:0]
		if sim.params[0xf8] == 0xb1 {
			sim.unlocked = true
		}
	case 0x03:
		if len(cmd) < 2 {
			return nil
		}
		sim.pending = sim.pending[:0]
		return sim.seek(modeRead, cmd[1])
	case 0x02:
		if len(cmd) < 5 {
			return nil
		}
		sim.pending = sim.pending[:0]
		return sim.seek(modeWrite, cmd[2])
	case 0x01:
		if len(cmd) < 5 {
			return nil
		}
		sim.pending = sim.pending[:0]
		if !sim.unlocked {
			return fmt.Errorf("%w: erase while locked", ec.ErrHardware)
		}
		for i := range sim.flash {
			sim.flash[i] = 0xff
		}
		for off, v := range sim.Stuck {
			sim.flash[off] = v
		}
		sim.mode = modeIdle
		sim.Erases++
	default:
		sim.pending = sim.pending[:0]
		return fmt.Errorf("%w: unknown command 0x%02x", ec.ErrHardware, cmd[0])
	}
	return nil
}

func (sim *EC) seek(m mode, blk byte) error {
	if !sim.unlocked {
		return fmt.Errorf("%w: flash access while locked", ec.ErrHardware)
	}
	beg := int(blk) * ec.BlockSize
	if beg >= len(sim.flash) {
		return fmt.Errorf("%w: invalid block %d", ec.ErrHardware, blk)
	}
	sim.mode = m
	sim.pos = beg
	sim.end = beg + ec.BlockSize
	return nil
}

// Read implements ec.Driver.
func (sim *EC) Read() (byte, error) {
	if err := sim.op(); err != nil {
		return 0, err
	}
	sim.stats.Reads++

	if sim.mode != modeRead {
		// handshake acknowledge
		return 0x00, nil
	}
	v := sim.flash[sim.pos]
	sim.pos++
	if sim.pos == sim.end {
		sim.mode = modeIdle
	}
	return v, nil
}

// Write implements ec.Driver.
func (sim *EC) Write(v byte) error {
	if err := sim.op(); err != nil {
		return err
	}
	sim.stats.Writes++

	if sim.mode != modeWrite {
		return fmt.Errorf("%w: write outside of a block write", ec.ErrHardware)
	}
	sim.flash[sim.pos] = v
	sim.pos++
	if sim.pos == sim.end {
		sim.mode = modeIdle
	}
	return nil
}

// Param implements ec.Driver.
func (sim *EC) Param(addr byte) (byte, error) {
	if err := sim.op(); err != nil {
		return 0, err
	}
	sim.stats.Params++

	if addr == 0xf9 && sim.params[0xf8] == 0xb1 {
		return sim.Chip, nil
	}
	return sim.params[addr], nil
}

// SetParam implements ec.Driver.
func (sim *EC) SetParam(addr, v byte) error {
	if err := sim.op(); err != nil {
		return err
	}
	sim.stats.SetParams++

	sim.params[addr] = v
	return nil
}

// Project implements ec.Driver.
func (sim *EC) Project() string { return ec.NewImage(sim.flash).Project() }

// Version implements ec.Driver.
func (sim *EC) Version() string { return ec.NewImage(sim.flash).Version() }

// Size implements ec.Driver.
func (sim *EC) Size() int { return len(sim.flash) }

var _ ec.Driver = (*EC)(nil)
