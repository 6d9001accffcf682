// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package console implements the operator console of the firmware updater.
package console // import "github.com/go-lpc/fwup/internal/console"

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Keyboard reads single keypresses from a terminal.
type Keyboard struct {
	in *os.File
}

// NewKeyboard returns a keyboard reading from in.
func NewKeyboard(in *os.File) *Keyboard {
	return &Keyboard{in: in}
}

// WaitKey blocks until a key is pressed and returns it.
//
// When in is a terminal, it is switched to raw mode for the duration of
// the call. Otherwise, the next byte of the input is returned.
func (kbd *Keyboard) WaitKey() (rune, error) {
	fd := int(kbd.in.Fd())
	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return 0, fmt.Errorf("console: could not switch terminal to raw mode: %w", err)
		}
		defer term.Restore(fd, old)
	}
	return readKey(kbd.in)
}

func readKey(r io.Reader) (rune, error) {
	var buf [1]byte
	_, err := io.ReadFull(r, buf[:])
	if err != nil {
		return 0, fmt.Errorf("console: could not read key: %w", err)
	}
	return rune(buf[0]), nil
}

var (
	title   = color.New(color.FgHiWhite, color.Bold)
	warning = color.New(color.FgRed, color.Bold)
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
)

// Banner writes the title and power warning of the updater to w,
// centered on cols columns.
func Banner(w io.Writer, cols int) {
	title.Fprintln(w, center("Firmware Updater", cols))
	warning.Fprintln(w, center("Do not disconnect your power adapter", cols))
}

func center(s string, cols int) string {
	pad := (cols - len(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

// Status writes a colored one-line status for the named update.
func Status(w io.Writer, name string, err error) {
	if err != nil {
		failure.Fprintf(w, "%s: Failure: %v\n", name, err)
		return
	}
	success.Fprintf(w, "%s: Success\n", name)
}
