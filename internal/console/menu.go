// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"
)

// Command is an entry of the command menu.
type Command struct {
	Name string
	Run  func() error
}

// Prompter reads one line of input.
type Prompter interface {
	Prompt(p string) (string, error)
}

// Menu repeatedly lists cmds and runs the one selected by its number,
// until 0 (or the end of the input) is selected.
// A failing command is reported and the menu goes on.
func Menu(w io.Writer, p Prompter, cmds []Command) error {
	for {
		o := new(strings.Builder)
		o.WriteString("0 => exit")
		for i, cmd := range cmds {
			fmt.Fprintf(o, ", %d => %s", i+1, cmd.Name)
		}
		fmt.Fprintln(w, o.String())

		line, err := p.Prompt("> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return fmt.Errorf("console: could not read selection: %w", err)
		}
		line = strings.TrimSpace(line)

		i, err := strconv.Atoi(line)
		switch {
		case err != nil || i < 0 || i > len(cmds):
			fmt.Fprintf(w, "Invalid selection %q\n", line)
		case i == 0:
			return nil
		default:
			cmd := cmds[i-1]
			err = cmd.Run()
			if err != nil {
				failure.Fprintf(w, "Failed to run %s: %v\n", cmd.Name, err)
			}
		}
	}
}

// Liner is a Prompter backed by a line editor on the controlling terminal.
type Liner struct {
	state *liner.State
}

// NewLiner returns a line editor. Close must be called to restore
// the terminal.
func NewLiner() *Liner {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &Liner{state: state}
}

// Prompt displays p and returns the line typed by the operator.
// Non-empty lines are added to the history.
func (l *Liner) Prompt(p string) (string, error) {
	line, err := l.state.Prompt(p)
	if err == nil && line != "" {
		l.state.AppendHistory(line)
	}
	return line, err
}

// Close restores the terminal.
func (l *Liner) Close() error {
	return l.state.Close()
}
