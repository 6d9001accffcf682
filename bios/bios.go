// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bios delegates BIOS flashing to the firmware update script
// shipped on the boot volume.
package bios // import "github.com/go-lpc/fwup/bios"

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// ScriptPath is the volume path of the firmware update script.
const ScriptPath = `\system76-firmware-update\res\firmware.nsh`

// StatusError reports a non-zero exit status of the script.
type StatusError struct {
	Action string // "verify" or "flash"
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bios: failed to %s BIOS: %d", e.Action, e.Status)
}

// Volume gives access to the files of the boot volume.
type Volume interface {
	Find(name string) error
	Path(name string) string
}

// Script runs the firmware update script of a volume.
type Script struct {
	vol   Volume
	shell string

	Stdout io.Writer
	Stderr io.Writer
}

// New returns a script runner using shell to interpret the script.
func New(vol Volume, shell string) *Script {
	return &Script{
		vol:    vol,
		shell:  shell,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Flash verifies then flashes the BIOS image.
func (s *Script) Flash() error {
	err := s.vol.Find(ScriptPath)
	if err != nil {
		return fmt.Errorf("bios: could not find update script: %w", err)
	}

	for _, action := range []string{"verify", "flash"} {
		err = s.run(action)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Script) run(action string) error {
	cmd := exec.Command(s.shell, s.vol.Path(ScriptPath), "bios", action)
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr

	err := cmd.Run()
	if err != nil {
		var eerr *exec.ExitError
		if errors.As(err, &eerr) {
			return &StatusError{Action: action, Status: eerr.ExitCode()}
		}
		return fmt.Errorf("bios: could not run update script (%s): %w", action, err)
	}
	return nil
}
