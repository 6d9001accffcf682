// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package ec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// fakePorts creates a file standing in for /dev/port, with the given
// status byte on the command ports.
func fakePorts(t *testing.T, sts byte) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "port")
	buf := make([]byte, 0x100)
	buf[0x66] = sts
	buf[0x6c] = sts
	err := os.WriteFile(fname, buf, 0644)
	if err != nil {
		t.Fatalf("could not create fake ports: %+v", err)
	}
	return fname
}

func TestPort(t *testing.T) {
	for _, tc := range []struct {
		name    string
		primary bool
		data    int64
	}{
		{"primary", true, 0x62},
		{"secondary", false, 0x68},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fname := fakePorts(t, stsOBF)
			p, err := openPort(fname, tc.primary)
			if err != nil {
				t.Fatalf("could not open ports: %+v", err)
			}
			defer p.Close()

			if got, want := p.data, tc.data; got != want {
				t.Fatalf("invalid data port: got=0x%x, want=0x%x", got, want)
			}

			// command 0x01 keeps OBF set and IBF cleared.
			err = p.Cmd(stsOBF)
			if err != nil {
				t.Fatalf("could not send command: %+v", err)
			}

			err = p.Write(0x42)
			if err != nil {
				t.Fatalf("could not write data: %+v", err)
			}

			v, err := p.Read()
			if err != nil {
				t.Fatalf("could not read data: %+v", err)
			}
			if v != 0x42 {
				t.Fatalf("invalid data: got=0x%x, want=0x42", v)
			}
		})
	}
}

func TestPortTimeout(t *testing.T) {
	fname := fakePorts(t, stsIBF)
	p, err := openPort(fname, true)
	if err != nil {
		t.Fatalf("could not open ports: %+v", err)
	}
	defer p.Close()

	err = p.Cmd(0x80)
	if !errors.Is(err, ErrHardware) {
		t.Fatalf("invalid error: got=%v, want=%v", err, ErrHardware)
	}

	_, err = p.Param(0xe5)
	if !errors.Is(err, ErrHardware) {
		t.Fatalf("invalid error: got=%v, want=%v", err, ErrHardware)
	}

	if got, want := p.Size(), 64*1024; got != want {
		t.Fatalf("invalid default size: got=%d, want=%d", got, want)
	}
	if got, want := p.Project(), ""; got != want {
		t.Fatalf("invalid project: got=%q, want=%q", got, want)
	}

	err = p.Close()
	if err != nil {
		t.Fatalf("could not close ports: %+v", err)
	}
	if err := p.Close(); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("invalid error: got=%v, want=%v", err, os.ErrClosed)
	}
}

func TestOpenPortMissing(t *testing.T) {
	_, err := openPort(filepath.Join(t.TempDir(), "missing"), true)
	if err == nil {
		t.Fatalf("expected an error")
	}
}
