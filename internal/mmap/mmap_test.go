// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmap // import "github.com/go-lpc/fwup/internal/mmap"

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestHandle(t *testing.T) {
	t.Run("nil-handle", func(t *testing.T) {
		var h *Handle

		_, err := h.ReadAt(nil, 0)
		if !errors.Is(err, os.ErrInvalid) {
			t.Fatalf("invalid read-at error: %+v", err)
		}

		err = h.Close()
		if !errors.Is(err, os.ErrInvalid) {
			t.Fatalf("invalid close error: %+v", err)
		}
	})
	t.Run("nil-data", func(t *testing.T) {
		var h Handle

		_, err := h.ReadAt(nil, 0)
		if !errors.Is(err, errClosed) {
			t.Fatalf("invalid read-at error: %+v", err)
		}

		err = h.Close()
		if err != nil {
			t.Fatalf("error closing nil-data handle: %+v", err)
		}
	})
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "ec.rom")
	err := os.WriteFile(fname, []byte{0, 1, 2, 3}, 0644)
	if err != nil {
		t.Fatalf("could not create file: %+v", err)
	}

	h, err := Open(fname)
	if err != nil {
		t.Fatalf("could not open file: %+v", err)
	}
	defer h.Close()

	if got, want := h.Len(), 4; got != want {
		t.Fatalf("invalid len: got=%d, want=%d", got, want)
	}

	buf := make([]byte, 3)
	n, err := h.ReadAt(buf, 1)
	if err != nil {
		t.Fatalf("could not read: %+v", err)
	}
	if got, want := string(buf[:n]), "\x01\x02\x03"; got != want {
		t.Fatalf("invalid data: got=%q, want=%q", got, want)
	}

	_, err = h.ReadAt(buf, 2)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("invalid error: %+v", err)
	}

	_, err = h.ReadAt(nil, -1)
	if got, want := err.Error(), "mmap: invalid ReadAt offset -1"; got != want {
		t.Fatalf("invalid error: %+v", err)
	}

	err = h.Close()
	if err != nil {
		t.Fatalf("could not close handle: %+v", err)
	}
	_, err = h.ReadAt(buf, 0)
	if !errors.Is(err, errClosed) {
		t.Fatalf("invalid error after close: %+v", err)
	}
}

func TestOpenEmpty(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "empty.rom")
	err := os.WriteFile(fname, nil, 0644)
	if err != nil {
		t.Fatalf("could not create file: %+v", err)
	}

	h, err := Open(fname)
	if err != nil {
		t.Fatalf("could not open empty file: %+v", err)
	}
	if got, want := h.Len(), 0; got != want {
		t.Fatalf("invalid len: got=%d, want=%d", got, want)
	}
	err = h.Close()
	if err != nil {
		t.Fatalf("could not close handle: %+v", err)
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.rom"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("invalid error: %+v", err)
	}

	_, err = Open(dir)
	if err == nil {
		t.Fatalf("expected an error for a directory")
	}
}
