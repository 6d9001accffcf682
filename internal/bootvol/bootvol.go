// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bootvol loads firmware files from a boot volume.
//
// Paths are expressed the way the boot firmware names them
// (e.g. `\system76-firmware-update\firmware\ec.rom`) and resolved
// below the mount point of the volume.
package bootvol // import "github.com/go-lpc/fwup/internal/bootvol"

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-lpc/fwup/internal/mmap"
)

var (
	// ErrNotFound is returned when a file does not exist on the volume.
	ErrNotFound = errors.New("bootvol: not found")
)

// Volume is a mounted boot volume.
type Volume struct {
	root string
}

// New returns the volume mounted at root.
func New(root string) *Volume {
	return &Volume{root: root}
}

// Path returns the host path of the volume path name.
func (vol *Volume) Path(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	return filepath.Join(vol.root, filepath.FromSlash(filepath.Clean("/"+name)))
}

// Find checks that name exists on the volume.
func (vol *Volume) Find(name string) error {
	_, err := os.Stat(vol.Path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("bootvol: could not find %q: %w", name, err)
	}
	return nil
}

// Load returns the content of the file name.
func (vol *Volume) Load(name string) ([]byte, error) {
	h, err := mmap.Open(vol.Path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("bootvol: could not open %q: %w", name, err)
	}
	defer h.Close()

	buf := make([]byte, h.Len())
	_, err = h.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("bootvol: could not read %q: %w", name, err)
	}

	err = h.Close()
	if err != nil {
		return nil, fmt.Errorf("bootvol: could not close %q: %w", name, err)
	}

	return buf, nil
}
