// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bootvol

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestVolume(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "system76-firmware-update", "firmware")
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		t.Fatalf("could not create volume: %+v", err)
	}

	want := []byte("PRJ:galp3$VER:06$")
	err = os.WriteFile(filepath.Join(dir, "ec.rom"), want, 0644)
	if err != nil {
		t.Fatalf("could not create rom: %+v", err)
	}

	vol := New(root)

	for _, tc := range []struct {
		name string
		want string
	}{
		{`\system76-firmware-update\firmware\ec.rom`, filepath.Join(dir, "ec.rom")},
		{`system76-firmware-update/firmware/ec.rom`, filepath.Join(dir, "ec.rom")},
		{`\..\..\etc\passwd`, filepath.Join(root, "etc", "passwd")},
	} {
		if got := vol.Path(tc.name); got != tc.want {
			t.Fatalf("invalid path for %q: got=%q, want=%q", tc.name, got, tc.want)
		}
	}

	err = vol.Find(`\system76-firmware-update\firmware\ec.rom`)
	if err != nil {
		t.Fatalf("could not find rom: %+v", err)
	}

	got, err := vol.Load(`\system76-firmware-update\firmware\ec.rom`)
	if err != nil {
		t.Fatalf("could not load rom: %+v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("invalid rom content: got=%q, want=%q", got, want)
	}

	err = vol.Find(`\system76-firmware-update\firmware\ec2.rom`)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("invalid error: got=%v, want=%v", err, ErrNotFound)
	}

	_, err = vol.Load(`\system76-firmware-update\firmware\ec2.rom`)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("invalid error: got=%v, want=%v", err, ErrNotFound)
	}

	_, err = vol.Load(`\system76-firmware-update\firmware`)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("invalid error loading a directory: %v", err)
	}
}
