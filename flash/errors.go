// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flash

import (
	"errors"
	"fmt"

	"github.com/go-lpc/fwup/internal/bootvol"
)

var (
	// ErrImageNotFound is reported by a Loader when a ROM file is missing.
	ErrImageNotFound = bootvol.ErrNotFound
)

// ImageLoadError reports a ROM file that exists but could not be loaded.
type ImageLoadError struct {
	Path string
	Err  error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("flash: could not load %q: %v", e.Path, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

// MismatchError reports a metadata field that does not hold the expected
// value. When Differ is set, Got was required to differ from Want.
type MismatchError struct {
	Stage  string // "guard", "read" or "verify"
	Field  string // "size", "project" or "version"
	Want   string
	Got    string
	Differ bool
}

func (e *MismatchError) Error() string {
	if e.Differ {
		return fmt.Sprintf("flash: %s %s mismatch: got %q, must differ from %q",
			e.Stage, e.Field, e.Got, e.Want,
		)
	}
	return fmt.Sprintf("flash: %s %s mismatch: got %q, want %q",
		e.Stage, e.Field, e.Got, e.Want,
	)
}

func isMismatch(err error, field string) bool {
	var e *MismatchError
	return errors.As(err, &e) && e.Field == field
}

// IsSizeMismatch reports whether err is a size mismatch.
func IsSizeMismatch(err error) bool { return isMismatch(err, "size") }

// IsProjectMismatch reports whether err is a project mismatch.
func IsProjectMismatch(err error) bool { return isMismatch(err, "project") }

// IsVersionMismatch reports whether err is a version mismatch.
func IsVersionMismatch(err error) bool { return isMismatch(err, "version") }

// UnlockError reports a failure to unlock the flash interface.
// The controller is left in an undefined state.
type UnlockError struct {
	Err error
}

func (e *UnlockError) Error() string {
	return fmt.Sprintf("flash: failed to unlock: %v", e.Err)
}

func (e *UnlockError) Unwrap() error { return e.Err }

// EraseVerifyError reports a byte that was not erased.
type EraseVerifyError struct {
	Offset int
	Value  byte
}

func (e *EraseVerifyError) Error() string {
	return fmt.Sprintf("flash: failed to verify erase: 0x%02X at offset %d", e.Value, e.Offset)
}

// WriteVerifyError reports a metadata mismatch after writing the new image.
type WriteVerifyError struct {
	Err *MismatchError
}

func (e *WriteVerifyError) Error() string {
	return fmt.Sprintf("flash: failed to verify write: %v", e.Err)
}

func (e *WriteVerifyError) Unwrap() error { return e.Err }

// StageError reports a hardware error during a flash stage.
type StageError struct {
	Stage string // "read", "erase", "write", "verify erase" or "verify write"
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("flash: failed to %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
