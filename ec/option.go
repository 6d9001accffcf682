// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ec

import (
	"io"
	"os"
	"time"
)

// Option configures a Flasher.
type Option func(*config)

type config struct {
	out   io.Writer
	stall func(time.Duration)
}

func newConfig() config {
	return config{
		out:   os.Stdout,
		stall: time.Sleep,
	}
}

// WithOutput sets the writer receiving progress text.
func WithOutput(w io.Writer) Option {
	return func(cfg *config) {
		cfg.out = w
	}
}

// WithStall sets the function used to wait for the hardware to settle.
func WithStall(stall func(time.Duration)) Option {
	return func(cfg *config) {
		cfg.stall = stall
	}
}
