// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fwup

import (
	"runtime/debug"
	"testing"
)

func TestVersionOf(t *testing.T) {
	const root = "github.com/go-lpc/fwup"
	for _, tc := range []struct {
		name string
		bi   *debug.BuildInfo
		vers string
		sum  string
	}{
		{name: "nil"},
		{
			name: "main",
			bi: &debug.BuildInfo{
				Main: debug.Module{Path: root, Version: "v0.1.0", Sum: "h1:main"},
			},
			vers: "v0.1.0",
			sum:  "h1:main",
		},
		{
			name: "dep",
			bi: &debug.BuildInfo{
				Deps: []*debug.Module{
					{Path: "golang.org/x/sys", Version: "v0.28.0"},
					{Path: root, Version: "v0.2.0", Sum: "h1:dep"},
				},
			},
			vers: "v0.2.0",
			sum:  "h1:dep",
		},
		{
			name: "replace-path-version",
			bi: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path: root, Version: "v0.2.0",
					Replace: &debug.Module{Path: "example.org/fwup", Version: "v0.3.0", Sum: "h1:repl"},
				}},
			},
			vers: "example.org/fwup v0.3.0",
			sum:  "h1:repl",
		},
		{
			name: "replace-local",
			bi: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path: root, Version: "v0.2.0",
					Replace: &debug.Module{},
				}},
			},
			vers: "v0.2.0*",
		},
		{
			name: "missing",
			bi:   &debug.BuildInfo{},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			vers, sum := versionOf(tc.bi)
			if vers != tc.vers || sum != tc.sum {
				t.Fatalf("invalid version: got=(%q, %q), want=(%q, %q)", vers, sum, tc.vers, tc.sum)
			}
		})
	}
}
