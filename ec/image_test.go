// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ec_test

import (
	"bytes"
	"testing"

	"github.com/go-lpc/fwup/ec"
	"github.com/go-lpc/fwup/ec/ecsim"
	"github.com/google/go-cmp/cmp"
)

func TestImage(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  []byte
		want ec.Info
	}{
		{
			name: "galp3",
			raw:  ecsim.Image("galp3", "06", 2*ec.BlockSize),
			want: ec.Info{Project: "galp3", Version: "1.06", Size: 131072},
		},
		{
			name: "no-markers",
			raw:  bytes.Repeat([]byte{0xff}, 16),
			want: ec.Info{Project: "", Version: "1.", Size: 16},
		},
		{
			name: "no-terminator",
			raw:  []byte("xxPRJ:oryp5"),
			want: ec.Info{Project: "oryp5", Version: "1.", Size: 11},
		},
		{
			name: "first-marker",
			raw:  []byte("VER:07$PRJ:a$PRJ:b$VER:08$"),
			want: ec.Info{Project: "a", Version: "1.07", Size: 26},
		},
		{
			name: "empty",
			raw:  nil,
			want: ec.Info{Version: "1."},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			orig := append([]byte(nil), tc.raw...)
			img := ec.NewImage(tc.raw)
			if diff := cmp.Diff(tc.want, img.Info()); diff != "" {
				t.Fatalf("invalid image metadata: (-want +got)\n%s", diff)
			}
			if !bytes.Equal(tc.raw, orig) {
				t.Fatalf("image buffer was modified")
			}
		})
	}
}

func TestImageChecksum(t *testing.T) {
	img := ec.NewImage([]byte("123456789"))
	if got, want := img.Checksum(), uint16(0x31c3); got != want {
		t.Fatalf("invalid checksum: got=0x%04x, want=0x%04x", got, want)
	}
}
