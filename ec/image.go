// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ec

import (
	"bytes"

	"github.com/sigurn/crc16"
)

var (
	prjKey = []byte("PRJ:")
	verKey = []byte("VER:")

	crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)
)

// Image is a read-only view of an EC firmware image.
//
// Metadata is extracted from the raw bytes on each call and never fails:
// a malformed image yields empty or garbage metadata.
type Image struct {
	raw []byte
}

// NewImage returns an image backed by raw.
// The caller must not modify raw afterwards.
func NewImage(raw []byte) *Image {
	return &Image{raw: raw}
}

// Bytes returns the raw content of the image.
func (img *Image) Bytes() []byte { return img.raw }

// Size returns the size in bytes of the image.
func (img *Image) Size() int { return len(img.raw) }

// Project returns the project identifier stored in the image.
func (img *Image) Project() string {
	return field(img.raw, prjKey)
}

// Version returns the firmware version stored in the image.
func (img *Image) Version() string {
	return "1." + field(img.raw, verKey)
}

// Info returns the metadata of the image.
func (img *Image) Info() Info {
	return Info{
		Project: img.Project(),
		Version: img.Version(),
		Size:    img.Size(),
	}
}

// Checksum returns the CRC-16/XMODEM of the image content.
func (img *Image) Checksum() uint16 {
	return crc16.Checksum(img.raw, crcTable)
}

// field returns the bytes following the first occurrence of key,
// up to the '$' terminator or the end of the buffer.
func field(raw, key []byte) string {
	i := bytes.Index(raw, key)
	if i < 0 {
		return ""
	}
	v := raw[i+len(key):]
	if j := bytes.IndexByte(v, '$'); j >= 0 {
		v = v[:j]
	}
	return string(v)
}
