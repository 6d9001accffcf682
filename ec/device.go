// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ec

// Device is a live embedded controller reachable through a Driver.
//
// A Device may be owned by at most one Flasher at a time.
// While owned, its metadata cannot be queried.
type Device struct {
	name  string
	drv   Driver
	owned bool
}

// NewDevice returns a device named name (e.g. "EC", "EC2") driven by drv.
func NewDevice(name string, drv Driver) *Device {
	return &Device{name: name, drv: drv}
}

// Name returns the name of the device.
func (dev *Device) Name() string { return dev.name }

// Info queries the live project, version and size of the device.
// Values are read from the hardware on each call.
func (dev *Device) Info() (Info, error) {
	if dev.owned {
		return Info{}, ErrBusy
	}
	return Info{
		Project: dev.drv.Project(),
		Version: dev.drv.Version(),
		Size:    dev.drv.Size(),
	}, nil
}

func (dev *Device) acquire() (Driver, error) {
	if dev.owned {
		return nil, ErrBusy
	}
	dev.owned = true
	return dev.drv, nil
}

func (dev *Device) release() {
	dev.owned = false
}
