// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/go-lpc/fwup/ec"
	"github.com/go-lpc/fwup/ec/ecsim"
	"github.com/go-lpc/fwup/flash"
	"github.com/go-lpc/fwup/internal/bootvol"
)

// portOpener opens the hardware embedded controllers.
type portOpener struct{}

func (portOpener) Open(inst flash.Instance) (ec.Driver, error) {
	p, err := ec.OpenPort(inst == flash.Primary)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// simOpener opens simulated embedded controllers, created on first use
// from the ROM files of the volume with an outdated version.
type simOpener struct {
	vol *bootvol.Volume
	ecs map[flash.Instance]*ecsim.EC
}

func newSimOpener(vol *bootvol.Volume) *simOpener {
	return &simOpener{
		vol: vol,
		ecs: make(map[flash.Instance]*ecsim.EC),
	}
}

func (o *simOpener) Open(inst flash.Instance) (ec.Driver, error) {
	if sim, ok := o.ecs[inst]; ok {
		return sim, nil
	}

	raw, err := o.vol.Load(inst.ROM())
	if err != nil {
		return nil, fmt.Errorf("could not create simulated %v: %w", inst, err)
	}
	img := ec.NewImage(raw)
	if img.Size() == 0 || img.Size()%ec.BlockSize != 0 {
		return nil, fmt.Errorf("could not create simulated %v: invalid ROM size %d", inst, img.Size())
	}

	sim := ecsim.New(ecsim.Image(img.Project(), "00", img.Size()))
	o.ecs[inst] = sim
	return sim, nil
}
