// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flash

import (
	"fmt"
	"io"
	"time"

	"github.com/go-lpc/fwup/ec"
	"github.com/go-lpc/fwup/ec/ecsim"
)

const size = 2 * ec.BlockSize

type fakeOpener struct {
	drvs  map[Instance]ec.Driver
	opens int
}

func (o *fakeOpener) Open(inst Instance) (ec.Driver, error) {
	o.opens++
	drv, ok := o.drvs[inst]
	if !ok {
		return nil, fmt.Errorf("no such device %v: %w", inst, ec.ErrHardware)
	}
	return drv, nil
}

type fakeVolume struct {
	files map[string][]byte
	errs  map[string]error
}

func (vol *fakeVolume) Load(name string) ([]byte, error) {
	if err, ok := vol.errs[name]; ok {
		return nil, err
	}
	raw, ok := vol.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, name)
	}
	return append([]byte(nil), raw...), nil
}

type fakeKeys struct {
	keys []rune
	n    int
}

func (kbd *fakeKeys) WaitKey() (rune, error) {
	if kbd.n >= len(kbd.keys) {
		return 0, io.EOF
	}
	c := kbd.keys[kbd.n]
	kbd.n++
	return c, nil
}

type fakeBIOS struct {
	calls int
	err   error
}

func (b *fakeBIOS) Flash() error {
	b.calls++
	return b.err
}

// liar reports a fixed live version, whatever the flash content.
type liar struct {
	*ecsim.EC
	version string
}

func (drv liar) Version() string { return drv.version }

// bitRot replaces every '7' written to the flash with a '6'.
type bitRot struct {
	*ecsim.EC
}

func (drv bitRot) Write(v byte) error {
	if v == '7' {
		v = '6'
	}
	return drv.EC.Write(v)
}

func noStall(time.Duration) {}

type fixture struct {
	sim *ecsim.EC
	ecs *fakeOpener
	vol *fakeVolume
	kbd *fakeKeys
	out io.Writer
}

func newFixture(dev, img []byte, keys ...rune) *fixture {
	fx := &fixture{
		sim: ecsim.New(dev),
		vol: &fakeVolume{files: make(map[string][]byte)},
		kbd: &fakeKeys{keys: keys},
		out: io.Discard,
	}
	fx.ecs = &fakeOpener{drvs: map[Instance]ec.Driver{Primary: fx.sim}}
	if img != nil {
		fx.vol.files[Primary.ROM()] = img
	}
	return fx
}

func (fx *fixture) updater(opts ...Option) *Updater {
	opts = append([]Option{WithOutput(fx.out), WithStall(noStall)}, opts...)
	return New(fx.ecs, fx.vol, fx.kbd, opts...)
}
