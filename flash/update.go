// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flash

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/go-lpc/fwup/ec"
)

// Outcome is the result of the update of one EC instance.
type Outcome struct {
	Instance Instance
	State    State

	Device ec.Info // live metadata before the update
	Image  ec.Info // metadata of the candidate image
	Final  ec.Info // live metadata after a successful update
}

// job holds the state of the update of one EC instance.
type job struct {
	inst  Instance
	msg   *log.Logger
	state State

	dev *ec.Device
	img *ec.Image
	f   *ec.Flasher

	drv ec.Driver

	live    ec.Info // device, before unlock
	current ec.Info // flash content read back before erase
	final   ec.Info // device, after a successful update
}

// UpdateEC updates the firmware of the EC instance inst.
//
// A missing ROM file, an up-to-date device or an operator declining the
// update are not errors. Any other failure moves the update to the
// Failed state, except guard mismatches which abort it.
func (u *Updater) UpdateEC(inst Instance) (Outcome, error) {
	j := &job{
		inst:  inst,
		msg:   u.logger(inst.String()),
		state: Idle,
	}

	err := u.run(j)
	out := Outcome{
		Instance: inst,
		State:    j.state,
		Device:   j.live,
	}
	if j.img != nil {
		out.Image = j.img.Info()
	}
	if j.state == Done {
		out.Final = j.final
	}
	return out, err
}

func (u *Updater) run(j *job) error {
	j.state = GuardChecking
	next, err := u.guard(j)
	if j.drv != nil {
		defer closeDriver(j.drv)
	}
	if err != nil {
		j.state = next
		return err
	}
	if next != GuardChecking {
		j.state = next
		return nil
	}

	for _, stage := range []struct {
		state State
		exec  func(*job) error
	}{
		{Unlocked, u.unlock},
		{ReadVerified, u.readVerify},
		{EraseVerified, u.eraseVerify},
		{WriteVerified, u.writeVerify},
	} {
		err = stage.exec(j)
		if err != nil {
			if j.f != nil {
				_ = j.f.Close()
			}
			j.state = Failed
			return err
		}
		j.state = stage.state
	}

	err = j.f.Close()
	if err != nil {
		j.state = Failed
		return fmt.Errorf("flash: could not release %s: %w", j.inst, err)
	}

	j.final, err = j.dev.Info()
	if err != nil {
		j.state = Failed
		return fmt.Errorf("flash: could not query %s: %w", j.inst, err)
	}
	j.msg.Printf("EC %s %s %d", j.final.Project, j.final.Version, j.final.Size)
	j.state = Done

	return nil
}

// guard opens the device, loads the candidate image and checks that the
// update applies. It returns GuardChecking when the update may proceed.
func (u *Updater) guard(j *job) (State, error) {
	j.msg.Printf("Opening device")
	drv, err := u.ecs.Open(j.inst)
	if err != nil {
		j.msg.Printf("Failed to open device: %v", err)
		return Failed, fmt.Errorf("flash: could not open %s: %w", j.inst, err)
	}
	j.drv = drv
	j.dev = ec.NewDevice(j.inst.String(), drv)

	j.live, err = j.dev.Info()
	if err != nil {
		return Failed, fmt.Errorf("flash: could not query %s: %w", j.inst, err)
	}
	j.msg.Printf("EC %s %s %d", j.live.Project, j.live.Version, j.live.Size)

	j.msg.Printf("Opening ROM file")
	raw, err := u.vol.Load(j.inst.ROM())
	if err != nil {
		if errors.Is(err, ErrImageNotFound) {
			j.msg.Printf("No ROM file")
			return NoImage, nil
		}
		j.msg.Printf("Failed to open ROM file: %v", err)
		return Failed, &ImageLoadError{Path: j.inst.ROM(), Err: err}
	}
	j.img = ec.NewImage(raw)
	img := j.img.Info()
	j.msg.Printf("New %s %s %d (crc 0x%04x)", img.Project, img.Version, img.Size, j.img.Checksum())

	if img.Size != j.live.Size {
		j.msg.Printf("New size mismatch: %d != %d", img.Size, j.live.Size)
		return Aborted, sizeMismatch("guard", j.live.Size, img.Size, false)
	}

	if img.Project != j.live.Project {
		j.msg.Printf("New project mismatch: %q != %q", img.Project, j.live.Project)
		return Aborted, mismatch("guard", "project", j.live.Project, img.Project, false)
	}

	if img.Version == j.live.Version {
		j.msg.Printf("Up to date")
		return UpToDate, nil
	}

	j.msg.Printf("Press any key to flash %s %s, Esc to cancel", img.Version, j.inst)
	c, err := u.kbd.WaitKey()
	if err != nil {
		return Failed, fmt.Errorf("flash: could not read confirmation: %w", err)
	}
	switch c {
	case 0x03, 0x04, 0x1b, 'n', 'N', 'q', 'Q': // Ctrl-C, Ctrl-D, Esc
		j.msg.Printf("Cancelled")
		return Aborted, nil
	}

	return GuardChecking, nil
}

func (u *Updater) unlock(j *job) error {
	f, err := ec.Unlock(j.dev, u.flashOpts()...)
	if err != nil {
		j.msg.Printf("Failed to unlock")
		return &UnlockError{Err: err}
	}
	j.f = f
	return nil
}

// readAll reads back the whole flash content.
func (u *Updater) readAll(j *job, stage string) ([]byte, error) {
	buf := make([]byte, j.f.Size())
	err := j.f.Read(buf)
	if err != nil {
		j.msg.Printf("Failed to %s", stage)
		return nil, &StageError{Stage: stage, Err: err}
	}
	return buf, nil
}

func (u *Updater) readVerify(j *job) error {
	j.msg.Printf("Reading current data")
	buf, err := u.readAll(j, "read")
	if err != nil {
		return err
	}

	var (
		snap = j.f.Info()
		img  = j.img.Info()
	)
	j.current = ec.NewImage(buf).Info()
	cur := j.current
	j.msg.Printf("Current %s %s %d", cur.Project, cur.Version, cur.Size)

	for _, chk := range []error{
		sizeMismatch("read", snap.Size, cur.Size, false),
		sizeMismatch("read", img.Size, cur.Size, false),
		mismatch("read", "project", snap.Project, cur.Project, false),
		mismatch("read", "project", img.Project, cur.Project, false),
		mismatch("read", "version", snap.Version, cur.Version, false),
		mismatch("read", "version", img.Version, cur.Version, true),
	} {
		if chk != nil {
			j.msg.Printf("Current %s mismatch", chk.(*MismatchError).Field)
			return chk
		}
	}
	return nil
}

func (u *Updater) eraseVerify(j *job) error {
	j.msg.Printf("Erasing current data")
	err := j.f.Erase()
	if err != nil {
		j.msg.Printf("Failed to erase current data")
		return &StageError{Stage: "erase", Err: err}
	}

	j.msg.Printf("Verifying erase")
	buf, err := u.readAll(j, "verify erase")
	if err != nil {
		return err
	}

	for i, v := range buf {
		if v != 0xff {
			j.msg.Printf("Failed to verify erase: %X", v)
			return &EraseVerifyError{Offset: i, Value: v}
		}
	}
	return nil
}

func (u *Updater) writeVerify(j *job) error {
	j.msg.Printf("Writing new data")
	err := j.f.Write(j.img.Bytes())
	if err != nil {
		j.msg.Printf("Failed to write new data")
		return &StageError{Stage: "write", Err: err}
	}

	j.msg.Printf("Verifying write")
	buf, err := u.readAll(j, "verify write")
	if err != nil {
		return err
	}

	var (
		snap = j.f.Info()
		cur  = j.current
		img  = j.img.Info()
		ver  = ec.NewImage(buf).Info()
	)
	j.msg.Printf("Verify %s %s %d", ver.Project, ver.Version, ver.Size)

	for _, chk := range []error{
		sizeMismatch("verify", snap.Size, ver.Size, false),
		sizeMismatch("verify", cur.Size, ver.Size, false),
		sizeMismatch("verify", img.Size, ver.Size, false),
		mismatch("verify", "project", snap.Project, ver.Project, false),
		mismatch("verify", "project", cur.Project, ver.Project, false),
		mismatch("verify", "project", img.Project, ver.Project, false),
		mismatch("verify", "version", snap.Version, ver.Version, true),
		mismatch("verify", "version", cur.Version, ver.Version, true),
		mismatch("verify", "version", img.Version, ver.Version, false),
	} {
		if chk != nil {
			err := chk.(*MismatchError)
			j.msg.Printf("Verify %s mismatch", err.Field)
			return &WriteVerifyError{Err: err}
		}
	}
	return nil
}

// mismatch returns a *MismatchError when got does not match want.
// With differ set, got must differ from want.
func mismatch(stage, field, want, got string, differ bool) error {
	if (got == want) != differ {
		return nil
	}
	return &MismatchError{
		Stage:  stage,
		Field:  field,
		Want:   want,
		Got:    got,
		Differ: differ,
	}
}

func sizeMismatch(stage string, want, got int, differ bool) error {
	return mismatch(stage, "size", strconv.Itoa(want), strconv.Itoa(got), differ)
}
