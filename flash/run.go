// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flash

import (
	"errors"
	"fmt"

	"github.com/go-lpc/fwup/ec"
	"golang.org/x/sync/errgroup"
)

// Validation classifies a candidate image found on the boot volume.
type Validation int

const (
	Found Validation = iota
	Mismatch
	NotFound
	LoadFailed
)

func (v Validation) String() string {
	switch v {
	case Found:
		return "Found"
	case Mismatch:
		return "Mismatch"
	case NotFound:
		return "NotFound"
	case LoadFailed:
		return "Error"
	}
	return fmt.Sprintf("Validation(%d)", int(v))
}

// Candidate is a firmware update candidate.
type Candidate struct {
	Name       string   // "BIOS", "EC" or "EC2"
	Path       string   // boot volume path of the image
	Instance   Instance // EC holding the project the image must match
	Validation Validation
	Err        error // load error, for LoadFailed
}

// Discovery holds the candidates found on the boot volume.
type Discovery struct {
	BIOS Candidate
	EC   Candidate
	EC2  Candidate
}

// Any reports whether at least one candidate was found.
func (d Discovery) Any() bool {
	return d.BIOS.Validation == Found ||
		d.EC.Validation == Found ||
		d.EC2.Validation == Found
}

// Discover loads the BIOS, EC and EC2 images and checks that their
// project matches the one of the attached controllers.
//
// Images are loaded concurrently. Controllers are queried sequentially.
func (u *Updater) Discover() Discovery {
	cands := []*Candidate{
		{Name: "BIOS", Path: BIOSImage, Instance: Primary},
		{Name: "EC", Path: Primary.ROM(), Instance: Primary},
		{Name: "EC2", Path: Secondary.ROM(), Instance: Secondary},
	}

	var (
		grp  errgroup.Group
		raws = make([][]byte, len(cands))
		errs = make([]error, len(cands))
	)
	for i, c := range cands {
		i, path := i, c.Path
		grp.Go(func() error {
			// a missing image must not prevent loading the others.
			raws[i], errs[i] = u.vol.Load(path)
			return nil
		})
	}
	_ = grp.Wait()

	for i, c := range cands {
		c.Validation = u.validate(c, raws[i], errs[i])
		u.msg.Printf("%s Update: %v", c.Name, c.Validation)
	}

	return Discovery{BIOS: *cands[0], EC: *cands[1], EC2: *cands[2]}
}

func (u *Updater) validate(c *Candidate, raw []byte, err error) Validation {
	switch {
	case err == nil:
	case errors.Is(err, ErrImageNotFound):
		return NotFound
	default:
		c.Err = err
		return LoadFailed
	}

	drv, err := u.ecs.Open(c.Instance)
	if err != nil {
		return Mismatch
	}
	defer closeDriver(drv)

	info, err := ec.NewDevice(c.Instance.String(), drv).Info()
	if err != nil || info.Project != ec.NewImage(raw).Project() {
		return Mismatch
	}
	return Found
}

// Result is the outcome of one firmware update of a run.
type Result struct {
	Name    string
	Outcome Outcome // EC updates only
	Err     error
}

// Report summarizes a run.
type Report struct {
	Discovery Discovery
	Started   bool // operator confirmed the run
	Results   []Result
}

// Run discovers the available updates and, once the operator presses
// Enter, applies them in order: BIOS, EC then EC2.
// A failed update does not prevent the next ones.
func (u *Updater) Run() (Report, error) {
	rep := Report{Discovery: u.Discover()}
	if !rep.Discovery.Any() {
		u.msg.Printf("No updates found.")
		return rep, nil
	}

	u.msg.Printf("Press enter to commence flashing")
	c, err := u.kbd.WaitKey()
	if err != nil {
		return rep, fmt.Errorf("flash: could not read key: %w", err)
	}
	if c != '\n' && c != '\r' {
		return rep, nil
	}
	rep.Started = true

	if rep.Discovery.BIOS.Validation == Found {
		res := Result{Name: "BIOS", Err: u.flashBIOS()}
		rep.Results = append(rep.Results, res)
	}

	for _, cand := range []Candidate{rep.Discovery.EC, rep.Discovery.EC2} {
		if cand.Validation != Found {
			continue
		}
		out, err := u.UpdateEC(cand.Instance)
		res := Result{Name: cand.Name, Outcome: out, Err: err}
		rep.Results = append(rep.Results, res)
	}

	return rep, nil
}

func (u *Updater) flashBIOS() error {
	if u.bios == nil {
		return fmt.Errorf("flash: BIOS updates not supported")
	}
	return u.bios.Flash()
}
