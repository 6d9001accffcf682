// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flash

import "fmt"

// State is the state of the update of one EC instance.
type State int

const (
	Idle State = iota
	GuardChecking
	UpToDate
	NoImage
	Aborted
	Unlocked
	ReadVerified
	EraseVerified
	WriteVerified
	Done
	Failed
)

var stateNames = [...]string{
	Idle:          "idle",
	GuardChecking: "guard-checking",
	UpToDate:      "up-to-date",
	NoImage:       "no-image",
	Aborted:       "aborted",
	Unlocked:      "unlocked",
	ReadVerified:  "read-verified",
	EraseVerified: "erase-verified",
	WriteVerified: "write-verified",
	Done:          "done",
	Failed:        "failed",
}

func (st State) String() string {
	if st < 0 || int(st) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(st))
	}
	return stateNames[st]
}

// Terminal reports whether no transition leaves st.
func (st State) Terminal() bool {
	switch st {
	case UpToDate, NoImage, Aborted, Done, Failed:
		return true
	}
	return false
}

// Instance selects one of the two embedded controllers.
type Instance int

const (
	Primary Instance = iota
	Secondary
)

func (inst Instance) String() string {
	switch inst {
	case Primary:
		return "EC"
	case Secondary:
		return "EC2"
	}
	return fmt.Sprintf("Instance(%d)", int(inst))
}

// ROM returns the boot volume path of the firmware image of inst.
func (inst Instance) ROM() string {
	if inst == Secondary {
		return `\system76-firmware-update\firmware\ec2.rom`
	}
	return `\system76-firmware-update\firmware\ec.rom`
}

// BIOSImage is the boot volume path of the BIOS image.
const BIOSImage = `\system76-firmware-update\firmware\bios.rom`
