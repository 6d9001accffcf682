// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command fwup updates the embedded controllers and the BIOS of a laptop
// from the firmware images stored on a boot volume.
//
// This is really dangerous: a failed EC flash may lock up the machine
// until its battery is fully drained, and there is no rollback.
package main // import "github.com/go-lpc/fwup/cmd/fwup"

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/go-lpc/fwup"
	"github.com/go-lpc/fwup/bios"
	"github.com/go-lpc/fwup/ec"
	"github.com/go-lpc/fwup/flash"
	"github.com/go-lpc/fwup/internal/bootvol"
	"github.com/go-lpc/fwup/internal/console"
)

type cli struct {
	Root   string `help:"mount point of the boot volume." default:"/boot/efi"`
	Shell  string `help:"interpreter of the firmware update script." default:"/bin/sh"`
	Sim    bool   `help:"drive simulated embedded controllers instead of the hardware."`
	Reboot bool   `help:"cold reboot the machine once done."`

	Flash   flashCmd   `cmd:"" default:"1" help:"discover and apply firmware updates."`
	EC      ecCmd      `cmd:"" name:"ec" help:"print the metadata of the embedded controllers."`
	Menu    menuCmd    `cmd:"" help:"run the interactive command menu."`
	Version versionCmd `cmd:"" help:"print the version of fwup."`
}

func main() {
	log.SetPrefix("fwup: ")
	log.SetFlags(0)

	err := run(os.Args[1:], os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(args []string, stdin *os.File, stdout io.Writer) error {
	var cli cli
	parser, err := kong.New(&cli,
		kong.Name("fwup"),
		kong.Description("EC and BIOS firmware updater."),
		kong.Writers(stdout, stdout),
		kong.UsageOnError(),
	)
	if err != nil {
		return fmt.Errorf("could not create command line parser: %w", err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	return ctx.Run(newEnv(&cli, stdin, stdout))
}

// env holds the services shared by the commands.
type env struct {
	out    io.Writer
	kbd    *console.Keyboard
	vol    *bootvol.Volume
	ecs    flash.Opener
	shell  string
	reboot bool
	stall  func(time.Duration)
}

func newEnv(cli *cli, stdin *os.File, stdout io.Writer) *env {
	vol := bootvol.New(cli.Root)
	env := &env{
		out:    stdout,
		kbd:    console.NewKeyboard(stdin),
		vol:    vol,
		ecs:    portOpener{},
		shell:  cli.Shell,
		reboot: cli.Reboot,
		stall:  time.Sleep,
	}
	if cli.Sim {
		env.ecs = newSimOpener(vol)
		env.stall = func(time.Duration) {}
	}
	return env
}

func (env *env) updater() *flash.Updater {
	script := bios.New(env.vol, env.shell)
	script.Stdout = env.out
	script.Stderr = env.out

	return flash.New(env.ecs, env.vol, env.kbd,
		flash.WithOutput(env.out),
		flash.WithStall(env.stall),
		flash.WithBIOS(script),
	)
}

type flashCmd struct{}

func (cmd *flashCmd) Run(env *env) error {
	err := env.flash()
	if err != nil {
		return err
	}
	return env.exit()
}

func (env *env) flash() error {
	console.Banner(env.out, 80)

	rep, err := env.updater().Run()
	if err != nil {
		return err
	}
	for _, res := range rep.Results {
		console.Status(env.out, "Flashing "+res.Name, res.Err)
	}
	return nil
}

func (env *env) exit() error {
	if !env.reboot {
		return nil
	}

	fmt.Fprintln(env.out, "Press any key to exit")
	_, err := env.kbd.WaitKey()
	if err != nil {
		return err
	}
	return reset()
}

type ecCmd struct{}

func (cmd *ecCmd) Run(env *env) error {
	return env.info()
}

func (env *env) info() error {
	for _, inst := range []flash.Instance{flash.Primary, flash.Secondary} {
		drv, err := env.ecs.Open(inst)
		if err != nil {
			fmt.Fprintf(env.out, "%v: Failed to open device: %v\n", inst, err)
			continue
		}
		info, err := ec.NewDevice(inst.String(), drv).Info()
		if c, ok := drv.(io.Closer); ok {
			_ = c.Close()
		}
		if err != nil {
			return fmt.Errorf("could not query %v: %w", inst, err)
		}
		fmt.Fprintf(env.out, "%v: %s %s %d\n", inst, info.Project, info.Version, info.Size)
	}
	return nil
}

type menuCmd struct{}

func (cmd *menuCmd) Run(env *env) error {
	term := console.NewLiner()
	defer term.Close()

	err := console.Menu(env.out, term, []console.Command{
		{Name: "flash", Run: env.flash},
		{Name: "ec", Run: env.info},
	})
	if err != nil {
		return err
	}
	return env.exit()
}

type versionCmd struct{}

func (cmd *versionCmd) Run(env *env) error {
	vers, sum := fwup.Version()
	if vers == "" {
		vers = "(devel)"
	}
	fmt.Fprintf(env.out, "fwup %s %s\n", vers, sum)
	return nil
}
