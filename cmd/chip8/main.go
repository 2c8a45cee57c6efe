// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/term"
)

func main() {
	var compile string
	var rate int
	var verbose bool
	var listing bool
	var defines bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble and run")
	flag.IntVar(&rate, "r", emulator.DEFAULT_RATE, "Instructions per 60Hz frame")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&listing, "l", false, "List the assembled program, do not execute")
	flag.BoolVar(&defines, "D", false, "List the assembler predefines")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	if defines {
		names, values := internal.SortedDefines(emu.Defines())
		for _, name := range names {
			fmt.Printf("%-16v %v\n", name, values[name])
		}
		return
	}

	if len(compile) == 0 {
		log.Fatalf("%v: no program, use -c FILE", os.Args[0])
	}

	inf, err := os.Open(compile)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	err = emu.Assemble(inf)
	inf.Close()
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	if listing {
		err = emu.Program.Listing(os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	latest := display.NewLatest()
	emu.Sink = latest

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	err = run(emu, latest, rate)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}
}

// run runs the emulator on the terminal until the user quits, or the
// program fails.
func run(emu *emulator.Emulator, latest *display.Latest, rate int) (err error) {
	fd := int(os.Stdin.Fd())

	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer func() {
		restore_err := term.Restore(fd, state)
		if restore_err != nil {
			log.Printf("term: %v", restore_err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	input := &term.Input{Keyboard: emu.Keyboard}
	defer input.Stop()

	go func() {
		defer cancel()
		err := input.Run(os.Stdin)
		if err != nil {
			log.Printf("input: %v", err)
		}
	}()

	painted := make(chan error, 1)
	go func() {
		painted <- term.Paint(ctx, os.Stdout, latest.Frames())
	}()

	err = emu.Run(ctx, rate)
	if err == nil {
		// Finished, leave the display up until the user quits.
		<-ctx.Done()
	}

	cancel()
	paint_err := <-painted

	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err == nil {
		err = paint_err
	}

	return
}
