// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"time"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/keys"
	"github.com/ezrec/chip8/vm"
)

const (
	FRAME_RATE   = 60 // Timer ticks, and published frames, per second.
	DEFAULT_RATE = 10 // Instructions executed per frame.
)

var _emulator_defines = map[string]string{
	"FRAME_RATE": fmt.Sprintf("%v", FRAME_RATE),
}

// Emulator state. VM + program + display sink.
//
// The VM's keyboard is shared with the input producer.
type Emulator struct {
	Verbose bool         // If set, enables verbose logging.
	*vm.VM               // Reference to the VM.
	Program *vm.Program  // Reference to the currently running program listing.
	Sink    display.Sink // Receives frames, if set.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		VM:      vm.NewVM(),
		Program: &vm.Program{},
	}

	return
}

// Defines returns an iterator over all of the assembler predefines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.ConcatDefines(maps.All(_emulator_defines),
		emu.VM.Defines(),
		keys.Defines(),
	)
}

// Assemble parses the assembly text into the emulator's program.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &vm.Assembler{Verbose: emu.Verbose}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// Reset the VM, and load the program data.
func (emu *Emulator) Reset() (err error) {
	emu.VM.Verbose = emu.Verbose

	emu.VM.Reset()

	err = emu.Program.Load(emu.VM)
	if err != nil {
		return
	}

	emu.publish()

	return
}

// LineNo returns the source line number of the instruction at PC.
func (emu *Emulator) LineNo() int {
	op := emu.Program.Debug(emu.PC)
	if op == nil {
		return 0
	}

	return op.LineNo
}

// publish sends the display to the sink, if any.
func (emu *Emulator) publish() {
	if emu.Sink == nil {
		return
	}

	emu.Sink.Publish(emu.Display)
}

// Tick performs a single instruction of the emulator.
//
// done is set when PC has left the program, or the instruction at PC is a
// jump to itself.
func (emu *Emulator) Tick(ctx context.Context) (done bool, err error) {
	// Set VM verbosity
	emu.VM.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	instr, ok := emu.Program.Fetch(emu.PC)
	if !ok {
		if emu.Verbose {
			log.Printf("emulator: %03x: end of program", emu.PC)
		}
		done = true
		return
	}

	if instr.Op == vm.OP_JP && instr.Addr == emu.PC {
		if emu.Verbose {
			log.Printf("emulator: %03x: halted", emu.PC)
		}
		done = true
		return
	}

	err = emu.VM.ExecuteContext(ctx, instr)
	if err != nil {
		return
	}

	if instr.Op.Draws() {
		emu.publish()
	}

	return
}

// Run executes rate instructions per frame, at FRAME_RATE frames per second,
// ticking the timers and publishing the display once per frame.
//
// Run returns nil when the program is done, or the first error.
func (emu *Emulator) Run(ctx context.Context, rate int) (err error) {
	if rate <= 0 {
		rate = DEFAULT_RATE
	}

	ticker := time.NewTicker(time.Second / FRAME_RATE)
	defer ticker.Stop()

	for {
		for range rate {
			var done bool
			done, err = emu.Tick(ctx)
			if err != nil {
				return
			}
			if done {
				emu.publish()
				return
			}
		}

		emu.VM.TickTimers()
		emu.publish()

		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		case <-ticker.C:
		}
	}
}
