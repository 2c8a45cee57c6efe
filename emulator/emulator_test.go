package emulator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/keys"
	"github.com/ezrec/chip8/vm"
)

// recordSink keeps every published frame.
type recordSink struct {
	mutex  sync.Mutex
	frames []vm.Frame
}

func (rs *recordSink) Publish(frame vm.Frame) {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()
	rs.frames = append(rs.frames, frame)
}

func (rs *recordSink) Frames() []vm.Frame {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()
	return rs.frames
}

func doAssemble(t *testing.T, emu *Emulator, program []string) {
	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	err = emu.Reset()
	if err != nil {
		t.Fatal(err)
	}
}

func doRun(t *testing.T, emu *Emulator, program []string) {
	assert := assert.New(t)

	doAssemble(t, emu, program)

	ctx := context.Background()
	for range 10000 {
		line := emu.LineNo()
		done, err := emu.Tick(ctx)
		if !assert.NoError(err, "line %v", line) {
			t.Log(emu.VM.String())
			t.FailNow()
		}
		if done {
			return
		}
	}

	t.Fatal("program did not finish")
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.VM)
	assert.NotNil(emu.Keyboard)
	assert.Equal(0, emu.Program.Len())
	assert.Equal(0, emu.LineNo())

	done, err := emu.Tick(context.Background())
	assert.NoError(err)
	assert.True(done)
}

func TestEmulator_Defines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	defines := map[string]string{}
	for name, value := range emu.Defines() {
		defines[name] = value
	}

	assert.Equal("60", defines["FRAME_RATE"])
	assert.Equal("0x200", defines["PROGRAM_START"])
	assert.Equal("0xa", defines["KEY_A"])
}

func TestEmulator_Counter(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"        LD V0, 0",
		"        LD V1, 5",
		"loop:   ADD V0, 3",
		"        ADD V1, -1",
		"        SE V1, 0",
		"        JP loop",
		"        CALL double",
		"        LD I, result",
		"        LD B, V0",
		"        LD V2, [I]",
		"halt:   JP halt",
		"double: ADD V0, V0",
		"        RET",
		"result: .byte 0 0 0",
	}

	doRun(t, emu, program)

	// 30 in BCD, then read back over V0 - V2.
	assert.Equal([]uint8{0, 3, 0}, emu.Memory[0x200:0x203])
	assert.Equal([]uint8{0, 3, 0}, emu.V[:3])
	assert.Equal(11, emu.LineNo())
	assert.True(emu.Stack.Empty())
}

func TestEmulator_Draw(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	sink := &recordSink{}
	emu.Sink = sink

	program := []string{
		"        LD V0, 4",
		"        LD V1, 5",
		"        LD I, sprite",
		"        DRW V0, V1, 2",
		"        LD V2, 0xa",
		"        LD F, V2",
		"        DRW V1, V1, 5",
		"sprite: .byte 0b11011000 0b01100100",
	}

	doRun(t, emu, program)

	frames := sink.Frames()
	// One on reset, one for each draw.
	assert.Len(frames, 3)
	assert.Equal(0, frames[0].Lit())
	assert.Equal(uint64(0b11011000)<<52, frames[1][5])
	assert.Equal(uint64(0b01100100)<<52, frames[1][6])
	assert.Equal(emu.Display, frames[2])
	assert.Equal(uint8(1), emu.V[vm.REG_VF])
}

func TestEmulator_Keys(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Keyboard.SetPressed(keys.KeyA)

	program := []string{
		"        LD V0, KEY_A",
		"        LD V1, 0",
		"        SKNP V0",
		"        LD V1, 1",
	}

	doRun(t, emu, program)

	assert.Equal(uint8(1), emu.V[1])
}

func TestEmulator_RuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"CLS",
		"",
		"RET",
	}
	doAssemble(t, emu, program)

	ctx := context.Background()
	done, err := emu.Tick(ctx)
	assert.NoError(err)
	assert.False(done)

	done, err = emu.Tick(ctx)
	assert.False(done)
	assert.ErrorIs(err, vm.ErrStackEmpty)

	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Equal(3, rt.LineNo)
	}
	assert.Equal(uint16(1), emu.PC)
}

func TestEmulator_AssembleError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	prog := emu.Program

	err := emu.Assemble(strings.NewReader("CLS\nBOGUS"))
	assert.ErrorIs(err, vm.ErrInstructionInvalid)
	assert.Same(prog, emu.Program)
}

func TestEmulator_Run(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	sink := &recordSink{}
	emu.Sink = sink

	program := []string{
		"        LD V0, 2",
		"        LD DT, V0",
		"wait:   LD V1, DT",
		"        SE V1, 0",
		"        JP wait",
		"        CLS",
	}
	doAssemble(t, emu, program)

	err := emu.Run(context.Background(), 4)
	assert.NoError(err)
	assert.Equal(uint8(0), emu.Delay)
	assert.Equal(0, emu.LineNo())

	// Reset, at least two timer frames, the CLS, and the final frame.
	assert.GreaterOrEqual(len(sink.Frames()), 5)
}

func TestEmulator_Run_Cancel(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"LD V0, K",
	}
	doAssemble(t, emu, program)

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		result <- emu.Run(ctx, DEFAULT_RATE)
	}()

	for !emu.Keyboard.Waiting() {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-result:
		assert.ErrorIs(err, context.Canceled)
		var rt *ErrRuntime
		if assert.True(errors.As(err, &rt)) {
			assert.Equal(1, rt.LineNo)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run was not cancelled")
	}
}

func TestEmulator_Run_WaitKey(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"LD V0, K",
		"LD V1, V0",
	}
	doAssemble(t, emu, program)

	result := make(chan error, 1)
	go func() {
		result <- emu.Run(context.Background(), DEFAULT_RATE)
	}()

	for !emu.Keyboard.Waiting() {
		time.Sleep(time.Millisecond)
	}
	emu.Keyboard.SetPressed(keys.Key7)

	select {
	case err := <-result:
		assert.NoError(err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish")
	}

	assert.Equal(uint8(7), emu.V[1])
}
