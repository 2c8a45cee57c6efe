package vm

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/keys"
)

func FuzzVM(f *testing.F) {
	for op := range Op(OP_COUNT + 1) {
		f.Add(uint8(op), uint8(1), uint8(2), uint8(0x34), uint16(0x567), uint8(5), uint16(0x300))
		f.Add(uint8(op), uint8(0xf), uint8(0xf), uint8(0xf0), uint16(0xfff), uint8(0xf), uint16(0xffe))
	}

	f.Fuzz(func(t *testing.T, op, x, y, imm uint8, addr uint16, n uint8, index uint16) {
		assert := assert.New(t)

		vm := NewVM()
		vm.Rand = &stepSource{value: 0x1234, step: 7}
		for r := range vm.V {
			vm.V[r] = uint8(r * 17)
		}
		vm.I = index
		vm.PC = 0x20
		vm.Delay = 9
		vm.Sound = 3
		vm.Display[3] = 0x5555_aaaa_5555_aaaa
		vm.Keyboard.SetPressed(keys.Key5)
		for depth := range min(int(imm>>4), STACK_LIMIT-1) {
			assert.NoError(vm.Stack.Push(uint16(depth * 0x10)))
		}
		for m := range 0x20 {
			vm.Memory[0x300+m] = uint8(m * 3)
		}

		instr := Instruction{Op: Op(op), X: x, Y: y, Byte: imm, Addr: addr, N: n}
		text := fmt.Sprintf("%v %#v", instr, instr)

		before := *vm

		// Never block on LD Vx, K.
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := vm.ExecuteContext(ctx, instr)
		if err != nil {
			assert.ErrorIs(err, ErrInstruction{}, text)
			assert.Equal(before.PC, vm.PC, text)
			assert.Equal(before.I, vm.I, text)
			assert.Equal(before.V, vm.V, text)
			assert.Equal(before.Stack, vm.Stack, text)
			assert.Equal(before.Display, vm.Display, text)
			assert.Equal(before.Memory, vm.Memory, text)
			assert.Equal(before.Delay, vm.Delay, text)
			assert.Equal(before.Sound, vm.Sound, text)
			assert.Equal(before.Ticks, vm.Ticks, text)
			return
		}

		assert.NoError(instr.Validate(), text)
		assert.Equal(before.Ticks+1, vm.Ticks, text)

		switch {
		case instr.Op.Jumps():
		case instr.Op.Skips():
			assert.True(vm.PC == before.PC+1 || vm.PC == before.PC+2, text)
		default:
			assert.Equal(before.PC+1, vm.PC, text)
		}

		if !instr.Op.Draws() {
			assert.Equal(before.Display, vm.Display, text)
		}

		if !instr.Op.Jumps() && instr.Op != OP_CALL {
			assert.Equal(before.Stack, vm.Stack, text)
		}
	})
}
