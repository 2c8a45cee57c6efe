package vm

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand/v2"

	"github.com/ezrec/chip8/keys"
)

const (
	RAM_SIZE       = 0x1000 // Bytes of addressable memory.
	PROGRAM_START  = 0x200  // First address available to programs.
	REGISTER_COUNT = 16     // General purpose registers V0 - VF.
	REG_VF         = 0xf    // Flag register.
)

var _vm_defines = map[string]string{
	"RAM_SIZE":       fmt.Sprintf("%#x", RAM_SIZE),
	"PROGRAM_START":  fmt.Sprintf("%#x", PROGRAM_START),
	"FONT_START":     fmt.Sprintf("%#x", FONT_START),
	"DISPLAY_WIDTH":  fmt.Sprintf("%v", DISPLAY_WIDTH),
	"DISPLAY_HEIGHT": fmt.Sprintf("%v", DISPLAY_HEIGHT),
}

// Source is a source of random numbers for RND.
type Source interface {
	Uint32() uint32
}

// globalSource draws from the automatically seeded math/rand/v2 generator.
type globalSource struct{}

func (globalSource) Uint32() uint32 {
	return rand.Uint32()
}

// VM is the machine state: memory, registers, stack and display, plus the
// keyboard it reads and the random source it draws from.
//
// A VM is owned by a single goroutine. Only the Keyboard may be shared.
type VM struct {
	Verbose bool // Set to enable verbose logging.

	Memory  [RAM_SIZE]uint8       // Main memory.
	Stack   Stack                 // Return address stack.
	Display Frame                 // Framebuffer.
	V       [REGISTER_COUNT]uint8 // General purpose registers.
	I       uint16                // Index register.
	PC      uint16                // Program counter, an instruction index.
	Delay   uint8                 // Delay timer.
	Sound   uint8                 // Sound timer.

	Ticks int // Instructions executed since reset.

	Rand     Source         // Random source for RND.
	Keyboard *keys.Keyboard // Keypad for SKP, SKNP and LD Vx, K.
}

// NewVM creates a VM with a fresh keyboard, in its reset state.
func NewVM() (vm *VM) {
	vm = &VM{
		Rand:     globalSource{},
		Keyboard: keys.NewKeyboard(),
	}

	vm.Reset()

	return
}

// Defines returns the assembler equates for the machine layout.
func (vm *VM) Defines() iter.Seq2[string, string] {
	return maps.All(_vm_defines)
}

// Reset the VM state.
// - Clears memory, then loads the digit sprites.
// - Clears registers, timers, stack and display.
// - Sets PC to the first instruction.
//
// The keyboard is left alone.
func (vm *VM) Reset() {
	if vm.Verbose {
		log.Printf("vm: reset")
	}

	clear(vm.Memory[:])
	vm.loadFont()
	vm.Stack.Reset()
	vm.Display.Clear()
	clear(vm.V[:])
	vm.I = 0
	vm.PC = 0
	vm.Delay = 0
	vm.Sound = 0
	vm.Ticks = 0
}

// String returns the current register state as a string.
func (vm *VM) String() (text string) {
	text += fmt.Sprintf("%5s: %03x\n", "pc", vm.PC)
	text += fmt.Sprintf("%5s: %03x\n", "i", vm.I)
	for n, value := range vm.V {
		text += fmt.Sprintf("%5s: %02x\n", fmt.Sprintf("v%x", n), value)
	}
	text += fmt.Sprintf("%5s: %02x\n", "dt", vm.Delay)
	text += fmt.Sprintf("%5s: %02x\n", "st", vm.Sound)
	if addr, ok := vm.Stack.Peek(); ok {
		text += fmt.Sprintf("%5s: %x:%03x\n", "stack", vm.Stack.SP, addr)
	} else {
		text += fmt.Sprintf("%5s: -:---\n", "stack")
	}

	return
}

// TickTimers counts the delay and sound timers down by one, stopping at zero.
// Call it at 60Hz.
func (vm *VM) TickTimers() {
	if vm.Delay > 0 {
		vm.Delay--
	}
	if vm.Sound > 0 {
		vm.Sound--
	}
}

// Sounding returns true while the sound timer is running.
func (vm *VM) Sounding() bool {
	return vm.Sound > 0
}

// keyboard returns the VM's keyboard, attaching one if there is none.
func (vm *VM) keyboard() *keys.Keyboard {
	if vm.Keyboard == nil {
		vm.Keyboard = keys.NewKeyboard()
	}
	return vm.Keyboard
}

// random returns the VM's random source, attaching one if there is none.
func (vm *VM) random() Source {
	if vm.Rand == nil {
		vm.Rand = globalSource{}
	}
	return vm.Rand
}

// checkMemory returns an ErrAddress if [addr, addr+count) is not in memory.
func checkMemory(addr uint16, count int) error {
	if int(addr)+count > RAM_SIZE {
		return ErrAddress{Region: REGION_MEMORY, Index: int(addr) + count - 1}
	}
	return nil
}

// Execute executes a single decoded instruction.
//
// LD Vx, K blocks until a key is newly pressed on the keyboard.
func (vm *VM) Execute(instr Instruction) error {
	return vm.ExecuteContext(context.Background(), instr)
}

// ExecuteContext executes a single decoded instruction, giving up on a
// blocking key wait when ctx is done.
//
// CALL pushes its own PC, and RET resumes at the popped value plus one.
// A return address pushed by hand must be that of the calling instruction.
//
// On error the VM state is unchanged, and the error joins ErrInstruction
// with the cause.
func (vm *VM) ExecuteContext(ctx context.Context, instr Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrInstruction(instr), err)
		}
	}()

	if vm.Verbose {
		log.Printf("vm: %03x: %v", vm.PC, instr)
	}

	err = instr.Validate()
	if err != nil {
		return
	}

	v := &vm.V
	x := instr.X
	y := instr.Y

	next_pc := vm.PC + 1
	skip := func(cond bool) {
		if cond {
			next_pc = vm.PC + 2
		}
	}

	switch instr.Op {
	case OP_SYS:
		// Machine code routines are not supported, ignored.
	case OP_CLS:
		vm.Display.Clear()
	case OP_RET:
		var addr uint16
		addr, err = vm.Stack.Pop()
		if err != nil {
			return
		}
		// The stack holds the address of the CALL, resume after it.
		next_pc = addr + 1
	case OP_JP:
		next_pc = instr.Addr
	case OP_CALL:
		err = vm.Stack.Push(vm.PC)
		if err != nil {
			return
		}
		next_pc = instr.Addr
	case OP_SE_BYTE:
		skip(v[x] == instr.Byte)
	case OP_SNE_BYTE:
		skip(v[x] != instr.Byte)
	case OP_SE_REG:
		skip(v[x] == v[y])
	case OP_SNE_REG:
		skip(v[x] != v[y])
	case OP_LD_BYTE:
		v[x] = instr.Byte
	case OP_ADD_BYTE:
		// VF is not touched.
		v[x] += instr.Byte
	case OP_LD_REG:
		v[x] = v[y]
	case OP_OR:
		v[x] |= v[y]
	case OP_AND:
		v[x] &= v[y]
	case OP_XOR:
		v[x] ^= v[y]
	case OP_ADD_REG:
		sum := uint16(v[x]) + uint16(v[y])
		v[x] = uint8(sum)
		v[REG_VF] = uint8(sum >> 8)
	case OP_SUB:
		v[x], v[REG_VF] = subtract(v[x], v[y])
	case OP_SUBN:
		v[x], v[REG_VF] = subtract(v[y], v[x])
	case OP_SHR:
		flag := v[x] & 1
		v[x] >>= 1
		v[REG_VF] = flag
	case OP_SHL:
		flag := v[x] >> 7
		v[x] <<= 1
		v[REG_VF] = flag
	case OP_LD_I:
		vm.I = instr.Addr
	case OP_JP_V0:
		next_pc = instr.Addr + uint16(v[0])
	case OP_RND:
		v[x] = uint8(vm.random().Uint32()) & instr.Byte
	case OP_DRW:
		err = vm.draw(v[x], v[y], instr.N)
		if err != nil {
			return
		}
	case OP_SKP, OP_SKNP:
		var key keys.Key
		key, err = keys.FromNum(v[x])
		if err != nil {
			return
		}
		pressed := vm.keyboard().IsPressed(key)
		skip(pressed == (instr.Op == OP_SKP))
	case OP_LD_VX_DT:
		v[x] = vm.Delay
	case OP_LD_VX_K:
		if vm.Verbose {
			log.Printf("vm: %03x: waiting for key", vm.PC)
		}
		var key keys.Key
		key, err = vm.keyboard().WaitContext(ctx)
		if err != nil {
			return
		}
		v[x] = key.Num()
	case OP_LD_DT_VX:
		vm.Delay = v[x]
	case OP_LD_ST_VX:
		vm.Sound = v[x]
	case OP_ADD_I:
		vm.I += uint16(v[x])
	case OP_LD_F:
		vm.I = digitAddress(v[x])
	case OP_LD_B:
		err = checkMemory(vm.I, 3)
		if err != nil {
			return
		}
		vm.Memory[vm.I+0] = v[x] / 100
		vm.Memory[vm.I+1] = (v[x] / 10) % 10
		vm.Memory[vm.I+2] = v[x] % 10
	case OP_LD_MEM_VX:
		err = checkMemory(vm.I, int(x)+1)
		if err != nil {
			return
		}
		copy(vm.Memory[vm.I:], v[:x+1])
	case OP_LD_VX_MEM:
		err = checkMemory(vm.I, int(x)+1)
		if err != nil {
			return
		}
		copy(v[:x+1], vm.Memory[vm.I:])
	default:
		err = ErrOpcodeUnknown
		return
	}

	vm.PC = next_pc
	vm.Ticks++

	return
}

// subtract returns the magnitude of a-b, and the no-borrow flag: 1 when
// a >= b, 0 when the subtraction borrowed.
func subtract(a, b uint8) (diff uint8, flag uint8) {
	if a >= b {
		return a - b, 1
	}

	return b - a, 0
}

// draw XORs an n byte sprite from memory at I onto the display at column
// vx, row vy, and sets VF on collision. All bounds are checked before any
// pixel is changed.
func (vm *VM) draw(vx, vy uint8, n uint8) (err error) {
	err = checkMemory(vm.I, int(n))
	if err != nil {
		return
	}

	if n > 0 && int(vy)+int(n) > DISPLAY_HEIGHT {
		err = ErrAddress{Region: REGION_DISPLAY, Index: int(vy) + int(n) - 1}
		return
	}

	var collision uint8
	for i := range uint16(n) {
		mask := spriteMask(vm.Memory[vm.I+i], vx)
		row := &vm.Display[uint16(vy)+i]
		result := *row ^ mask
		if result&mask != mask {
			collision = 1
		}
		*row = result
	}

	vm.V[REG_VF] = collision

	return
}
