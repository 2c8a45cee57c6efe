package vm

import (
	"fmt"
	"io"
	"iter"
)

// Opcode represents a line of assembled code with its source location and
// generated instruction.
type Opcode struct {
	LineNo      int
	Ip          int
	Words       []string
	Instruction Instruction
	LinkLabel   string
}

// Program is an assembled instruction stream, plus the data segment that
// is loaded into memory at PROGRAM_START.
type Program struct {
	Opcodes []Opcode
	Data    []uint8
}

// Len returns the number of instructions in the program.
func (prog *Program) Len() int {
	return len(prog.Opcodes)
}

// Debug returns the opcode at instruction index ip, or nil.
func (prog *Program) Debug(ip uint16) (op *Opcode) {
	if int(ip) >= len(prog.Opcodes) {
		return
	}

	return &prog.Opcodes[ip]
}

// Fetch returns the instruction at instruction index ip.
func (prog *Program) Fetch(ip uint16) (instr Instruction, ok bool) {
	op := prog.Debug(ip)
	if op == nil {
		return
	}

	return op.Instruction, true
}

// Instructions iterates over the instruction stream.
func (prog *Program) Instructions() iter.Seq2[uint16, Instruction] {
	return func(yield func(ip uint16, instr Instruction) bool) {
		for _, op := range prog.Opcodes {
			if !yield(uint16(op.Ip), op.Instruction) {
				return
			}
		}
	}
}

// Load copies the data segment into the VM's memory at PROGRAM_START.
func (prog *Program) Load(vm *VM) (err error) {
	if len(prog.Data) > RAM_SIZE-PROGRAM_START {
		err = ErrDataOverflow
		return
	}

	copy(vm.Memory[PROGRAM_START:], prog.Data)

	return
}

// Listing writes an assembly listing of the program: one instruction per
// line with its index and source line, then a hex dump of the data segment.
func (prog *Program) Listing(w io.Writer) (err error) {
	for _, op := range prog.Opcodes {
		_, err = fmt.Fprintf(w, "%03x: %-20v ; line %d\n", op.Ip, op.Instruction.String(), op.LineNo)
		if err != nil {
			return
		}
	}

	for n := 0; n < len(prog.Data); n += 8 {
		line := prog.Data[n:min(n+8, len(prog.Data))]
		_, err = fmt.Fprintf(w, "%03x: .byte % x\n", PROGRAM_START+n, line)
		if err != nil {
			return
		}
	}

	return
}
