package vm

import (
	"fmt"
	"strings"
)

// Op is the operation tag of a decoded instruction.
//
// The line comment of each op is its assembly form: Vx and Vy name the
// X and Y register operands, byte the 8-bit immediate, addr the 12-bit
// address and nibble the 4-bit count.
type Op uint8

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_SYS       = Op(0)  // SYS addr
	OP_CLS       = Op(1)  // CLS
	OP_RET       = Op(2)  // RET
	OP_JP        = Op(3)  // JP addr
	OP_CALL      = Op(4)  // CALL addr
	OP_SE_BYTE   = Op(5)  // SE Vx, byte
	OP_SNE_BYTE  = Op(6)  // SNE Vx, byte
	OP_SE_REG    = Op(7)  // SE Vx, Vy
	OP_LD_BYTE   = Op(8)  // LD Vx, byte
	OP_ADD_BYTE  = Op(9)  // ADD Vx, byte
	OP_LD_REG    = Op(10) // LD Vx, Vy
	OP_OR        = Op(11) // OR Vx, Vy
	OP_AND       = Op(12) // AND Vx, Vy
	OP_XOR       = Op(13) // XOR Vx, Vy
	OP_ADD_REG   = Op(14) // ADD Vx, Vy
	OP_SUB       = Op(15) // SUB Vx, Vy
	OP_SHR       = Op(16) // SHR Vx
	OP_SUBN      = Op(17) // SUBN Vx, Vy
	OP_SHL       = Op(18) // SHL Vx
	OP_SNE_REG   = Op(19) // SNE Vx, Vy
	OP_LD_I      = Op(20) // LD I, addr
	OP_JP_V0     = Op(21) // JP V0, addr
	OP_RND       = Op(22) // RND Vx, byte
	OP_DRW       = Op(23) // DRW Vx, Vy, nibble
	OP_SKP       = Op(24) // SKP Vx
	OP_SKNP      = Op(25) // SKNP Vx
	OP_LD_VX_DT  = Op(26) // LD Vx, DT
	OP_LD_VX_K   = Op(27) // LD Vx, K
	OP_LD_DT_VX  = Op(28) // LD DT, Vx
	OP_LD_ST_VX  = Op(29) // LD ST, Vx
	OP_ADD_I     = Op(30) // ADD I, Vx
	OP_LD_F      = Op(31) // LD F, Vx
	OP_LD_B      = Op(32) // LD B, Vx
	OP_LD_MEM_VX = Op(33) // LD [I], Vx
	OP_LD_VX_MEM = Op(34) // LD Vx, [I]
	OP_COUNT     = 35     // Number of defined ops.
)

// Operand field limits.
const (
	REGISTER_MASK = 0xf
	NIBBLE_MASK   = 0xf
	ADDR_MASK     = 0xfff
)

// Instruction is a single decoded instruction. Only the operand fields
// used by the Op are meaningful, the rest are zero.
type Instruction struct {
	Op   Op     // Operation.
	X    uint8  // First register index.
	Y    uint8  // Second register index.
	Byte uint8  // 8-bit immediate.
	Addr uint16 // 12-bit address.
	N    uint8  // 4-bit count.
}

// Form returns the assembly form of the op, split into words.
func (op Op) Form() (words []string) {
	return strings.Fields(strings.ReplaceAll(op.String(), ",", " "))
}

// Valid returns true if the op is a defined op.
func (op Op) Valid() bool {
	return op < OP_COUNT
}

// Validate checks that the op is known, and that every operand field
// fits its decoded width.
func (instr Instruction) Validate() (err error) {
	switch {
	case !instr.Op.Valid():
		err = ErrOpcodeUnknown
	case instr.X > REGISTER_MASK:
		err = ErrOperandInvalid
	case instr.Y > REGISTER_MASK:
		err = ErrOperandInvalid
	case instr.N > NIBBLE_MASK:
		err = ErrOperandInvalid
	case instr.Addr > ADDR_MASK:
		err = ErrOperandInvalid
	}

	return
}

// Skips returns true if the op conditionally skips the next instruction.
func (op Op) Skips() bool {
	switch op {
	case OP_SE_BYTE, OP_SNE_BYTE, OP_SE_REG, OP_SNE_REG, OP_SKP, OP_SKNP:
		return true
	}

	return false
}

// Jumps returns true if the op always replaces the program counter.
func (op Op) Jumps() bool {
	switch op {
	case OP_RET, OP_JP, OP_CALL, OP_JP_V0:
		return true
	}

	return false
}

// Draws returns true if the op changes the display.
func (op Op) Draws() bool {
	return op == OP_CLS || op == OP_DRW
}

// String returns the assembly language representation of this instruction.
func (instr Instruction) String() string {
	if !instr.Op.Valid() {
		return instr.Op.String()
	}

	replacer := strings.NewReplacer(
		"Vx", fmt.Sprintf("V%X", instr.X),
		"Vy", fmt.Sprintf("V%X", instr.Y),
		"byte", fmt.Sprintf("0x%02x", instr.Byte),
		"addr", fmt.Sprintf("0x%03x", instr.Addr),
		"nibble", fmt.Sprintf("%d", instr.N),
	)

	return replacer.Replace(instr.Op.String())
}
