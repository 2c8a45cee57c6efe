package vm

import (
	"errors"

	"github.com/ezrec/chip8/keys"
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

// Address regions reported by ErrAddress.
const (
	REGION_MEMORY  = "memory"
	REGION_DISPLAY = "display"
)

var (
	// VM errors
	ErrStackEmpty     = errors.New(f("stack empty"))
	ErrStackFull      = errors.New(f("stack full"))
	ErrOpcodeUnknown  = errors.New(f("opcode unknown"))
	ErrOperandInvalid = errors.New(f("operand invalid"))
	ErrKeyUnknown     = keys.ErrKeyUnknown

	// Program errors
	ErrDataOverflow = errors.New(f("program data overflow"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrMacroRecursion     = errors.New(f(".macro nested too deeply"))
	ErrByteSyntax         = errors.New(f(".byte syntax"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOperandMismatch    = errors.New(f("operands do not match"))
	ErrValueRange         = errors.New(f("value out of range"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrAddress is an access outside of a fixed size region.
type ErrAddress struct {
	Region string // Region accessed, REGION_MEMORY or REGION_DISPLAY.
	Index  int    // Offending index.
}

func (ea ErrAddress) Error() string {
	return f("%v address 0x%03x out of range", ea.Region, ea.Index)
}

func (ea ErrAddress) Is(err error) (ok bool) {
	_, ok = err.(ErrAddress)
	return
}

// ErrInstruction identifies the instruction that faulted.
type ErrInstruction Instruction

func (ei ErrInstruction) Error() string {
	return f("bad instruction %v", Instruction(ei).String())
}

func (ei ErrInstruction) Is(err error) (ok bool) {
	_, ok = err.(ErrInstruction)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
