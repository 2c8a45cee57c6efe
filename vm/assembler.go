// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// MACRO_DEPTH_LIMIT is the deepest macro expansion nesting allowed.
const MACRO_DEPTH_LIMIT = 16

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = func() map[string]string {
	equ := maps.Clone(_vm_defines)
	equ["LINENO"] = "0"
	return equ
}()

// form is one accepted operand layout of a mnemonic.
type form struct {
	op    Op
	words []string // Operand words of the form, without the mnemonic.
}

// formMap maps upper case mnemonics to their accepted forms.
var formMap = func() map[string][]form {
	forms := map[string][]form{}
	add := func(op Op, words []string) {
		mnemonic := words[0]
		forms[mnemonic] = append(forms[mnemonic], form{op: op, words: words[1:]})
	}

	for op := range Op(OP_COUNT) {
		add(op, op.Form())
	}

	// Alternate syntax: the shifts accept, and ignore, a Vy operand.
	add(OP_SHR, []string{"SHR", "Vx", "Vy"})
	add(OP_SHL, []string{"SHL", "Vx", "Vy"})

	return forms
}()

var labelRegexp = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// Assembler is a single pass macro assembler for CHIP-8 mnemonics.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.
	Data    []uint8  // Data segment, loaded at PROGRAM_START.

	predefine map[string]string   // Predefines
	expansion int                 // Count of macro expansions, names @ labels.
	depth     int                 // Current macro expansion nesting.
	Label     map[string]int      // Map of labels to instruction indexes or data addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// registerOf returns the register index of a V0 - VF word.
func registerOf(word string) (reg uint8, ok bool) {
	if len(word) != 2 || (word[0] != 'V' && word[0] != 'v') {
		return
	}

	value, err := strconv.ParseUint(word[1:], 16, 4)
	if err != nil {
		return
	}

	return uint8(value), true
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 int64
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// splitWords splits a line into words on spaces and commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// parseLine parses a single line into words, handling expressions,
// equates, labels and macro expansion.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	var labels []string
	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !labelRegexp.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		labels = append(labels, label)
		words = words[1:]
	}

	// Labels on a .byte line name the data address, otherwise the
	// next instruction.
	target := asm.currentIp()
	if len(words) > 0 && words[0] == ".byte" {
		target = PROGRAM_START + len(asm.Data)
	}
	for _, label := range labels {
		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = target
	}

	if len(words) == 0 {
		return
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		if asm.depth >= MACRO_DEPTH_LIMIT {
			err = ErrMacroRecursion
			return
		}
		asm.depth++
		defer func() { asm.depth-- }()

		// Each expansion gets its own @ label prefix.
		asm.expansion++
		local := fmt.Sprintf("%v_%v_", name, asm.expansion)

		// Errors from nested expansions keep the innermost macro.
		inMacro := func(lineno int, err error) error {
			var em *ErrMacro
			if errors.As(err, &em) {
				return err
			}
			return &ErrMacro{Macro: name, Line: lineno, Err: err}
		}

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = inMacro(lineno, err)
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = inMacro(lineno, err)
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentIp gets the instruction index of the next opcode.
func (asm *Assembler) currentIp() int {
	return len(asm.Opcode)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.expansion = 0
	asm.depth = 0
	asm.Opcode = asm.Opcode[:0]
	asm.Data = asm.Data[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := splitWords(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	if len(asm.Data) > RAM_SIZE-PROGRAM_START {
		err = ErrDataOverflow
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		if addr < 0 || addr > ADDR_MASK {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrValueRange
			return
		}
		op.Instruction.Addr = uint16(addr)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
		Data:    slices.Clone(asm.Data),
	}

	return
}

// parseByte evaluates the operands of a .byte directive.
func (asm *Assembler) parseByte(words []string) (err error) {
	if len(words) == 0 {
		err = ErrByteSyntax
		return
	}

	for _, word := range words {
		var value int64
		value, err = asm.valueOf(word)
		if err != nil {
			return
		}
		if value < -0x80 || value > 0xff {
			err = ErrValueRange
			return
		}
		asm.Data = append(asm.Data, uint8(value))
	}

	return
}

// matchForm fits the operand words to a form, returning the instruction
// and the label to link, if any.
func (asm *Assembler) matchForm(fm form, words []string) (instr Instruction, label string, err error) {
	instr.Op = fm.op

	for n, want := range fm.words {
		word := words[n]
		reg, is_reg := registerOf(word)

		switch want {
		case "Vx", "Vy":
			if !is_reg {
				err = ErrOperandMismatch
				return
			}
			if want == "Vx" {
				instr.X = reg
			} else {
				instr.Y = reg
			}
		case "byte", "nibble", "addr":
			if is_reg {
				err = ErrOperandMismatch
				return
			}
			var value int64
			value, err = asm.valueOf(word)
			if err != nil {
				if want == "addr" && labelRegexp.MatchString(word) {
					err = nil
					label = word
					continue
				}
				return
			}
			switch want {
			case "byte":
				if value < -0x80 || value > 0xff {
					err = ErrValueRange
					return
				}
				instr.Byte = uint8(value)
			case "nibble":
				if value < 0 || value > NIBBLE_MASK {
					err = ErrValueRange
					return
				}
				instr.N = uint8(value)
			case "addr":
				if value < 0 || value > ADDR_MASK {
					err = ErrValueRange
					return
				}
				instr.Addr = uint16(value)
			}
		default:
			if !strings.EqualFold(want, word) {
				err = ErrOperandMismatch
				return
			}
		}
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	if words[0] == ".byte" {
		return asm.parseByte(words[1:])
	}

	forms, ok := formMap[strings.ToUpper(words[0])]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	operands := words[1:]

	var first_err error
	most := 0
	for _, fm := range forms {
		most = max(most, len(fm.words))
		if len(fm.words) != len(operands) {
			continue
		}

		instr, label, form_err := asm.matchForm(fm, operands)
		if form_err == nil {
			asm.Opcode = append(asm.Opcode, Opcode{
				LineNo:      lineno,
				Ip:          asm.currentIp(),
				Words:       words,
				Instruction: instr,
				LinkLabel:   label,
			})
			return
		}

		if first_err == nil || first_err == ErrOperandMismatch {
			first_err = form_err
		}
	}

	switch {
	case first_err != nil:
		err = first_err
	case len(operands) > most:
		err = ErrOpcodeExtraArgs
	default:
		err = ErrOpcodeValueMissing
	}

	return
}
