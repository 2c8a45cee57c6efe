// Package vm implements the CHIP-8 virtual machine and its assembler.
//
// The machine has 4K of memory, sixteen 8-bit registers (V0-VF, with VF
// doubling as the carry, borrow and collision flag), a 16-bit index
// register, a return stack, delay and sound timers, and a 64x32
// monochrome display. It executes an already decoded instruction stream:
// the program counter is an index into that stream, not a byte address.
//
// The assembler reads the conventional CHIP-8 mnemonics, with labels,
// equates, macros and compile-time expression evaluation, and produces a
// Program of instructions plus a data segment loaded at PROGRAM_START.
package vm
