// Package term runs the emulator on a text terminal.
//
// Typed characters are mapped onto the hex keypad, laid out on the left
// hand side of a QWERTY keyboard:
//
//	1 2 3 4      1 2 3 C
//	q w e r      4 5 6 D
//	a s d f  ->  7 8 9 E
//	z x c v      A 0 B F
//
// Terminals report no key releases, so a key is held for a short interval
// after each character, and auto-repeat keeps it held.
//
// Frames are painted with ANSI escapes, two pixel rows per text line.
package term
