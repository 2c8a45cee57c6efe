package display

import (
	"io"
	"strings"

	"github.com/ezrec/chip8/vm"
)

// Glyphs for a character cell, indexed by (top << 1) | bottom.
var cellGlyph = [4]string{" ", "▄", "▀", "█"}

// Render writes the frame as text, two pixel rows per line, one line per
// cell row.
func Render(w io.Writer, frame vm.Frame) (err error) {
	var text strings.Builder

	for y := 0; y < vm.DISPLAY_HEIGHT; y += 2 {
		for x := range vm.DISPLAY_WIDTH {
			cell := 0
			if frame.Pixel(x, y) {
				cell |= 2
			}
			if frame.Pixel(x, y+1) {
				cell |= 1
			}
			text.WriteString(cellGlyph[cell])
		}
		text.WriteByte('\n')
	}

	_, err = io.WriteString(w, text.String())

	return
}
