package vm

import (
	"math/bits"
)

const (
	DISPLAY_WIDTH  = 64
	DISPLAY_HEIGHT = 32
)

// Frame is the monochrome framebuffer: one uint64 per row, bit 63 is the
// leftmost pixel.
type Frame [DISPLAY_HEIGHT]uint64

// Pixel returns true if the pixel at column x, row y is lit.
// Coordinates outside the frame are never lit.
func (frame *Frame) Pixel(x, y int) bool {
	if x < 0 || x >= DISPLAY_WIDTH || y < 0 || y >= DISPLAY_HEIGHT {
		return false
	}

	return (frame[y]>>(DISPLAY_WIDTH-1-x))&1 == 1
}

// Lit returns the number of lit pixels.
func (frame *Frame) Lit() (count int) {
	for _, row := range frame {
		count += bits.OnesCount64(row)
	}
	return
}

// Clear turns off every pixel.
func (frame *Frame) Clear() {
	clear(frame[:])
}

// spriteMask positions a sprite byte at column x of a row. Columns past
// the right edge are clipped.
func spriteMask(sprite uint8, x uint8) uint64 {
	if x <= DISPLAY_WIDTH-8 {
		return uint64(sprite) << (DISPLAY_WIDTH - 8 - x)
	}

	return uint64(sprite) >> (x - (DISPLAY_WIDTH - 8))
}
