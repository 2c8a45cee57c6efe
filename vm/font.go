package vm

const (
	FONT_START      = 0x000 // Address of the digit sprite for 0.
	FONT_GLYPH_SIZE = 5     // Bytes per digit sprite.
)

// font holds the 4x5 hexadecimal digit sprites, 0 through F.
var font = [16][FONT_GLYPH_SIZE]uint8{
	{0xF0, 0x90, 0x90, 0x90, 0xF0}, // 0
	{0x20, 0x60, 0x20, 0x20, 0x70}, // 1
	{0xF0, 0x10, 0xF0, 0x80, 0xF0}, // 2
	{0xF0, 0x10, 0xF0, 0x10, 0xF0}, // 3
	{0x90, 0x90, 0xF0, 0x10, 0x10}, // 4
	{0xF0, 0x80, 0xF0, 0x10, 0xF0}, // 5
	{0xF0, 0x80, 0xF0, 0x90, 0xF0}, // 6
	{0xF0, 0x10, 0x20, 0x40, 0x40}, // 7
	{0xF0, 0x90, 0xF0, 0x90, 0xF0}, // 8
	{0xF0, 0x90, 0xF0, 0x10, 0xF0}, // 9
	{0xF0, 0x90, 0xF0, 0x90, 0x90}, // A
	{0xE0, 0x90, 0xE0, 0x90, 0xE0}, // B
	{0xF0, 0x80, 0x80, 0x80, 0xF0}, // C
	{0xE0, 0x90, 0x90, 0x90, 0xE0}, // D
	{0xF0, 0x80, 0xF0, 0x80, 0xF0}, // E
	{0xF0, 0x80, 0xF0, 0x80, 0x80}, // F
}

// digitAddress returns the address of the sprite for the low nibble of digit.
func digitAddress(digit uint8) uint16 {
	return FONT_START + uint16(digit&0xf)*FONT_GLYPH_SIZE
}

// loadFont copies the digit sprites into low memory.
func (vm *VM) loadFont() {
	for n, glyph := range font {
		copy(vm.Memory[digitAddress(uint8(n)):], glyph[:])
	}
}
