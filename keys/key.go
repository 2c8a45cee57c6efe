// Package keys models the sixteen key hexadecimal keypad.
//
// The COSMAC VIP keypad layout:
//
//	+---+---+---+---+
//	| 1 | 2 | 3 | C |
//	+---+---+---+---+
//	| 4 | 5 | 6 | D |
//	+---+---+---+---+
//	| 7 | 8 | 9 | E |
//	+---+---+---+---+
//	| A | 0 | B | F |
//	+---+---+---+---+
package keys

import (
	"fmt"
	"iter"
	"maps"
)

// KEY_COUNT is the number of keys on the keypad.
const KEY_COUNT = 16

// Key is a single keypad key.
type Key uint8

//go:generate go tool stringer -linecomment -type=Key
const (
	Key0 = Key(0x0) // 0
	Key1 = Key(0x1) // 1
	Key2 = Key(0x2) // 2
	Key3 = Key(0x3) // 3
	Key4 = Key(0x4) // 4
	Key5 = Key(0x5) // 5
	Key6 = Key(0x6) // 6
	Key7 = Key(0x7) // 7
	Key8 = Key(0x8) // 8
	Key9 = Key(0x9) // 9
	KeyA = Key(0xa) // A
	KeyB = Key(0xb) // B
	KeyC = Key(0xc) // C
	KeyD = Key(0xd) // D
	KeyE = Key(0xe) // E
	KeyF = Key(0xf) // F
)

var _key_defines = func() map[string]string {
	defines := make(map[string]string, KEY_COUNT)
	for key := range All() {
		defines["KEY_"+key.String()] = fmt.Sprintf("%#x", key.Num())
	}
	return defines
}()

// FromNum returns the key with the 4-bit numeric code num.
func FromNum(num uint8) (key Key, err error) {
	if num >= KEY_COUNT {
		err = ErrKeyCode(num)
		return
	}

	key = Key(num)
	return
}

// Num returns the 4-bit numeric code of the key.
func (key Key) Num() uint8 {
	return uint8(key)
}

// Valid returns true if the key is on the keypad.
func (key Key) Valid() bool {
	return key < KEY_COUNT
}

// All iterates over every key, in numeric order.
func All() iter.Seq[Key] {
	return func(yield func(Key) bool) {
		for n := range KEY_COUNT {
			if !yield(Key(n)) {
				return
			}
		}
	}
}

// Defines returns the assembler equates for the key codes (KEY_0 .. KEY_F).
func Defines() iter.Seq2[string, string] {
	return maps.All(_key_defines)
}
