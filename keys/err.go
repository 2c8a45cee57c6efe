package keys

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrKeyUnknown = errors.New(f("key unknown"))
)

// ErrKeyCode is a numeric key code that is not on the keypad.
type ErrKeyCode uint8

func (ek ErrKeyCode) Error() string {
	return f("key 0x%02x unknown", uint8(ek))
}

func (ek ErrKeyCode) Is(err error) bool {
	return err == ErrKeyUnknown
}
