package term

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/ezrec/chip8/keys"
)

const (
	HOLD_TIME = 150 * time.Millisecond // Default key hold after a character.

	CHAR_CTRL_C = 0x03 // Quits.
	CHAR_ESC    = 0x1b // Quits, unless it starts an escape sequence.
)

var keymap = map[byte]keys.Key{
	'1': keys.Key1, '2': keys.Key2, '3': keys.Key3, '4': keys.KeyC,
	'q': keys.Key4, 'w': keys.Key5, 'e': keys.Key6, 'r': keys.KeyD,
	'a': keys.Key7, 's': keys.Key8, 'd': keys.Key9, 'f': keys.KeyE,
	'z': keys.KeyA, 'x': keys.Key0, 'c': keys.KeyB, 'v': keys.KeyF,
}

// MapKey returns the keypad key for a typed character.
func MapKey(ch byte) (key keys.Key, ok bool) {
	if ch >= 'A' && ch <= 'Z' {
		ch += 'a' - 'A'
	}

	key, ok = keymap[ch]
	return
}

// Input presses keys on a keyboard from typed characters.
type Input struct {
	Keyboard *keys.Keyboard // Keyboard to press keys on.
	Hold     time.Duration  // Time a key stays pressed, HOLD_TIME if zero.

	mutex  sync.Mutex
	timers map[keys.Key]*time.Timer
}

// Press presses the key mapped to ch, if any, and (re)starts its release
// timer.
func (in *Input) Press(ch byte) {
	key, ok := MapKey(ch)
	if !ok {
		return
	}

	hold := in.Hold
	if hold <= 0 {
		hold = HOLD_TIME
	}

	in.Keyboard.SetPressed(key)

	in.mutex.Lock()
	defer in.mutex.Unlock()

	if in.timers == nil {
		in.timers = map[keys.Key]*time.Timer{}
	}

	timer, ok := in.timers[key]
	if ok {
		timer.Reset(hold)
		return
	}

	in.timers[key] = time.AfterFunc(hold, func() {
		in.Keyboard.SetUnpressed(key)
	})
}

// Stop cancels pending releases, and releases every key.
func (in *Input) Stop() {
	in.mutex.Lock()
	for _, timer := range in.timers {
		timer.Stop()
	}
	clear(in.timers)
	in.mutex.Unlock()

	in.Keyboard.Release()
}

// Run reads characters from r until end of input or a quit character,
// returning nil for either.
func (in *Input) Run(r io.Reader) (err error) {
	buf := make([]byte, 32)

	for {
		var n int
		n, err = r.Read(buf)

	scan:
		for i, ch := range buf[:n] {
			switch {
			case ch == CHAR_CTRL_C, ch == CHAR_ESC && i == n-1:
				err = nil
				return
			case ch == CHAR_ESC:
				// Skip the rest of an escape sequence, such as a
				// cursor key.
				break scan
			default:
				in.Press(ch)
			}
		}

		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			return
		}
	}
}
