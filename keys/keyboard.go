package keys

import (
	"context"
	"sync"
)

// Keyboard is the set of currently pressed keys, shared between the
// input producer (SetPressed, SetUnpressed) and the VM (IsPressed, Wait).
//
// A Keyboard must not be copied after first use; share it by pointer.
type Keyboard struct {
	mutex   sync.Mutex
	changed sync.Cond

	pressed [KEY_COUNT]bool
	presses [KEY_COUNT]uint64 // Count of not-pressed to pressed transitions.
	waiting int               // Number of blocked waiters.
}

// NewKeyboard creates a keyboard with no keys pressed.
func NewKeyboard() (kb *Keyboard) {
	kb = &Keyboard{}
	kb.changed.L = &kb.mutex
	return
}

// lock takes the keyboard lock, finishing lazy init of a zero Keyboard.
func (kb *Keyboard) lock() {
	kb.mutex.Lock()
	if kb.changed.L == nil {
		kb.changed.L = &kb.mutex
	}
}

// IsPressed returns true if the key is currently held down.
func (kb *Keyboard) IsPressed(key Key) bool {
	if !key.Valid() {
		return false
	}

	kb.lock()
	defer kb.mutex.Unlock()

	return kb.pressed[key]
}

// SetPressed marks a key as held down, and wakes any waiters.
func (kb *Keyboard) SetPressed(key Key) {
	if !key.Valid() {
		return
	}

	kb.lock()
	defer kb.mutex.Unlock()

	if !kb.pressed[key] {
		kb.pressed[key] = true
		kb.presses[key]++
	}

	kb.changed.Broadcast()
}

// SetUnpressed marks a key as released, and wakes any waiters.
func (kb *Keyboard) SetUnpressed(key Key) {
	if !key.Valid() {
		return
	}

	kb.lock()
	defer kb.mutex.Unlock()

	kb.pressed[key] = false

	kb.changed.Broadcast()
}

// Release releases every key.
func (kb *Keyboard) Release() {
	kb.lock()
	defer kb.mutex.Unlock()

	clear(kb.pressed[:])

	kb.changed.Broadcast()
}

// Pressed returns the keys currently held down, in numeric order.
func (kb *Keyboard) Pressed() (keys []Key) {
	kb.lock()
	defer kb.mutex.Unlock()

	for key := range All() {
		if kb.pressed[key] {
			keys = append(keys, key)
		}
	}

	return
}

// Waiting returns true if a caller is blocked in Wait.
func (kb *Keyboard) Waiting() bool {
	kb.lock()
	defer kb.mutex.Unlock()

	return kb.waiting > 0
}

// Wait blocks until a key is newly pressed, and returns it.
//
// Keys already held down when Wait is called do not satisfy the wait,
// even if they are reported pressed again; they must be released and
// pressed anew. If several keys are newly pressed before the waiter
// wakes, the lowest numbered one is returned.
func (kb *Keyboard) Wait() (key Key) {
	key, _ = kb.WaitContext(context.Background())
	return
}

// WaitContext is Wait, but gives up with the context's error once ctx is done.
func (kb *Keyboard) WaitContext(ctx context.Context) (key Key, err error) {
	kb.lock()
	defer kb.mutex.Unlock()

	baseline := kb.presses

	kb.waiting++
	defer func() { kb.waiting-- }()

	stop := context.AfterFunc(ctx, func() {
		kb.mutex.Lock()
		defer kb.mutex.Unlock()
		kb.changed.Broadcast()
	})
	defer stop()

	for {
		for n, count := range kb.presses {
			if count != baseline[n] {
				key = Key(n)
				return
			}
		}

		err = ctx.Err()
		if err != nil {
			return
		}

		kb.changed.Wait()
	}
}
