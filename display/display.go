// Package display carries frames from the VM to whatever presents them.
package display

import (
	"github.com/ezrec/chip8/vm"
)

// Sink receives display frames. Publish must not block.
type Sink interface {
	Publish(frame vm.Frame)
}

// Latest is a one frame mailbox between a single publisher and its
// consumer. A frame not yet read is replaced by a newer one.
type Latest struct {
	frames chan vm.Frame
}

// NewLatest creates an empty mailbox.
func NewLatest() *Latest {
	return &Latest{
		frames: make(chan vm.Frame, 1),
	}
}

// Publish replaces any unread frame with this one.
func (l *Latest) Publish(frame vm.Frame) {
	for {
		select {
		case l.frames <- frame:
			return
		default:
		}

		// Drop the stale frame, unless the consumer beat us to it.
		select {
		case <-l.frames:
		default:
		}
	}
}

// Frames returns the channel the consumer reads from.
func (l *Latest) Frames() <-chan vm.Frame {
	return l.frames
}
