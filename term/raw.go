//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package term

import (
	"golang.org/x/sys/unix"
)

// State is a saved terminal mode.
type State struct {
	termios unix.Termios
}

// MakeRaw puts the terminal on fd into raw mode, returning the previous
// state for Restore.
//
// Signals stay enabled, so Ctrl-C still interrupts.
func MakeRaw(fd int) (state *State, err error) {
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return
	}

	state = &State{termios: *termios}

	raw := *termios
	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR | unix.ICRNL | unix.IXON
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8

	// Block until at least one byte is read.
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	err = unix.IoctlSetTermios(fd, ioctlSetTermios, &raw)
	if err != nil {
		state = nil
		return
	}

	return
}

// Restore returns the terminal on fd to a saved state.
func Restore(fd int, state *State) (err error) {
	if state == nil {
		return
	}

	return unix.IoctlSetTermios(fd, ioctlSetTermios, &state.termios)
}
