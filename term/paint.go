package term

import (
	"bytes"
	"context"
	"io"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/vm"
)

// ANSI escapes
const (
	ESC_CLEAR       = "\x1b[2J"
	ESC_HOME        = "\x1b[H"
	ESC_HIDE_CURSOR = "\x1b[?25l"
	ESC_SHOW_CURSOR = "\x1b[?25h"
)

// Paint redraws each frame received, until frames is closed or ctx is done.
func Paint(ctx context.Context, w io.Writer, frames <-chan vm.Frame) (err error) {
	_, err = io.WriteString(w, ESC_CLEAR+ESC_HIDE_CURSOR)
	if err != nil {
		return
	}

	defer func() {
		_, show_err := io.WriteString(w, ESC_SHOW_CURSOR)
		if err == nil {
			err = show_err
		}
	}()

	var buf bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}

			buf.Reset()
			buf.WriteString(ESC_HOME)
			err = display.Render(&buf, frame)
			if err != nil {
				return
			}

			_, err = w.Write(buf.Bytes())
			if err != nil {
				return
			}
		}
	}
}
