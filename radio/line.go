package radio

import (
	"context"
	"fmt"
	"time"
)

// Line is a fixed capacity response buffer for single line replies.
//
// The last slot is reserved for the terminator, so a Line of capacity n
// holds at most n-1 bytes of content. A Line belongs to the caller; the
// Radio only writes into it for the duration of ReceiveLine.
type Line struct {
	data []byte
	n    int
}

// NewLine returns a zeroed Line of the given capacity.
func NewLine(capacity int) *Line {
	return &Line{data: make([]byte, capacity)}
}

// Cap returns the capacity, terminator slot included.
func (l *Line) Cap() int { return len(l.data) }

// Len returns the number of content bytes.
func (l *Line) Len() int { return l.n }

func (l *Line) Bytes() []byte { return l.data[:l.n] }

func (l *Line) String() string { return string(l.data[:l.n]) }

// Reset zero-fills the buffer.
func (l *Line) Reset() {
	clear(l.data)
	l.n = 0
}

// ReceiveLine reads one reply line into dst. The line ends at the first
// '\r' or '\n', which is not stored. A zero timeout uses the configured
// command timeout.
//
// ErrOverflow is returned as soon as dst fills up without a terminator and
// ErrTimeout when the deadline passes first. In both cases the content of
// dst is undefined.
func (r *Radio) ReceiveLine(ctx context.Context, dst *Line, timeout time.Duration) error {
	if err := r.ready(); err != nil {
		return err
	}
	if timeout == 0 {
		timeout = r.config.commandTimeout
	}

	dst.Reset()
	d := r.newDeadline(timeout)
	for {
		if dst.n >= len(dst.data) {
			r.logger.Error("Reply exceeds response buffer", "capacity", len(dst.data))
			return ErrOverflow
		}
		if d.expired() {
			r.logger.Error("Timeout waiting for response", "timeout", timeout)
			return ErrTimeout
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		c, ok, err := r.next()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		if c == '\n' || c == '\r' {
			dst.data[dst.n] = 0
			fmt.Fprintln(r.trace, dst.String())
			return nil
		}
		dst.data[dst.n] = c
		dst.n++
	}
}
