package radio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Echo moves at most one byte in each direction between the radio and host:
// radio output is written to host, host input is written to the radio. It
// reports whether anything moved.
func (r *Radio) Echo(host Stream) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}

	moved := false
	if r.transport.Buffered() > 0 {
		c, err := r.transport.ReadByte()
		switch {
		case err == nil:
			if _, err := host.Write([]byte{c}); err != nil {
				return moved, fmt.Errorf("write host: %w", err)
			}
			moved = true
		case !errors.Is(err, ErrNoData):
			return moved, fmt.Errorf("read radio: %w", err)
		}
	}
	if host.Buffered() > 0 {
		c, err := host.ReadByte()
		switch {
		case err == nil:
			if _, err := r.transport.Write([]byte{c}); err != nil {
				return moved, fmt.Errorf("write radio: %w", err)
			}
			moved = true
		case !errors.Is(err, ErrNoData):
			return moved, fmt.Errorf("read host: %w", err)
		}
	}
	return moved, nil
}

// EchoLoop bridges the radio and host until the context is done or either
// side fails. This is the usual way to talk to the radio by hand.
func (r *Radio) EchoLoop(ctx context.Context, host Stream) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		moved, err := r.Echo(host)
		if err != nil {
			return err
		}
		if !moved {
			r.yield()
		}
	}
}

// ReaderStream adapts a blocking reader such as os.Stdin to Stream. A
// goroutine reads ahead into a buffer; Buffered and ReadByte never block.
type ReaderStream struct {
	w io.Writer

	mu      sync.Mutex
	pending []byte
	err     error
}

// NewReaderStream starts reading from r. Writes go to w.
func NewReaderStream(r io.Reader, w io.Writer) *ReaderStream {
	s := &ReaderStream{w: w}
	go s.pump(r)
	return s
}

func (s *ReaderStream) pump(r io.Reader) {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		s.mu.Lock()
		s.pending = append(s.pending, buf[:n]...)
		if err != nil {
			s.err = err
		}
		s.mu.Unlock()
		if err != nil {
			return
		}
	}
}

// Buffered returns the queued byte count; once the reader has failed and
// the queue is empty it returns 1 so the error surfaces from ReadByte.
func (s *ReaderStream) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 && s.err != nil {
		return 1
	}
	return len(s.pending)
}

func (s *ReaderStream) ReadByte() (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		return 0, ErrNoData
	}
	c := s.pending[0]
	s.pending = s.pending[1:]
	return c, nil
}

func (s *ReaderStream) Write(p []byte) (int, error) {
	return s.w.Write(p)
}
