package radio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Radio drives a serial Bluetooth module through its command mode.
//
// All exchanges run on the caller's goroutine as polling loops bounded by
// clock deadlines. A Radio owns its Transport exclusively and is not safe for
// concurrent use: only one exchange may be outstanding at a time.
type Radio struct {
	// transport is the byte stream to the module
	transport Transport
	// config contains the driver settings
	config Config
	// closed indicates if the radio has been shut down
	closed bool

	clock  Clock
	yield  func()
	trace  io.Writer
	logger *slog.Logger
}

// New creates a Radio with the given configuration by dialing its
// transport. No bytes are exchanged until an operation is called.
func New(ctx context.Context, config Config) (*Radio, error) {
	if config.dialer == nil {
		return nil, ErrNoDialer
	}
	config.setDefaults()

	transport, err := config.dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, ErrNotInitialized
	}

	trace := config.trace
	if !config.verbose {
		trace = io.Discard
	}

	return &Radio{
		transport: transport,
		config:    config,
		clock:     config.clock,
		yield:     config.yield,
		trace:     trace,
		logger:    config.logger,
	}, nil
}

// Close releases the transport. After calling Close the radio cannot be
// reused.
func (r *Radio) Close() error {
	if r.closed {
		return ErrAlreadyClosed
	}
	r.closed = true

	if r.transport != nil {
		return r.transport.Close()
	}
	return nil
}

func (r *Radio) ready() error {
	if r.closed {
		return ErrAlreadyClosed
	}
	if r.transport == nil {
		return ErrNotInitialized
	}
	return nil
}

// next returns the next byte when one is available. ok is false when the
// stream is idle, in which case the yield hook has already run.
func (r *Radio) next() (c byte, ok bool, err error) {
	if r.transport.Buffered() == 0 {
		r.yield()
		return 0, false, nil
	}
	c, err = r.transport.ReadByte()
	if errors.Is(err, ErrNoData) {
		r.yield()
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read: %w", err)
	}
	return c, true, nil
}

// Flush drains whatever the radio is still sending, echoing it to the
// trace. It returns once the stream has been silent for the quiet window;
// every received byte restarts the window. A zero window uses the configured
// default. The number of drained bytes is returned.
func (r *Radio) Flush(ctx context.Context, quiet time.Duration) int {
	return r.drain(ctx, quiet, nil)
}

// drain implements Flush, additionally copying drained bytes to capture when
// it is not nil.
func (r *Radio) drain(ctx context.Context, quiet time.Duration, capture io.Writer) int {
	if r.ready() != nil {
		return 0
	}
	if quiet == 0 {
		quiet = r.config.quietWindow
	}

	var (
		count int
		last  byte
	)
	idle := r.newDeadline(quiet)
	for !idle.expired() {
		if ctx.Err() != nil {
			break
		}
		c, ok, err := r.next()
		if err != nil {
			r.logger.Error("Flush aborted", "error", err)
			break
		}
		if !ok {
			continue
		}
		idle.reset()
		count++
		last = c
		r.trace.Write([]byte{c})
		if capture != nil {
			capture.Write([]byte{c})
		}
	}

	if count > 0 && last != '\n' {
		fmt.Fprintln(r.trace)
	}
	return count
}

// Send flushes pending output and writes msg verbatim to the radio.
func (r *Radio) Send(ctx context.Context, msg string) error {
	if err := r.ready(); err != nil {
		return err
	}
	r.Flush(ctx, 0)

	fmt.Fprintf(r.trace, "> %s", msg)
	_, err := io.WriteString(r.transport, msg)
	fmt.Fprintln(r.trace)
	if err != nil {
		r.logger.Error("Failed to send command", "command", msg, "error", err)
		return fmt.Errorf("write command %q: %w", msg, err)
	}
	return nil
}

// SendAndExpect sends cmd and waits for expect. A zero timeout uses the
// configured command timeout.
//
// Failures are logged before they are returned; sequences that proceed on a
// best effort basis may ignore the error.
func (r *Radio) SendAndExpect(ctx context.Context, cmd, expect string, timeout time.Duration) error {
	if err := r.Send(ctx, cmd); err != nil {
		return err
	}
	return r.WaitFor(ctx, expect, timeout)
}
