//go:build !tinygo

package radio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"
)

// pollReadTimeout bounds the read issued by Buffered when nothing is queued.
const pollReadTimeout = time.Millisecond

// serialPort is the subset of serial.Port used by serialTransport.
type serialPort interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
	Close() error
}

// SerialDialer opens the radio over a host serial port using go.bug.st/serial.
type SerialDialer struct {
	// PortName is the device path, e.g. "/dev/ttyUSB0" or "COM3".
	PortName string
	// Mode is the line configuration. When nil the radio default of
	// 115200 8N1 is used.
	Mode *serial.Mode
}

// Dial opens the serial port. The input buffer is discarded so that stale
// bytes from before the dial are not taken as replies.
func (d SerialDialer) Dial(ctx context.Context) (Transport, error) {
	if ctx == nil {
		return nil, errors.New("btbond: context is nil")
	}
	if d.PortName == "" {
		return nil, errors.New("btbond: serial port name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := d.Mode
	if mode == nil {
		mode = &serial.Mode{
			BaudRate: 115200,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		}
	}

	port, err := serial.Open(d.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", d.PortName, err)
	}
	t, err := newSerialTransport(port)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("configure serial port %s: %w", d.PortName, err)
	}
	return t, nil
}

// serialTransport adapts a blocking serial port to Stream. Buffered issues a
// read bounded by pollReadTimeout whenever its queue is empty.
type serialTransport struct {
	port    serialPort
	pending []byte
	scratch [64]byte
	err     error
}

func newSerialTransport(port serialPort) (*serialTransport, error) {
	if err := port.SetReadTimeout(pollReadTimeout); err != nil {
		return nil, err
	}
	if err := port.ResetInputBuffer(); err != nil {
		return nil, err
	}
	return &serialTransport{port: port}, nil
}

// Buffered returns the number of queued bytes. A latched read error counts
// as one readable byte so that the next ReadByte reports it.
func (t *serialTransport) Buffered() int {
	if len(t.pending) == 0 && t.err == nil {
		n, err := t.port.Read(t.scratch[:])
		if n > 0 {
			t.pending = append(t.pending, t.scratch[:n]...)
		}
		if err != nil {
			t.err = err
		}
	}
	if len(t.pending) == 0 && t.err != nil {
		return 1
	}
	return len(t.pending)
}

func (t *serialTransport) ReadByte() (byte, error) {
	if len(t.pending) == 0 {
		if t.err != nil {
			return 0, t.err
		}
		return 0, ErrNoData
	}
	c := t.pending[0]
	t.pending = t.pending[1:]
	return c, nil
}

func (t *serialTransport) Write(p []byte) (int, error) {
	return t.port.Write(p)
}

func (t *serialTransport) Close() error {
	return t.port.Close()
}
