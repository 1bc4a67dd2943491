package radio

import (
	"context"
	"io"
)

//go:generate go tool mockgen -source=transport.go -destination=mock_transport.go -package=radio

// Stream is the byte stream to the radio as seen by the polling loops.
//
// Buffered reports how many bytes can be read without blocking and must
// never block itself. ReadByte consumes one byte and returns ErrNoData when
// nothing is available. The method set matches TinyGo's *machine.UART so a
// hardware UART can be used directly.
type Stream interface {
	Buffered() int
	ReadByte() (byte, error)
	io.Writer
}

// Transport is an established connection to the radio.
//
// Typical implementations include serial ports on a host, a UART on a
// microcontroller, or in-memory fakes used for testing.
type Transport interface {
	Stream
	io.Closer
}

// Dialer opens a Transport to the radio.
//
// Dialer abstracts how the connection is created and is intended to be used
// during construction only. Once a Transport is obtained, the Dialer is no
// longer needed.
type Dialer interface {
	// Dial creates and returns a connected Transport. It may perform blocking
	// operations and should respect cancellation of the context.
	Dial(ctx context.Context) (Transport, error)
}
