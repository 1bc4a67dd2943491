//go:build tinygo

package radio

import (
	"context"
	"errors"
	"machine"
)

// UARTDialer attaches to the radio through a microcontroller UART.
type UARTDialer struct {
	UART *machine.UART
	// BaudRate defaults to 115200, the radio's factory speed.
	BaudRate uint32
	TX, RX   machine.Pin
}

// Dial configures the UART. It is the equivalent of the "begin" call on
// boards without an operating system.
func (d UARTDialer) Dial(ctx context.Context) (Transport, error) {
	if d.UART == nil {
		return nil, errors.New("btbond: uart is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	baud := d.BaudRate
	if baud == 0 {
		baud = 115200
	}
	if err := d.UART.Configure(machine.UARTConfig{BaudRate: baud, TX: d.TX, RX: d.RX}); err != nil {
		return nil, err
	}
	return uartTransport{d.UART}, nil
}

type uartTransport struct {
	*machine.UART
}

func (t uartTransport) ReadByte() (byte, error) {
	if t.UART.Buffered() == 0 {
		return 0, ErrNoData
	}
	return t.UART.ReadByte()
}

// Close is a no-op; the UART belongs to the board.
func (t uartTransport) Close() error {
	return nil
}
