package radio

import "errors"

var (
	// ErrNoDialer is returned when a Radio is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order to
	// open the byte stream to the radio.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrNotInitialized is returned when an operation is attempted on a Radio
	// whose Dialer produced no Transport.
	ErrNotInitialized = errors.New("radio not initialized")

	// ErrAlreadyClosed is returned when Close is called on a Radio that has
	// already been closed, or when any exchange is attempted afterwards.
	ErrAlreadyClosed = errors.New("radio already closed")

	// ErrTimeout is returned when a deadline elapses before the expected line
	// terminator or reply token arrived.
	ErrTimeout = errors.New("timeout waiting for response")

	// ErrOverflow is returned when a reply line fills the response buffer
	// before a terminator is seen.
	//
	// This typically indicates that the radio is not in command mode and is
	// forwarding payload data, or a framing error on the serial line.
	ErrOverflow = errors.New("response overflow")

	// ErrAddressMismatch is returned by Bond when the address reported by the
	// attached radio matches neither of the two supplied addresses.
	//
	// Callers should check both addresses for typos. No pairing command has
	// been sent when this error is returned.
	ErrAddressMismatch = errors.New("bonding address mismatch")

	// ErrNoData is returned by Stream.ReadByte when no byte is available.
	ErrNoData = errors.New("no data available")
)
