package channel

import "errors"

var (
	// ErrNotOpen is returned by operations that require an open channel.
	ErrNotOpen = errors.New("channel: not open")

	// ErrClosed is returned when an operation is attempted after Close.
	ErrClosed = errors.New("channel: closed")
)
