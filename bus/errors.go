package bus

import "errors"

var (
	// ErrInvalidArgument is returned for a negative Subscribe timeout
	// (spec.md §6, §4.6 step 1).
	ErrInvalidArgument = errors.New("bus: invalid argument")

	// ErrIoError wraps an unexpected filesystem/FIFO failure during
	// Publish or Fetch — never the expected races of spec.md §4.5/§4.6
	// (EEXIST, ENOENT, ENXIO, EAGAIN), which are handled silently.
	ErrIoError = errors.New("bus: io error")
)
