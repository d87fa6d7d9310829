package bus

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultOptions mirrors pipe.DefaultOptions: a non-nil logger and
// workable defaults for the publish retry policy and subscribe poll
// interval, ready to use unmodified.
var DefaultOptions = Options{
	Logger:            &log.Logger,
	PublishRetries:    3,
	PublishRetryDelay: 5 * time.Millisecond,
	PollInterval:      200 * time.Millisecond,
}

// Options configures Publish and Subscribe. A zero or negative numeric
// field falls back to the DefaultOptions value, and a nil Logger disables
// logging, so the zero value is usable as is.
type Options struct {
	Logger *zerolog.Logger // if nil, logging is disabled

	// PublishRetries bounds the number of write attempts made to a
	// channel's FIFO before the publisher gives up and unlinks the
	// payload it just placed (spec.md §4.5 step 4).
	PublishRetries int

	// PublishRetryDelay is the write deadline given to each attempt.
	PublishRetryDelay time.Duration

	// PollInterval bounds how long Subscribe waits on the FIFO between
	// checks for the cancellation signal (spec.md §4.6 step 2, §5).
	PollInterval time.Duration
}

func (o Options) logger() *zerolog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	l := zerolog.Nop()
	return &l
}

func (o Options) publishRetries() int {
	if o.PublishRetries <= 0 {
		return DefaultOptions.PublishRetries
	}
	return o.PublishRetries
}

func (o Options) publishRetryDelay() time.Duration {
	if o.PublishRetryDelay <= 0 {
		return DefaultOptions.PublishRetryDelay
	}
	return o.PublishRetryDelay
}

func (o Options) pollInterval() time.Duration {
	if o.PollInterval <= 0 {
		return DefaultOptions.PollInterval
	}
	return o.PollInterval
}
