package bus

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/filebus/filebus/channel"
	"github.com/filebus/filebus/message"
)

// Subscribe loops fetching messages from c and invoking cb for each one,
// until timeout elapses or the process receives SIGINT/SIGTERM (spec.md
// §4.6, §5). timeout == 0 means run until signalled. A negative timeout
// fails with ErrInvalidArgument. A callback error aborts the loop and is
// returned with the partial processed count.
func Subscribe(c *channel.Channel, cb func(*message.Message) error, timeout time.Duration, opts Options) (processed int, err error) {
	if timeout < 0 {
		return 0, ErrInvalidArgument
	}
	if !c.IsOpen() {
		return 0, channel.ErrNotOpen
	}

	var deadline time.Time
	hasDeadline := timeout > 0
	if hasDeadline {
		deadline = time.Now().Add(timeout)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	poll := opts.pollInterval()
	for {
		select {
		case <-stop:
			return processed, nil
		default:
		}

		wait := poll
		if hasDeadline {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return processed, nil
			}
			if remaining < wait {
				wait = remaining
			}
		}

		id, ok, err := c.ReadToken(time.Now().Add(wait))
		if err != nil {
			return processed, err
		}
		if !ok {
			continue
		}

		msg, err := loadMessage(c, id)
		if err != nil {
			return processed, err
		}
		if msg == nil {
			continue
		}

		if err := cb(msg); err != nil {
			return processed, err
		}
		processed++
	}
}
