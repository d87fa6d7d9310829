package bus

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/filebus/filebus/channel"
	"github.com/filebus/filebus/message"
)

// Fetch performs a single non-blocking read from c's FIFO (spec.md §4.6).
// It returns (nil, nil) if no message is currently available.
func Fetch(c *channel.Channel) (*message.Message, error) {
	if !c.IsOpen() {
		return nil, channel.ErrNotOpen
	}

	id, ok, err := c.ReadToken(time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIoError, err)
	}
	if !ok {
		return nil, nil
	}

	return loadMessage(c, id)
}

// loadMessage reads and decodes the payload file named id inside c's
// directory, then unlinks it. A missing file (consumed by a racing
// fetcher, or reaped) is reported as "no message", not an error.
func loadMessage(c *channel.Channel, id uint64) (*message.Message, error) {
	path := filepath.Join(c.Directory(), strconv.FormatUint(id, 10))

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrIoError, err)
	}

	msg, err := message.Decode(raw)
	if err != nil {
		return nil, err
	}

	os.Remove(path) // best-effort; a failed unlink here is cleaned up at channel close

	return msg, nil
}
