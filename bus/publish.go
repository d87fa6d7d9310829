package bus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/filebus/filebus/fifo"
	"github.com/filebus/filebus/message"
	"github.com/filebus/filebus/store"
	"github.com/filebus/filebus/topic"
)

var defaultCache = newMatcherCache()

// Publish validates topic, serializes content and headers into a message,
// and fans it out to every channel directory under root whose pattern
// matches (spec.md §4.5). It returns the number of channels the message
// was successfully delivered to; unexpected filesystem errors are the
// only ones surfaced, wrapped in ErrIoError.
func Publish(root, top string, content []byte, headers map[string]any, opts Options) (int, error) {
	if err := topic.ValidatePublishTopic(top); err != nil {
		return 0, err
	}

	hdrs, err := normalizeHeaders(headers)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	msg := &message.Message{
		ID:        message.NewID(now),
		Timestamp: now.UnixMicro(),
		Topic:     top,
		Headers:   hdrs,
		Content:   content,
	}
	payload := message.Encode(msg)

	tmpPath := filepath.Join(root, fmt.Sprintf(".tmp.%d", msg.ID))
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIoError, err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("%w: %v", ErrIoError, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("%w: %v", ErrIoError, err)
	}
	defer os.Remove(tmpPath)

	dirs, err := store.ChannelDirs(root)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIoError, err)
	}

	log := opts.logger()
	count := 0
	for _, dir := range dirs {
		matcher, ok, err := defaultCache.load(dir)
		if err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("skipping channel with unreadable pattern")
			continue
		}
		if !ok || !matcher.Match(top) {
			continue
		}

		delivered, err := deliverTo(dir, msg.ID, tmpPath, opts)
		if err != nil {
			return count, err
		}
		if delivered {
			count++
		}
	}

	return count, nil
}

// deliverTo links the staged payload into dir and appends its id token to
// dir's FIFO. Expected races (EEXIST, ENOENT, ENXIO, a full pipe) resolve
// to delivered=false, nil; only unexpected errors are returned.
func deliverTo(dir string, id uint64, tmpPath string, opts Options) (delivered bool, err error) {
	payloadPath := filepath.Join(dir, strconv.FormatUint(id, 10))
	if err := os.Link(tmpPath, payloadPath); err != nil {
		if errors.Is(err, os.ErrExist) || errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrIoError, err)
	}

	w, err := fifo.OpenWriteNonblock(filepath.Join(dir, fifo.Name))
	if err != nil {
		if errors.Is(err, fifo.ErrNoReader) {
			os.Remove(payloadPath)
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrIoError, err)
	}
	defer w.Close()

	if err := fifo.WriteToken(w, id, opts.publishRetries(), opts.publishRetryDelay()); err != nil {
		os.Remove(payloadPath)
		return false, nil
	}

	return true, nil
}

func normalizeHeaders(headers map[string]any) (map[string]message.Value, error) {
	if len(headers) == 0 {
		return nil, nil
	}
	out := make(map[string]message.Value, len(headers))
	for k, v := range headers {
		val, err := message.ValueOf(v)
		if err != nil {
			return nil, err
		}
		out[k] = val
	}
	return out, nil
}
