package bus

import (
	"os"
	"path/filepath"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/filebus/filebus/channel"
	"github.com/filebus/filebus/topic"
)

// matcherCache holds compiled matchers recovered from channel directories'
// pattern sidecar files, keyed by directory path and invalidated by the
// sidecar's mtime (spec.md §4.5, §9 "Pattern recovery on the publish
// side"). Grounded on the teacher's thread-safe Pipe.KV store.
type matcherCache struct {
	m *xsync.MapOf[string, cachedMatcher]
}

type cachedMatcher struct {
	mtime   time.Time
	matcher *topic.Matcher
}

func newMatcherCache() *matcherCache {
	return &matcherCache{m: xsync.NewMapOf[string, cachedMatcher]()}
}

// load returns the compiled matcher for the channel directory dir,
// reusing a cached copy if the pattern sidecar's mtime has not changed.
// A missing sidecar (channel closed mid-enumeration) reports ok=false.
func (c *matcherCache) load(dir string) (m *topic.Matcher, ok bool, err error) {
	sidecar := filepath.Join(dir, channel.PatternFile)
	fi, statErr := os.Stat(sidecar)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return nil, false, nil
		}
		return nil, false, statErr
	}

	if cached, found := c.m.Load(dir); found && cached.mtime.Equal(fi.ModTime()) {
		return cached.matcher, true, nil
	}

	raw, err := os.ReadFile(sidecar)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	matcher, err := topic.Compile(string(raw))
	if err != nil {
		return nil, false, err
	}

	c.m.Store(dir, cachedMatcher{mtime: fi.ModTime(), matcher: matcher})
	return matcher, true, nil
}
