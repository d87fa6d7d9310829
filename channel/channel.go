// Package channel implements the subscriber endpoint (spec.md §4.4): a
// directory plus a FIFO that a publisher can discover and deliver to, and
// a fetcher/subscriber reads from. Grounded on pipe.Pipe's atomic
// open/stop state machine and pipe.Direction's owned-resource shape.
package channel

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/filebus/filebus/fifo"
	"github.com/filebus/filebus/store"
	"github.com/filebus/filebus/topic"
)

// PatternFile is the sidecar a channel writes on open so publishers can
// recover the raw pattern from a sanitized directory name (spec.md §4.5,
// §9 "Pattern recovery on the publish side").
const PatternFile = "pattern"

var instanceSeq atomic.Uint64

// Channel is a live subscription endpoint. It is not safe for concurrent
// use by multiple fetchers (spec.md §4.4); distinct Channels are
// independent.
type Channel struct {
	Pattern string
	matcher *topic.Matcher

	directory string
	fifoPath  string

	opened atomic.Bool
	closed atomic.Bool

	read   *os.File
	tokens fifo.TokenReader
}

// New validates pattern, compiles its matcher, and computes this
// instance's directory path under root, without touching the filesystem
// (state "constructed" per spec.md §4.4). Call Open to create it.
func New(root, pattern string) (*Channel, error) {
	m, err := topic.Compile(pattern)
	if err != nil {
		return nil, err
	}

	suffix, err := uniqueSuffix()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(root, topic.Sanitize(pattern)+"."+suffix)
	return &Channel{
		Pattern:   pattern,
		matcher:   m,
		directory: dir,
		fifoPath:  filepath.Join(dir, fifo.Name),
	}, nil
}

func uniqueSuffix() (string, error) {
	var rbuf [4]byte
	if _, err := rand.Read(rbuf[:]); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%d-%x", os.Getpid(), instanceSeq.Add(1), binary.LittleEndian.Uint32(rbuf[:])), nil
}

// Directory returns the channel's backing directory path.
func (c *Channel) Directory() string { return c.directory }

// FifoPath returns the path to the channel's FIFO.
func (c *Channel) FifoPath() string { return c.fifoPath }

// Matcher returns the compiled matcher for this channel's pattern.
func (c *Channel) Matcher() *topic.Matcher { return c.matcher }

// IsOpen reports whether the channel is currently open.
func (c *Channel) IsOpen() bool {
	return c.opened.Load() && !c.closed.Load()
}

// Open creates the directory and FIFO, writes the pattern sidecar, and
// opens the FIFO's read end non-blocking (spec.md §4.4). Idempotent:
// calling Open again while already open is a no-op.
func (c *Channel) Open() error {
	if c.closed.Load() {
		return ErrClosed
	}
	if c.opened.Swap(true) {
		return nil
	}

	if err := os.MkdirAll(c.directory, 0o755); err != nil {
		c.opened.Store(false)
		return err
	}
	if err := fifo.Create(c.fifoPath); err != nil {
		c.opened.Store(false)
		return err
	}
	if err := os.WriteFile(filepath.Join(c.directory, PatternFile), []byte(c.Pattern), 0o644); err != nil {
		c.opened.Store(false)
		return err
	}

	rd, err := fifo.OpenRead(c.fifoPath)
	if err != nil {
		c.opened.Store(false)
		return err
	}
	c.read = rd
	return nil
}

// ReadToken reads a single delivery token (a message id) from the
// channel's FIFO, waiting at most until deadline (spec.md §4.6 step 2).
// Use deadline == time.Now() for fetch's non-blocking check, and a later
// deadline for subscribe's bounded wait. ok is false if no complete token
// arrived before the deadline.
func (c *Channel) ReadToken(deadline time.Time) (id uint64, ok bool, err error) {
	if !c.IsOpen() {
		return 0, false, ErrNotOpen
	}
	return c.tokens.ReadToken(c.read, deadline)
}

// Close closes the FIFO descriptor and recursively removes the channel
// directory and any remaining payload files (spec.md §4.4). Tolerates a
// directory already partially or fully removed. Double-close is a no-op.
func (c *Channel) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	if !c.opened.Load() {
		return nil
	}
	if c.read != nil {
		_ = c.read.Close()
	}
	if err := os.RemoveAll(c.directory); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Use constructs a channel for pattern, opens it, runs fn, and guarantees
// Close on every exit path — normal return, panic, or error (spec.md §9
// "Scoped resource acquisition").
func Use(root, pattern string, fn func(*Channel) error) error {
	c, err := New(root, pattern)
	if err != nil {
		return err
	}
	if err := c.Open(); err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

// UseDefault is Use against the process-wide storage root from store.Root.
func UseDefault(pattern string, fn func(*Channel) error) error {
	root, err := store.Root()
	if err != nil {
		return err
	}
	return Use(root, pattern, fn)
}
