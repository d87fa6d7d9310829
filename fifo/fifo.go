// Package fifo wraps the POSIX named-pipe primitives the delivery queue is
// built on (spec.md §4.4/§4.5/§5): mkfifo, non-blocking open of either end,
// and the small token protocol written to/read from the pipe.
package fifo

import (
	"bytes"
	"errors"
	"os"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

// Name is the fixed filename of the FIFO inside a channel directory.
const Name = "queue"

var (
	// ErrNoReader means the FIFO's read end is not held open by anyone —
	// the owning channel is gone (spec.md §4.5, ENXIO).
	ErrNoReader = errors.New("fifo: no reader")

	// ErrWouldBlock means a non-blocking write could not complete because
	// the pipe buffer is full (spec.md §4.5, EAGAIN).
	ErrWouldBlock = errors.New("fifo: write would block")
)

// Create makes a FIFO at path, mode 0o644 (spec.md §4.4).
func Create(path string) error {
	return unix.Mkfifo(path, 0o644)
}

// OpenRead opens the read end of the FIFO at path, non-blocking, as the
// owning channel does on Open() (spec.md §4.4). The descriptor is opened
// read-write so that it also counts as a writer: a read with no publisher
// attached then waits for its deadline instead of returning end-of-file.
func OpenRead(path string) (*os.File, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}

// OpenWriteNonblock opens the write end of the FIFO at path, non-blocking,
// as a publisher does for each matching channel (spec.md §4.5).
func OpenWriteNonblock(path string) (*os.File, error) {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		if errors.Is(err, unix.ENXIO) {
			return nil, ErrNoReader
		}
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}

// WriteToken writes id as a decimal string terminated by a newline, the
// token a subscriber reads to learn a payload file's name (spec.md §4.5).
// A single id is well under PIPE_BUF, so the kernel serializes concurrent
// publishers writing to the same FIFO (spec.md §5).
//
// The FIFO's non-blocking open (OpenWriteNonblock) makes the kernel fail
// the write immediately instead of blocking the caller, but os.File's
// runtime poller integration hides that from a plain Write — so each
// attempt is bounded with a write deadline instead, and a deadline expiry
// is treated the same as EAGAIN. If the pipe buffer is still full after
// maxAttempts, WriteToken gives up with ErrWouldBlock, matching the
// "bounded retry then skip" policy in spec.md §4.5.
func WriteToken(f *os.File, id uint64, maxAttempts int, retryDelay time.Duration) error {
	tok := strconv.AppendUint(nil, id, 10)
	tok = append(tok, '\n')

	for attempt := 0; ; attempt++ {
		_ = f.SetWriteDeadline(time.Now().Add(retryDelay))
		_, err := f.Write(tok)
		if err == nil {
			_ = f.SetWriteDeadline(time.Time{})
			return nil
		}
		if !errors.Is(err, os.ErrDeadlineExceeded) && !errors.Is(err, unix.EAGAIN) {
			return err
		}
		if attempt+1 >= maxAttempts {
			return ErrWouldBlock
		}
	}
}

// TokenReader accumulates bytes read from a FIFO's read end across calls
// to ReadToken, since a token may arrive split across reads.
type TokenReader struct {
	buf []byte
}

// ReadToken waits until deadline for a complete newline-terminated id
// token to become available on f, for the same poller-integration reason
// documented on WriteToken. Use a deadline of time.Now() for fetch's
// non-blocking single check (spec.md §4.6 step 2); use a deadline further
// out to implement subscribe's bounded wait (spec.md §4.6 step 2, §5).
// A deadline that is not in the future is widened to one millisecond from
// now, since os.File.Read fails without reading once its deadline has
// passed. ok is false if no complete token was read before the deadline.
func (r *TokenReader) ReadToken(f *os.File, deadline time.Time) (id uint64, ok bool, err error) {
	if !deadline.After(time.Now()) {
		deadline = time.Now().Add(time.Millisecond)
	}
	_ = f.SetReadDeadline(deadline)

	var chunk [256]byte
	n, rerr := f.Read(chunk[:])
	if n > 0 {
		r.buf = append(r.buf, chunk[:n]...)
	}
	if rerr != nil && n == 0 && !errors.Is(rerr, os.ErrDeadlineExceeded) && !errors.Is(rerr, unix.EAGAIN) {
		return 0, false, rerr
	}

	nl := bytes.IndexByte(r.buf, '\n')
	if nl < 0 {
		return 0, false, nil
	}

	line := r.buf[:nl]
	id, err = strconv.ParseUint(string(line), 10, 64)
	r.buf = append([]byte(nil), r.buf[nl+1:]...)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}
