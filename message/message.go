// Package message represents a pub/sub message and its on-disk payload-file
// encoding (spec.md §3, §4.3).
package message

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// idRandomBits is K in spec.md §4.3's "(now_microseconds() << K) |
// random_bits(K)"; 20 bits keeps same-microsecond collisions negligible
// while leaving 44 bits for the timestamp component. Only the low 44 bits
// of the microsecond clock survive the shift, so that component wraps
// about every 203 days (2^44 microseconds).
const idRandomBits = 20

// Message is an immutable record delivered to exactly one fetcher per
// channel (spec.md §3).
type Message struct {
	ID        uint64
	Timestamp int64 // microseconds since epoch, at publish time
	Topic     string
	Headers   map[string]Value
	Content   []byte
}

// NewID generates a message id: a microsecond timestamp shifted left by
// idRandomBits, with the low bits filled from crypto/rand.
func NewID(now time.Time) uint64 {
	us := uint64(now.UnixMicro())

	var rbuf [4]byte
	_, _ = rand.Read(rbuf[:])
	r := binary.LittleEndian.Uint32(rbuf[:]) & (1<<idRandomBits - 1)

	return us<<idRandomBits | uint64(r)
}
