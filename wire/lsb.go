// Package wire provides the little-endian framing primitives used to encode
// and decode payload files (spec.md §4.3: "all integers little-endian").
package wire

import (
	"encoding/binary"
	"io"
)

// Lsb is the byte order used by every field in a payload file.
var Lsb = binary.LittleEndian

// AppendUint8 appends v to dst.
func AppendUint8(dst []byte, v uint8) []byte {
	return append(dst, v)
}

// AppendUint32 appends v to dst in little-endian order.
func AppendUint32(dst []byte, v uint32) []byte {
	return Lsb.AppendUint32(dst, v)
}

// AppendUint64 appends v to dst in little-endian order.
func AppendUint64(dst []byte, v uint64) []byte {
	return Lsb.AppendUint64(dst, v)
}

// AppendBytes appends a u32 length prefix followed by b.
func AppendBytes(dst []byte, b []byte) []byte {
	dst = AppendUint32(dst, uint32(len(b)))
	return append(dst, b...)
}

// AppendString appends a u32 length prefix followed by s.
func AppendString(dst []byte, s string) []byte {
	return AppendBytes(dst, []byte(s))
}

// ReadUint8 consumes one byte from src, returning the remainder.
func ReadUint8(src []byte) (v uint8, rest []byte, err error) {
	if len(src) < 1 {
		return 0, nil, io.ErrUnexpectedEOF
	}
	return src[0], src[1:], nil
}

// ReadUint32 consumes 4 little-endian bytes from src.
func ReadUint32(src []byte) (v uint32, rest []byte, err error) {
	if len(src) < 4 {
		return 0, nil, io.ErrUnexpectedEOF
	}
	return Lsb.Uint32(src), src[4:], nil
}

// ReadUint64 consumes 8 little-endian bytes from src.
func ReadUint64(src []byte) (v uint64, rest []byte, err error) {
	if len(src) < 8 {
		return 0, nil, io.ErrUnexpectedEOF
	}
	return Lsb.Uint64(src), src[8:], nil
}

// ReadBytes consumes a u32-length-prefixed byte string from src.
func ReadBytes(src []byte) (v []byte, rest []byte, err error) {
	n, rest, err := ReadUint32(src)
	if err != nil {
		return nil, nil, err
	}
	if uint32(len(rest)) < n {
		return nil, nil, io.ErrUnexpectedEOF
	}
	return rest[:n], rest[n:], nil
}

// ReadString consumes a u32-length-prefixed UTF-8 string from src.
func ReadString(src []byte) (v string, rest []byte, err error) {
	b, rest, err := ReadBytes(src)
	if err != nil {
		return "", nil, err
	}
	return string(b), rest, nil
}
