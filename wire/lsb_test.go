package wire

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	assert := assert.New(t)

	var buf []byte
	buf = AppendUint8(buf, 0x7f)
	buf = AppendUint32(buf, 0xdeadbeef)
	buf = AppendUint64(buf, 0x0102030405060708)
	buf = AppendString(buf, "news.sports")

	u8, buf, err := ReadUint8(buf)
	assert.NoError(err)
	assert.EqualValues(0x7f, u8)

	u32, buf, err := ReadUint32(buf)
	assert.NoError(err)
	assert.EqualValues(0xdeadbeef, u32)

	u64, buf, err := ReadUint64(buf)
	assert.NoError(err)
	assert.EqualValues(0x0102030405060708, u64)

	s, buf, err := ReadString(buf)
	assert.NoError(err)
	assert.Equal("news.sports", s)
	assert.Empty(buf)
}

func TestShortReads(t *testing.T) {
	assert := assert.New(t)

	_, _, err := ReadUint32([]byte{0, 1})
	assert.ErrorIs(err, io.ErrUnexpectedEOF)

	_, _, err = ReadUint64([]byte{0, 1, 2, 3})
	assert.ErrorIs(err, io.ErrUnexpectedEOF)

	// length prefix claims more bytes than are present
	var buf []byte
	buf = AppendUint32(buf, 10)
	buf = append(buf, []byte("short")...)
	_, _, err = ReadBytes(buf)
	assert.ErrorIs(err, io.ErrUnexpectedEOF)
}
