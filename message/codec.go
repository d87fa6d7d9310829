package message

import (
	"math"

	"github.com/filebus/filebus/wire"
)

// tags for the header variant byte (spec.md §4.3)
const (
	tagNull byte = iota
	tagBool
	tagInt64
	tagFloat64
	tagString
)

// Encode serializes m into its payload-file form: a length-prefixed framed
// structure (id, timestamp, topic, headers, content), per spec.md §4.3.
func Encode(m *Message) []byte {
	buf := make([]byte, 0, 64+len(m.Topic)+len(m.Content))

	buf = wire.AppendUint64(buf, m.ID)
	buf = wire.AppendUint64(buf, uint64(m.Timestamp))
	buf = wire.AppendString(buf, m.Topic)

	buf = wire.AppendUint32(buf, uint32(len(m.Headers)))
	for k, v := range m.Headers {
		buf = wire.AppendString(buf, k)
		switch v.Kind {
		case KindNull:
			buf = wire.AppendUint8(buf, tagNull)
		case KindBool:
			buf = wire.AppendUint8(buf, tagBool)
			b, _ := v.Bool()
			if b {
				buf = wire.AppendUint8(buf, 1)
			} else {
				buf = wire.AppendUint8(buf, 0)
			}
		case KindInt64:
			buf = wire.AppendUint8(buf, tagInt64)
			i, _ := v.Int64()
			buf = wire.AppendUint64(buf, uint64(i))
		case KindFloat64:
			buf = wire.AppendUint8(buf, tagFloat64)
			f, _ := v.Float64()
			buf = wire.AppendUint64(buf, math.Float64bits(f))
		case KindString:
			buf = wire.AppendUint8(buf, tagString)
			buf = wire.AppendString(buf, v.s)
		}
	}

	buf = wire.AppendBytes(buf, m.Content)
	return buf
}

// Decode parses a payload-file buffer produced by Encode.
func Decode(buf []byte) (*Message, error) {
	id, buf, err := wire.ReadUint64(buf)
	if err != nil {
		return nil, err
	}
	ts, buf, err := wire.ReadUint64(buf)
	if err != nil {
		return nil, err
	}
	topic, buf, err := wire.ReadString(buf)
	if err != nil {
		return nil, err
	}

	count, buf, err := wire.ReadUint32(buf)
	if err != nil {
		return nil, err
	}

	var headers map[string]Value
	if count > 0 {
		headers = make(map[string]Value, count)
	}
	for i := uint32(0); i < count; i++ {
		var key string
		key, buf, err = wire.ReadString(buf)
		if err != nil {
			return nil, err
		}
		if _, dup := headers[key]; dup {
			return nil, ErrDupHeader
		}

		var tag byte
		tag, buf, err = wire.ReadUint8(buf)
		if err != nil {
			return nil, err
		}

		var val Value
		switch tag {
		case tagNull:
			val = NullValue()
		case tagBool:
			var raw byte
			raw, buf, err = wire.ReadUint8(buf)
			if err != nil {
				return nil, err
			}
			val = BoolValue(raw != 0)
		case tagInt64:
			var raw uint64
			raw, buf, err = wire.ReadUint64(buf)
			if err != nil {
				return nil, err
			}
			val = Int64Value(int64(raw))
		case tagFloat64:
			var raw uint64
			raw, buf, err = wire.ReadUint64(buf)
			if err != nil {
				return nil, err
			}
			val = Float64Value(math.Float64frombits(raw))
		case tagString:
			var s string
			s, buf, err = wire.ReadString(buf)
			if err != nil {
				return nil, err
			}
			val = StringValue(s)
		default:
			return nil, ErrTag
		}

		headers[key] = val
	}

	content, _, err := wire.ReadBytes(buf)
	if err != nil {
		return nil, err
	}

	return &Message{
		ID:        id,
		Timestamp: int64(ts),
		Topic:     topic,
		Headers:   headers,
		Content:   content,
	}, nil
}
