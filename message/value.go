package message

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/spf13/cast"
)

// Kind identifies which variant a Value holds (spec.md §3: "string, signed
// integer, double-precision float, boolean, null").
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindFloat64
	KindString
)

// Value is a tagged union over the permitted header scalar variants.
type Value struct {
	Kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

// NullValue returns the null variant.
func NullValue() Value { return Value{Kind: KindNull} }

// BoolValue wraps a bool.
func BoolValue(v bool) Value { return Value{Kind: KindBool, b: v} }

// Int64Value wraps a signed 64-bit integer.
func Int64Value(v int64) Value { return Value{Kind: KindInt64, i: v} }

// Float64Value wraps a double-precision float.
func Float64Value(v float64) Value { return Value{Kind: KindFloat64, f: v} }

// StringValue wraps a UTF-8 string.
func StringValue(v string) Value { return Value{Kind: KindString, s: v} }

// Bool returns the bool held by v, if any.
func (v Value) Bool() (bool, bool) { return v.b, v.Kind == KindBool }

// Int64 returns the int64 held by v, if any.
func (v Value) Int64() (int64, bool) { return v.i, v.Kind == KindInt64 }

// Float64 returns the float64 held by v, if any.
func (v Value) Float64() (float64, bool) { return v.f, v.Kind == KindFloat64 }

// String returns the string held by v, if any; for non-string kinds it
// returns a debug representation, not a coercion (use ValueOf for that).
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprint(v.b)
	case KindInt64:
		return fmt.Sprint(v.i)
	case KindFloat64:
		return fmt.Sprint(v.f)
	case KindString:
		return v.s
	default:
		return ""
	}
}

// Equal reports whether v and other hold the same kind and value.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.b == other.b
	case KindInt64:
		return v.i == other.i
	case KindFloat64:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	default:
		return true // null
	}
}

// ValueOf coerces a loosely-typed header value into the strict scalar
// variant set, using spf13/cast for the integer/float width zoo a caller
// may hand in (int, int32, uint16, float32, ...); a json.Number becomes an
// int64 if it parses as one, else a float64. Anything
// that isn't nil, bool, a string, or number-shaped fails InvalidHeader
// (spec.md §7).
func ValueOf(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return v, nil
	case bool:
		return BoolValue(v), nil
	case string:
		return StringValue(v), nil
	case int64:
		return Int64Value(v), nil
	case float64:
		return Float64Value(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Int64Value(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrHeaderVal, err)
		}
		return Float64Value(f), nil
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, err := cast.ToInt64E(raw)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrHeaderVal, err)
		}
		return Int64Value(i), nil
	case reflect.Float32:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrHeaderVal, err)
		}
		return Float64Value(f), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrHeaderVal, raw)
	}
}
