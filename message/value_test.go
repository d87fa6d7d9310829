package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueOfCoercion(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		name string
		in   any
		kind Kind
	}{
		{"nil", nil, KindNull},
		{"bool", true, KindBool},
		{"string", "hi", KindString},
		{"int64", int64(7), KindInt64},
		{"int", 7, KindInt64},
		{"int32", int32(7), KindInt64},
		{"uint16", uint16(7), KindInt64},
		{"float64", 0.5, KindFloat64},
		{"float32", float32(0.5), KindFloat64},
	}
	for _, tt := range tests {
		v, err := ValueOf(tt.in)
		assert.NoErrorf(err, "case %s", tt.name)
		assert.Equalf(tt.kind, v.Kind, "case %s", tt.name)
	}
}

func TestValueOfRejectsNonScalar(t *testing.T) {
	assert := assert.New(t)

	_, err := ValueOf([]int{1, 2})
	assert.ErrorIs(err, ErrHeaderVal)

	_, err = ValueOf(map[string]int{"a": 1})
	assert.ErrorIs(err, ErrHeaderVal)
}
