package tile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueRoundTrip(t *testing.T) {
	cases := []Value{
		StringValue("hello"),
		FloatValue(1.5),
		DoubleValue(3.14159),
		IntValue(-42),
		UintValue(42),
		SintValue(-7),
		BoolValue(true),
		BoolValue(false),
	}
	for _, v := range cases {
		data := v.marshal()
		got, err := parseValue(data)
		require.NoError(t, err)
		assert.True(t, v.Equal(got), "round trip mismatch for kind %v", v.Kind())
	}
}

func TestValueTypedAccessorMismatch(t *testing.T) {
	v := StringValue("x")
	_, err := v.IntVal()
	require.Error(t, err)
	assert.IsType(t, &TypeError{}, err)

	got, err := v.StringVal()
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestParseValueRejectsEmptyRecord(t *testing.T) {
	_, err := parseValue(nil)
	require.Error(t, err)
	assert.IsType(t, &FormatError{}, err)
}

func TestParseValueRejectsMultipleScalars(t *testing.T) {
	w := StringValue("a")
	data := w.marshal()
	// Append a second scalar field (uint) onto the same record.
	extra := UintValue(1).marshal()
	data = append(data, extra...)

	_, err := parseValue(data)
	require.Error(t, err)
	assert.IsType(t, &FormatError{}, err)
}

func TestValueEqual(t *testing.T) {
	assert.True(t, IntValue(5).Equal(IntValue(5)))
	assert.False(t, IntValue(5).Equal(IntValue(6)))
	assert.False(t, IntValue(5).Equal(UintValue(5)))
}
