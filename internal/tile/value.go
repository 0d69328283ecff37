package tile

import (
	"math"

	"github.com/beetlebugorg/mvt/internal/wire"
)

// ValueKind discriminates which scalar a Value holds.
type ValueKind uint8

const (
	ValueKindString ValueKind = iota
	ValueKindFloat
	ValueKindDouble
	ValueKindInt
	ValueKindUint
	ValueKindSint
	ValueKindBool
)

// field numbers for the value record, per spec.md §6.
const (
	fieldValueString = 1
	fieldValueFloat  = 2
	fieldValueDouble = 3
	fieldValueInt    = 4
	fieldValueUint   = 5
	fieldValueSint   = 6
	fieldValueBool   = 7
)

// Value is a tagged scalar: a typed view over a single value record.
// Exactly one of its fields is meaningful, selected by Kind.
type Value struct {
	kind ValueKind
	str  string
	f32  float32
	f64  float64
	i64  int64
	u64  uint64
	s64  int64
	b    bool
}

func StringValue(v string) Value  { return Value{kind: ValueKindString, str: v} }
func FloatValue(v float32) Value  { return Value{kind: ValueKindFloat, f32: v} }
func DoubleValue(v float64) Value { return Value{kind: ValueKindDouble, f64: v} }
func IntValue(v int64) Value      { return Value{kind: ValueKindInt, i64: v} }
func UintValue(v uint64) Value    { return Value{kind: ValueKindUint, u64: v} }
func SintValue(v int64) Value     { return Value{kind: ValueKindSint, s64: v} }
func BoolValue(v bool) Value      { return Value{kind: ValueKindBool, b: v} }

// Kind reports which scalar this Value holds.
func (v Value) Kind() ValueKind { return v.kind }

func (v Value) StringVal() (string, error) {
	if v.kind != ValueKindString {
		return "", &TypeError{Reason: "value is not a string"}
	}
	return v.str, nil
}

func (v Value) FloatVal() (float32, error) {
	if v.kind != ValueKindFloat {
		return 0, &TypeError{Reason: "value is not a float"}
	}
	return v.f32, nil
}

func (v Value) DoubleVal() (float64, error) {
	if v.kind != ValueKindDouble {
		return 0, &TypeError{Reason: "value is not a double"}
	}
	return v.f64, nil
}

func (v Value) IntVal() (int64, error) {
	if v.kind != ValueKindInt {
		return 0, &TypeError{Reason: "value is not an int"}
	}
	return v.i64, nil
}

func (v Value) UintVal() (uint64, error) {
	if v.kind != ValueKindUint {
		return 0, &TypeError{Reason: "value is not a uint"}
	}
	return v.u64, nil
}

func (v Value) SintVal() (int64, error) {
	if v.kind != ValueKindSint {
		return 0, &TypeError{Reason: "value is not a sint"}
	}
	return v.s64, nil
}

func (v Value) BoolVal() (bool, error) {
	if v.kind != ValueKindBool {
		return false, &TypeError{Reason: "value is not a bool"}
	}
	return v.b, nil
}

// Equal reports whether two values carry the same kind and payload. Used by
// the linear ValueIndex implementation to dedupe during encoding (the hashed
// one compares comparableKey results instead).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueKindString:
		return v.str == o.str
	case ValueKindFloat:
		return v.f32 == o.f32
	case ValueKindDouble:
		return v.f64 == o.f64
	case ValueKindInt:
		return v.i64 == o.i64
	case ValueKindUint:
		return v.u64 == o.u64
	case ValueKindSint:
		return v.s64 == o.s64
	case ValueKindBool:
		return v.b == o.b
	default:
		return false
	}
}

// comparableKey returns a comparable representation suitable as a Go map
// key, for the hashed ValueIndex implementation.
func (v Value) comparableKey() valueMapKey {
	return valueMapKey{
		kind: v.kind,
		str:  v.str,
		f32:  v.f32,
		f64:  v.f64,
		i64:  v.i64,
		u64:  v.u64,
		s64:  v.s64,
		b:    v.b,
	}
}

type valueMapKey struct {
	kind ValueKind
	str  string
	f32  float32
	f64  float64
	i64  int64
	u64  uint64
	s64  int64
	b    bool
}

// parseValue decodes a length-delimited value record. Exactly one of the
// seven scalar fields must be present; zero or more than one is a
// FormatError.
func parseValue(data []byte) (Value, error) {
	r := wire.NewReader(data)
	var v Value
	set := false

	markSet := func() error {
		if set {
			return &FormatError{Reason: "value record has more than one scalar field set"}
		}
		set = true
		return nil
	}

	for !r.Done() {
		field, wt, ok, err := r.Next()
		if err != nil {
			return Value{}, wrapWireErr(err)
		}
		if !ok {
			break
		}
		switch field {
		case fieldValueString:
			b, err := r.Bytes()
			if err != nil {
				return Value{}, wrapWireErr(err)
			}
			if err := markSet(); err != nil {
				return Value{}, err
			}
			v = StringValue(string(b))
		case fieldValueFloat:
			u, err := r.Fixed32()
			if err != nil {
				return Value{}, wrapWireErr(err)
			}
			if err := markSet(); err != nil {
				return Value{}, err
			}
			v = FloatValue(math.Float32frombits(u))
		case fieldValueDouble:
			u, err := r.Fixed64()
			if err != nil {
				return Value{}, wrapWireErr(err)
			}
			if err := markSet(); err != nil {
				return Value{}, err
			}
			v = DoubleValue(math.Float64frombits(u))
		case fieldValueInt:
			u, err := r.Varint()
			if err != nil {
				return Value{}, wrapWireErr(err)
			}
			if err := markSet(); err != nil {
				return Value{}, err
			}
			v = IntValue(int64(u))
		case fieldValueUint:
			u, err := r.Varint()
			if err != nil {
				return Value{}, wrapWireErr(err)
			}
			if err := markSet(); err != nil {
				return Value{}, err
			}
			v = UintValue(u)
		case fieldValueSint:
			s, err := r.SVarint()
			if err != nil {
				return Value{}, wrapWireErr(err)
			}
			if err := markSet(); err != nil {
				return Value{}, err
			}
			v = SintValue(s)
		case fieldValueBool:
			u, err := r.Varint()
			if err != nil {
				return Value{}, wrapWireErr(err)
			}
			if err := markSet(); err != nil {
				return Value{}, err
			}
			v = BoolValue(u != 0)
		default:
			if err := r.Skip(wt); err != nil {
				return Value{}, wrapWireErr(err)
			}
		}
	}

	if !set {
		return Value{}, &FormatError{Reason: "value record has no scalar field set"}
	}
	return v, nil
}

// marshal serializes a Value to its standalone record bytes (the payload
// that a layer's "values" field wraps).
func (v Value) marshal() []byte {
	w := wire.NewWriter()
	switch v.kind {
	case ValueKindString:
		w.TaggedBytes(fieldValueString, []byte(v.str))
	case ValueKindFloat:
		w.TaggedFixed32(fieldValueFloat, math.Float32bits(v.f32))
	case ValueKindDouble:
		w.TaggedFixed64(fieldValueDouble, math.Float64bits(v.f64))
	case ValueKindInt:
		w.TaggedVarint(fieldValueInt, uint64(v.i64))
	case ValueKindUint:
		w.TaggedVarint(fieldValueUint, v.u64)
	case ValueKindSint:
		w.Tag(fieldValueSint, wire.Varint)
		w.SVarint(v.s64)
	case ValueKindBool:
		b := uint64(0)
		if v.b {
			b = 1
		}
		w.TaggedVarint(fieldValueBool, b)
	}
	return w.Bytes()
}
