package memtype

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a decoded read or a configured default. The zero Value is null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

func Null() Value { return Value{} }

func ByteValue(v uint8) Value     { return Value{kind: KindByte, i: int64(v)} }
func IntValue(v int32) Value      { return Value{kind: KindInt, i: int64(v)} }
func LongValue(v int64) Value     { return Value{kind: KindLong, i: v} }
func FloatValue(v float32) Value  { return Value{kind: KindFloat, f: float64(v)} }
func DoubleValue(v float64) Value { return Value{kind: KindDouble, f: v} }
func TextValue(v string) Value    { return Value{kind: KindString, s: v} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNone }

// Int64 returns the integer payload of byte, int and long values
func (v Value) Int64() int64 { return v.i }

// Float64 returns the payload of float and double values
func (v Value) Float64() float64 { return v.f }

// Text returns the payload of string values
func (v Value) Text() string { return v.s }

// Interface returns the payload as the matching Go type, nil for null
func (v Value) Interface() any {
	switch v.kind {
	case KindByte:
		return uint8(v.i)
	case KindInt:
		return int32(v.i)
	case KindLong:
		return v.i
	case KindFloat:
		return float32(v.f)
	case KindDouble:
		return v.f
	case KindString:
		return v.s
	}
	return nil
}

func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.i == o.i && v.f == o.f && v.s == o.s
}

func (v Value) String() string {
	switch v.kind {
	case KindByte, KindInt, KindLong:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case KindDouble:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	}
	return "null"
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v Value) MarshalYAML() (interface{}, error) {
	return v.Interface(), nil
}

// ParseValue converts configuration text to a value of kind k.
// Integers accept decimal or 0x-prefixed hex.
func ParseValue(k Kind, text string) (Value, error) {
	switch k {
	case KindByte:
		n, err := strconv.ParseUint(text, 0, 8)
		if err != nil {
			return Null(), fmt.Errorf("parse %s %q: %w", k, text, err)
		}
		return ByteValue(uint8(n)), nil
	case KindInt:
		n, err := strconv.ParseInt(text, 0, 32)
		if err != nil {
			return Null(), fmt.Errorf("parse %s %q: %w", k, text, err)
		}
		return IntValue(int32(n)), nil
	case KindLong:
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return Null(), fmt.Errorf("parse %s %q: %w", k, text, err)
		}
		return LongValue(n), nil
	case KindFloat:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return Null(), fmt.Errorf("parse %s %q: %w", k, text, err)
		}
		return FloatValue(float32(f)), nil
	case KindDouble:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Null(), fmt.Errorf("parse %s %q: %w", k, text, err)
		}
		return DoubleValue(f), nil
	case KindString:
		return TextValue(text), nil
	}
	return Null(), fmt.Errorf("%w: %s", ErrUnsupportedKind, k)
}
