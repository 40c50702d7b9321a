// Package memtype is the catalog of value kinds a state can be read as, and
// the tagged Value those reads and configured defaults share.
package memtype

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

var (
	ErrUnsupportedKind = errors.New("unsupported kind")
	ErrShortRead       = errors.New("short read")
)

// Kind is one of the closed set of scalar kinds
type Kind uint8

const (
	KindNone Kind = iota
	KindByte
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindString
	KindDecimal
)

// TextUnits is the fixed number of UTF-16 code units read for KindString
const TextUnits = 100

var kindNames = [...]string{
	KindNone:    "none",
	KindByte:    "byte",
	KindInt:     "int",
	KindLong:    "long",
	KindFloat:   "float",
	KindDouble:  "double",
	KindString:  "string",
	KindDecimal: "decimal",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Width is the number of bytes one value of the kind occupies in memory
func (k Kind) Width() int {
	switch k {
	case KindByte:
		return 1
	case KindInt, KindFloat:
		return 4
	case KindLong, KindDouble:
		return 8
	case KindString:
		return TextUnits * 2
	case KindDecimal:
		return 16
	}
	return 0
}

// Supported reports whether the kind has defined read semantics
func (k Kind) Supported() bool {
	return k != KindNone && k != KindDecimal && int(k) < len(kindNames)
}

// LookupKind maps a declared type name to its kind, ignoring case
func LookupKind(name string) (Kind, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if Kind(k) != KindNone && n == lower {
			return Kind(k), true
		}
	}
	return KindNone, false
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Decode interprets little-endian bytes as a value of kind k
func (k Kind) Decode(data []byte) (Value, error) {
	if !k.Supported() {
		return Null(), fmt.Errorf("%w: %s", ErrUnsupportedKind, k)
	}
	if len(data) < k.Width() {
		return Null(), fmt.Errorf("%w: %s needs %d bytes, got %d", ErrShortRead, k, k.Width(), len(data))
	}

	switch k {
	case KindByte:
		return ByteValue(data[0]), nil
	case KindInt:
		return IntValue(int32(binary.LittleEndian.Uint32(data))), nil
	case KindLong:
		return LongValue(int64(binary.LittleEndian.Uint64(data))), nil
	case KindFloat:
		return FloatValue(math.Float32frombits(binary.LittleEndian.Uint32(data))), nil
	case KindDouble:
		return DoubleValue(math.Float64frombits(binary.LittleEndian.Uint64(data))), nil
	}

	// KindString: trim at the first NUL code unit
	n := k.Width()
	for i := 0; i+1 < n; i += 2 {
		if data[i] == 0 && data[i+1] == 0 {
			n = i
			break
		}
	}
	text, err := utf16le.NewDecoder().Bytes(data[:n])
	if err != nil {
		return Null(), fmt.Errorf("decode text: %w", err)
	}
	return TextValue(string(text)), nil
}
