package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseHex reads an offset or address. Every numeric field of the document is
// hexadecimal; the 0x prefix is optional and a leading sign is allowed.
func parseHex(text string) (int64, error) {
	s := strings.TrimSpace(text)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return 0, fmt.Errorf("%w: %q", ErrMalformedHex, text)
	}

	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedHex, text)
	}
	if neg {
		if n > 1<<63 {
			return 0, fmt.Errorf("%w: %q out of range", ErrMalformedHex, text)
		}
		return int64(-n), nil
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q out of range", ErrMalformedHex, text)
	}
	return int64(n), nil
}

// isHexLiteral reports whether an address field holds a literal rather than a symbol.
// Only 0x-prefixed text is a literal there; bare words are pointer names.
func isHexLiteral(text string) bool {
	s := strings.TrimSpace(text)
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

func formatHex(n int64) string {
	if n < 0 {
		return fmt.Sprintf("-0x%X", -n)
	}
	return fmt.Sprintf("0x%X", n)
}
