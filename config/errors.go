package config

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is the root of every configuration error
	ErrConfig = errors.New("config error")

	ErrMalformedDocument = fmt.Errorf("%w: malformed document", ErrConfig)
	ErrMissingName       = fmt.Errorf("%w: missing name", ErrConfig)
	ErrDuplicateName     = fmt.Errorf("%w: duplicate name", ErrConfig)
	ErrMalformedHex      = fmt.Errorf("%w: malformed hex literal", ErrConfig)
	ErrMalformedDefault  = fmt.Errorf("%w: malformed default", ErrConfig)
)

// at prefixes err with the document path it was found at
func at(path string, err error) error {
	return fmt.Errorf("%s: %w", path, err)
}
