package resolver

import (
	"fmt"

	"memstate/config"
)

// All resolution errors are configuration errors
var (
	ErrNoVersion           = fmt.Errorf("%w: no game version declared", config.ErrConfig)
	ErrAmbiguousVersion    = fmt.Errorf("%w: more than one game version and none selected", config.ErrConfig)
	ErrUnknownVersion      = fmt.Errorf("%w: unknown game version", config.ErrConfig)
	ErrMissingAddress      = fmt.Errorf("%w: missing address", config.ErrConfig)
	ErrUnresolvedReference = fmt.Errorf("%w: unresolved reference", config.ErrConfig)
	ErrReferenceCycle      = fmt.Errorf("%w: reference cycle", config.ErrConfig)
	ErrUnknownType         = fmt.Errorf("%w: unknown type", config.ErrConfig)
	ErrUnsupportedType     = fmt.Errorf("%w: unsupported type", config.ErrConfig)
	ErrLevelsConflict      = fmt.Errorf("%w: levels declared on both pointer and its target", config.ErrConfig)
	ErrStructDefault       = fmt.Errorf("%w: struct states take defaults per field", config.ErrConfig)
)
