// Package state reads named values and structs through attached pointer
// chains and assembles them into snapshots.
package state

import (
	"errors"
	"fmt"

	"memstate/chain"
	"memstate/memtype"
)

// ErrType is returned for a value with neither a resolvable type nor a default
var ErrType = errors.New("type error")

// Scalar is one named value read through a chain
type Scalar struct {
	name   string
	chain  *chain.Chain
	kind   memtype.Kind
	offset int64
	def    memtype.Value
}

// NewScalar reads kind at offset past c's resolved location. Several scalars
// may share one chain, in which case only its owner should Update it.
func NewScalar(name string, c *chain.Chain, kind memtype.Kind, offset int64, def memtype.Value) *Scalar {
	return &Scalar{name: name, chain: c, kind: kind, offset: offset, def: def}
}

func (s *Scalar) Name() string           { return s.name }
func (s *Scalar) Kind() memtype.Kind     { return s.kind }
func (s *Scalar) Offset() int64          { return s.offset }
func (s *Scalar) Default() memtype.Value { return s.def }
func (s *Scalar) Chain() *chain.Chain    { return s.chain }

func (s *Scalar) Update() error {
	return s.chain.Update()
}

// Deref reads the value at the configured offset
func (s *Scalar) Deref() (memtype.Value, error) {
	return s.DerefAt(s.offset)
}

// DerefAt reads the value at offset instead of the configured one. A null
// chain yields the default.
func (s *Scalar) DerefAt(offset int64) (memtype.Value, error) {
	kind := s.kind
	if kind == memtype.KindNone {
		kind = s.def.Kind()
	}
	if kind == memtype.KindNone {
		return memtype.Null(), fmt.Errorf("%s: %w: no type and no default", s.name, ErrType)
	}

	if s.chain.IsNull() {
		return s.def, nil
	}

	data, err := s.chain.DerefBytes(offset, kind.Width())
	if err != nil {
		return memtype.Null(), err
	}
	if data == nil {
		return s.def, nil
	}

	v, err := kind.Decode(data)
	if err != nil {
		return memtype.Null(), fmt.Errorf("%s: %w", s.name, err)
	}
	return v, nil
}
