// Package resolver turns a configuration into a table of fully resolved
// state descriptions: absolute or symbolic addresses become module-relative
// chains, pointer-chain shape is inherited from referenced pointers and struct
// type names are replaced by their definitions.
package resolver

import (
	"errors"
	"fmt"

	"memstate/config"
	"memstate/memtype"
)

// Options controls a resolution pass
type Options struct {
	// Version selects the active game version. It may be empty when the
	// configuration declares exactly one version.
	Version string
}

// Resolve validates cfg and builds the resolved table. Every problem found is
// reported in the returned error; no partial table is ever returned. cfg is
// not modified, so resolving the same configuration twice yields equal tables.
func Resolve(cfg *config.Config, opts Options) (*Table, error) {
	version, err := selectVersion(cfg, opts.Version)
	if err != nil {
		return nil, err
	}

	r := &resolution{
		cfg:      cfg,
		catalog:  memtype.NewCatalog(cfg.StructNames()...),
		base:     make(map[string]ChainSpec),
		resolved: make(map[string]ChainSpec),
		failed:   make(map[string]error),
		specs:    make(map[string]Spec),
	}

	table := &Table{
		Version:     version.Name,
		ContentHash: append([]byte(nil), version.ContentHash...),
		Module:      cfg.ModuleName(),
	}

	// Base pointers depend on nothing and are resolved first
	var errs []error
	for _, p := range version.Pointers {
		if p.Address.Kind != config.AddressLiteral {
			errs = append(errs, fmt.Errorf("game_versions.%s.pointers.%s: %w", version.Name, p.Name, ErrMissingAddress))
			continue
		}
		chain := ChainSpec{Base: p.Address.Literal, Levels: cloneLevels(p.Levels), Offset: p.Offset}
		r.base[p.Name] = chain
		table.Base = append(table.Base, BasePointer{Name: p.Name, Chain: chain.clone()})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	r.resolveStates()

	for _, p := range cfg.States {
		if err, bad := r.failed[p.Name]; bad {
			errs = append(errs, fmt.Errorf("states.%s: %w", p.Name, err))
			continue
		}
		table.Specs = append(table.Specs, r.specs[p.Name])
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return table, nil
}

func selectVersion(cfg *config.Config, name string) (*config.VersionDescriptor, error) {
	if name != "" {
		if v := cfg.Version(name); v != nil {
			return v, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, name)
	}

	switch len(cfg.Versions) {
	case 0:
		return nil, ErrNoVersion
	case 1:
		return cfg.Versions[0], nil
	}

	names := make([]string, len(cfg.Versions))
	for i, v := range cfg.Versions {
		names[i] = v.Name
	}
	return nil, fmt.Errorf("%w: %q", ErrAmbiguousVersion, names)
}

type resolution struct {
	cfg      *config.Config
	catalog  *memtype.Catalog
	base     map[string]ChainSpec
	resolved map[string]ChainSpec
	failed   map[string]error
	specs    map[string]Spec
}

// resolveStates resolves states in passes over a work list: a state whose
// target is another unresolved state is deferred to the next pass. A pass
// without progress leaves only missing targets and cycles.
func (r *resolution) resolveStates() {
	pending := r.cfg.States

	for len(pending) > 0 {
		var deferred []*config.PointerDescriptor
		for _, p := range pending {
			chain, wait, err := r.resolveAddress(p)
			if wait {
				deferred = append(deferred, p)
				continue
			}
			if err == nil {
				var spec Spec
				spec, err = r.resolveType(p, chain)
				if err == nil {
					r.resolved[p.Name] = chain
					r.specs[p.Name] = spec
					continue
				}
			}
			r.failed[p.Name] = err
		}

		if len(deferred) == len(pending) {
			for _, p := range deferred {
				r.failed[p.Name] = fmt.Errorf("%w: %s -> %s", ErrReferenceCycle, p.Name, p.Address.Symbol)
			}
			return
		}
		pending = deferred
	}
}

// resolveAddress computes the chain of one state. wait is set when the target
// is a state that has not been resolved yet.
func (r *resolution) resolveAddress(p *config.PointerDescriptor) (chain ChainSpec, wait bool, err error) {
	switch p.Address.Kind {
	case config.AddressLiteral:
		return ChainSpec{Base: p.Address.Literal, Levels: cloneLevels(p.Levels), Offset: p.Offset}, false, nil

	case config.AddressNone:
		// a state named like a base pointer of the active version refers to it
		target, ok := r.base[p.Name]
		if !ok {
			return ChainSpec{}, false, ErrMissingAddress
		}
		chain, err = inherit(p, target)
		return chain, false, err
	}

	symbol := p.Address.Symbol
	if target, ok := r.base[symbol]; ok {
		chain, err = inherit(p, target)
		return chain, false, err
	}
	if target, ok := r.resolved[symbol]; ok {
		chain, err = inherit(p, target)
		return chain, false, err
	}
	if _, bad := r.failed[symbol]; bad {
		return ChainSpec{}, false, fmt.Errorf("%w: %s failed to resolve", ErrUnresolvedReference, symbol)
	}
	if r.cfg.State(symbol) != nil && symbol != p.Name {
		return ChainSpec{}, true, nil
	}
	if symbol == p.Name {
		return ChainSpec{}, false, fmt.Errorf("%w: %s refers to itself", ErrReferenceCycle, symbol)
	}
	return ChainSpec{}, false, fmt.Errorf("%w: %s", ErrUnresolvedReference, symbol)
}

// inherit starts p at target's resolved address and takes over target's
// levels when p declares none. Levels on both sides are ambiguous.
func inherit(p *config.PointerDescriptor, target ChainSpec) (ChainSpec, error) {
	chain := ChainSpec{
		Base:   target.Target(),
		Levels: cloneLevels(p.Levels),
		Offset: p.Offset,
	}
	if len(target.Levels) > 0 {
		if p.HasLevels() {
			return ChainSpec{}, fmt.Errorf("%w: %s declares %d levels and its target has %d", ErrLevelsConflict, p.Name, len(p.Levels), len(target.Levels))
		}
		chain.Levels = cloneLevels(target.Levels)
	}
	return chain, nil
}

func (r *resolution) resolveType(p *config.PointerDescriptor, chain ChainSpec) (Spec, error) {
	spec := Spec{
		Name:        p.Name,
		Description: p.Description,
		Kind:        SpecScalar,
		Chain:       chain,
		Default:     p.Default,
	}

	if p.Type == "" {
		// the default's kind stands in for the type; with neither the state
		// stays typeless and fails when read
		spec.Scalar = p.Default.Kind()
		return spec, nil
	}

	ref := r.catalog.Resolve(p.Type)
	switch ref.Ref {
	case memtype.RefScalar:
		if !ref.Kind.Supported() {
			return Spec{}, fmt.Errorf("%w: %s", ErrUnsupportedType, ref.Kind)
		}
		spec.Scalar = ref.Kind
		return spec, nil

	case memtype.RefStruct:
		if !p.Default.IsNull() {
			return Spec{}, fmt.Errorf("%w: %s has a default and type %s", ErrStructDefault, p.Name, ref.Struct)
		}
		sd := r.cfg.Struct(ref.Struct)
		st, err := r.resolveStruct(sd)
		if err != nil {
			return Spec{}, err
		}
		if len(sd.Levels) > 0 {
			if len(chain.Levels) > 0 {
				return Spec{}, fmt.Errorf("%w: %s has levels and struct %s declares levels too", ErrLevelsConflict, p.Name, sd.Name)
			}
			spec.Chain.Levels = cloneLevels(sd.Levels)
		}
		spec.Kind = SpecStruct
		spec.Chain.Offset += sd.BaseOffset
		spec.Struct = st
		return spec, nil
	}

	return Spec{}, fmt.Errorf("%w: %q", ErrUnknownType, p.Type)
}

func (r *resolution) resolveStruct(sd *config.StructDescriptor) (*StructSpec, error) {
	st := &StructSpec{Name: sd.Name, Pack: sd.Pack, Size: sd.Size}
	for _, f := range sd.Fields {
		kind := f.Default.Kind()
		if f.Type != "" {
			k, ok := memtype.LookupKind(f.Type)
			if !ok {
				return nil, fmt.Errorf("%w: field %s.%s has type %q", ErrUnknownType, sd.Name, f.Name, f.Type)
			}
			if !k.Supported() {
				return nil, fmt.Errorf("%w: field %s.%s has type %s", ErrUnsupportedType, sd.Name, f.Name, k)
			}
			kind = k
		}
		st.Fields = append(st.Fields, FieldSpec{Name: f.Name, Kind: kind, Offset: f.Offset, Default: f.Default})
	}
	return st, nil
}

func cloneLevels(levels []int64) []int64 {
	if len(levels) == 0 {
		return nil
	}
	return append([]int64(nil), levels...)
}
