package memtype

// RefKind says what a declared type name refers to
type RefKind int

const (
	RefUnknown RefKind = iota
	RefScalar
	RefStruct
)

// TypeRef is the result of resolving a declared type name
type TypeRef struct {
	Ref    RefKind
	Kind   Kind   // set for RefScalar
	Struct string // set for RefStruct
}

// Catalog resolves type names against the scalar kinds and the declared structs.
// Scalar names win over struct names; struct names are case sensitive.
type Catalog struct {
	structs map[string]struct{}
}

func NewCatalog(structNames ...string) *Catalog {
	c := &Catalog{structs: make(map[string]struct{}, len(structNames))}
	for _, name := range structNames {
		c.structs[name] = struct{}{}
	}
	return c
}

func (c *Catalog) Resolve(name string) TypeRef {
	if k, ok := LookupKind(name); ok {
		return TypeRef{Ref: RefScalar, Kind: k}
	}
	if _, ok := c.structs[name]; ok {
		return TypeRef{Ref: RefStruct, Struct: name}
	}
	return TypeRef{Ref: RefUnknown}
}
