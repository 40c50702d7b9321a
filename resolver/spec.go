package resolver

import (
	"fmt"
	"strings"

	"memstate/memtype"
)

// ChainSpec is an unattached pointer chain: module base + Base, then one
// indirection per level, then Offset.
type ChainSpec struct {
	Base   int64
	Levels []int64
	Offset int64
}

// Target is the address another pointer referencing this one starts from
func (c ChainSpec) Target() int64 {
	return c.Base + c.Offset
}

func (c ChainSpec) String() string {
	var b strings.Builder
	b.WriteString("base" + signedHex(c.Base))
	for _, l := range c.Levels {
		b.WriteString(" ->[" + signedHex(l) + "]")
	}
	b.WriteString(" " + signedHex(c.Offset))
	return b.String()
}

func signedHex(n int64) string {
	if n < 0 {
		return fmt.Sprintf("-0x%X", -n)
	}
	return fmt.Sprintf("+0x%X", n)
}

func (c ChainSpec) clone() ChainSpec {
	if c.Levels != nil {
		c.Levels = append([]int64(nil), c.Levels...)
	}
	return c
}

type SpecKind int

const (
	SpecScalar SpecKind = iota
	SpecStruct
)

func (k SpecKind) String() string {
	if k == SpecStruct {
		return "struct"
	}
	return "scalar"
}

// Spec is one fully resolved state ready for attachment
type Spec struct {
	Name        string
	Description string
	Kind        SpecKind
	Chain       ChainSpec

	// SpecScalar
	Scalar  memtype.Kind
	Default memtype.Value

	// SpecStruct
	Struct *StructSpec
}

// StructSpec is a struct definition substituted into a state
type StructSpec struct {
	Name   string
	Pack   int
	Size   int64
	Fields []FieldSpec
}

// FieldSpec is one struct field; Offset is relative to the struct's resolved address
type FieldSpec struct {
	Name    string
	Kind    memtype.Kind
	Offset  int64
	Default memtype.Value
}

// BasePointer is one entry of the active version's base table
type BasePointer struct {
	Name  string
	Chain ChainSpec
}

// Table is the immutable output of Resolve
type Table struct {
	Version     string
	ContentHash []byte
	Module      string
	Base        []BasePointer
	Specs       []Spec
}

// Lookup returns the resolved state with the given name
func (t *Table) Lookup(name string) (*Spec, bool) {
	for i := range t.Specs {
		if t.Specs[i].Name == name {
			return &t.Specs[i], true
		}
	}
	return nil, false
}

// Names lists resolved states in declaration order
func (t *Table) Names() []string {
	names := make([]string, len(t.Specs))
	for i, s := range t.Specs {
		names[i] = s.Name
	}
	return names
}
