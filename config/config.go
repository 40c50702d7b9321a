// Package config is the typed model of a state table configuration: game
// versions with their base pointers, state pointer declarations and struct
// declarations. Entities are built once by Load and never mutated afterwards.
package config

import (
	"memstate/memtype"
)

// Config is one parsed configuration document
type Config struct {
	GameName string
	GameID   string
	GameExe  string
	Module   string // module whose base address chains are relative to; GameExe when empty

	Versions []*VersionDescriptor
	States   []*PointerDescriptor
	Structs  []*StructDescriptor
}

// VersionDescriptor is one supported build of the target program
type VersionDescriptor struct {
	Name        string
	Description string
	ContentHash []byte
	Pointers    []*PointerDescriptor
}

type AddressKind int

const (
	AddressNone AddressKind = iota
	AddressLiteral
	AddressSymbol
)

// Address is either an absolute offset or the name of another pointer
type Address struct {
	Kind    AddressKind
	Literal int64
	Symbol  string
}

func (a Address) String() string {
	switch a.Kind {
	case AddressLiteral:
		return formatHex(a.Literal)
	case AddressSymbol:
		return a.Symbol
	}
	return "<none>"
}

// PointerDescriptor declares a base pointer (under a version) or a state
type PointerDescriptor struct {
	Name        string
	Description string
	Address     Address
	Levels      []int64 // nil when not declared
	Offset      int64
	Type        string
	Default     memtype.Value
}

// HasLevels reports whether the descriptor declares its own indirections
func (p *PointerDescriptor) HasLevels() bool {
	return len(p.Levels) > 0
}

// StructDescriptor declares a composite read through one shared chain.
// Pack and Size are informational and never take part in offset computation.
type StructDescriptor struct {
	Name        string
	Description string
	BaseOffset  int64
	Levels      []int64
	Pack        int
	Size        int64
	Fields      []*FieldDescriptor
}

// FieldDescriptor is one scalar member of a struct
type FieldDescriptor struct {
	Name    string
	Type    string
	Offset  int64
	Default memtype.Value
}

// Version returns the named version, or nil
func (c *Config) Version(name string) *VersionDescriptor {
	for _, v := range c.Versions {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// State returns the named state declaration, or nil
func (c *Config) State(name string) *PointerDescriptor {
	for _, s := range c.States {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Struct returns the named struct declaration, or nil
func (c *Config) Struct(name string) *StructDescriptor {
	for _, s := range c.Structs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// StructNames lists declared struct names in declaration order
func (c *Config) StructNames() []string {
	names := make([]string, 0, len(c.Structs))
	for _, s := range c.Structs {
		names = append(names, s.Name)
	}
	return names
}

// ModuleName is the module whose load address chains are relative to
func (c *Config) ModuleName() string {
	if c.Module != "" {
		return c.Module
	}
	return c.GameExe
}
