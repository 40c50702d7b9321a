package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"memstate/memtype"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses a configuration file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document and projects it with Load
func Parse(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return Load(&doc)
}

// Load projects a generic document tree into the typed model. The node is
// not modified. Mapping order in the document is declaration order.
func Load(doc *yaml.Node) (*Config, error) {
	root := doc
	if root != nil && root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return &Config{}, nil
		}
		root = root.Content[0]
	}
	if root == nil || root.Kind == 0 || isNull(root) {
		return &Config{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrMalformedDocument)
	}

	cfg := &Config{}
	err := eachPair(root, "", func(key string, value *yaml.Node) error {
		var err error
		switch normalizeKey(key) {
		case "gamename":
			cfg.GameName, err = scalar(key, value)
		case "gameid":
			cfg.GameID, err = scalar(key, value)
		case "gameexe":
			cfg.GameExe, err = scalar(key, value)
		case "module":
			cfg.Module, err = scalar(key, value)
		case "gameversions", "versions":
			cfg.Versions, err = loadVersions(key, value)
		case "states", "statepointers":
			cfg.States, err = loadPointers(key, value, false)
		case "structs", "statestructs":
			cfg.Structs, err = loadStructs(key, value)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalizeKey makes GameVersions, game_versions and game-versions equal
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "")
	return strings.ReplaceAll(key, "-", "")
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// eachPair visits a mapping in order. A null node is an empty mapping.
func eachPair(node *yaml.Node, path string, fn func(key string, value *yaml.Node) error) error {
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return at(path, fmt.Errorf("%w: expected a mapping", ErrMalformedDocument))
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// eachNamed visits a mapping of named descriptors, enforcing non-empty unique names
func eachNamed(node *yaml.Node, path string, fn func(name, path string, value *yaml.Node) error) error {
	seen := make(map[string]struct{})
	return eachPair(node, path, func(name string, value *yaml.Node) error {
		if strings.TrimSpace(name) == "" {
			return at(path, ErrMissingName)
		}
		if _, dup := seen[name]; dup {
			return at(join(path, name), ErrDuplicateName)
		}
		seen[name] = struct{}{}
		return fn(name, join(path, name), value)
	})
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

func scalar(path string, node *yaml.Node) (string, error) {
	if isNull(node) {
		return "", nil
	}
	if node.Kind != yaml.ScalarNode {
		return "", at(path, fmt.Errorf("%w: expected a scalar", ErrMalformedDocument))
	}
	return node.Value, nil
}

func hexField(path string, node *yaml.Node) (int64, error) {
	text, err := scalar(path, node)
	if err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}
	n, err := parseHex(text)
	if err != nil {
		return 0, at(path, err)
	}
	return n, nil
}

func hexList(path string, node *yaml.Node) ([]int64, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, at(path, fmt.Errorf("%w: expected a list", ErrMalformedDocument))
	}
	out := make([]int64, 0, len(node.Content))
	for i, item := range node.Content {
		n, err := hexField(fmt.Sprintf("%s[%d]", path, i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func loadVersions(path string, node *yaml.Node) ([]*VersionDescriptor, error) {
	var versions []*VersionDescriptor
	err := eachNamed(node, path, func(name, path string, value *yaml.Node) error {
		v := &VersionDescriptor{Name: name}
		err := eachPair(value, path, func(key string, field *yaml.Node) error {
			var err error
			switch normalizeKey(key) {
			case "description":
				v.Description, err = scalar(join(path, key), field)
			case "contenthash", "hash":
				v.ContentHash, err = loadHash(join(path, key), field)
			case "pointers":
				v.Pointers, err = loadPointers(join(path, key), field, true)
			}
			return err
		})
		if err != nil {
			return err
		}
		versions = append(versions, v)
		return nil
	})
	return versions, err
}

func loadHash(path string, node *yaml.Node) ([]byte, error) {
	list, err := hexList(path, node)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, nil
	}
	hash := make([]byte, len(list))
	for i, b := range list {
		if b < 0 || b > math.MaxUint8 {
			return nil, at(fmt.Sprintf("%s[%d]", path, i), fmt.Errorf("%w: %s is not a byte", ErrMalformedHex, formatHex(b)))
		}
		hash[i] = byte(b)
	}
	return hash, nil
}

// loadPointers reads base pointers (under a version) or states. A base pointer
// may be written as a bare address instead of a mapping.
func loadPointers(path string, node *yaml.Node, base bool) ([]*PointerDescriptor, error) {
	var pointers []*PointerDescriptor
	err := eachNamed(node, path, func(name, path string, value *yaml.Node) error {
		p := &PointerDescriptor{Name: name}

		if base && value.Kind == yaml.ScalarNode {
			n, err := hexField(path, value)
			if err != nil {
				return err
			}
			p.Address = Address{Kind: AddressLiteral, Literal: n}
			pointers = append(pointers, p)
			return nil
		}

		var defaultNode *yaml.Node
		err := eachPair(value, path, func(key string, field *yaml.Node) error {
			fpath := join(path, key)
			var err error
			switch normalizeKey(key) {
			case "description":
				p.Description, err = scalar(fpath, field)
			case "address":
				p.Address, err = loadAddress(fpath, field, base)
			case "baseoffset":
				var n int64
				n, err = hexField(fpath, field)
				p.Address = Address{Kind: AddressLiteral, Literal: n}
			case "levels":
				p.Levels, err = hexList(fpath, field)
			case "valueoffset", "offset":
				p.Offset, err = hexField(fpath, field)
			case "type":
				p.Type, err = scalar(fpath, field)
			case "default":
				defaultNode = field
			}
			return err
		})
		if err != nil {
			return err
		}

		if p.Default, err = loadDefault(join(path, "default"), defaultNode, p.Type); err != nil {
			return err
		}

		pointers = append(pointers, p)
		return nil
	})
	return pointers, err
}

func loadAddress(path string, node *yaml.Node, base bool) (Address, error) {
	text, err := scalar(path, node)
	if err != nil || text == "" {
		return Address{}, err
	}
	if base || isHexLiteral(text) {
		n, err := parseHex(text)
		if err != nil {
			return Address{}, at(path, err)
		}
		return Address{Kind: AddressLiteral, Literal: n}, nil
	}
	return Address{Kind: AddressSymbol, Symbol: strings.TrimSpace(text)}, nil
}

func loadStructs(path string, node *yaml.Node) ([]*StructDescriptor, error) {
	var structs []*StructDescriptor
	err := eachNamed(node, path, func(name, path string, value *yaml.Node) error {
		s := &StructDescriptor{Name: name}
		err := eachPair(value, path, func(key string, field *yaml.Node) error {
			fpath := join(path, key)
			var err error
			switch normalizeKey(key) {
			case "description":
				s.Description, err = scalar(fpath, field)
			case "baseoffset":
				s.BaseOffset, err = hexField(fpath, field)
			case "levels":
				s.Levels, err = hexList(fpath, field)
			case "pack":
				s.Pack, err = decimalField(fpath, field)
			case "size":
				s.Size, err = hexField(fpath, field)
			case "fields":
				s.Fields, err = loadFields(fpath, field)
			}
			return err
		})
		if err != nil {
			return err
		}
		structs = append(structs, s)
		return nil
	})
	return structs, err
}

func decimalField(path string, node *yaml.Node) (int, error) {
	text, err := scalar(path, node)
	if err != nil || text == "" {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, at(path, fmt.Errorf("%w: %q is not a decimal integer", ErrMalformedDocument, text))
	}
	return n, nil
}

func loadFields(path string, node *yaml.Node) ([]*FieldDescriptor, error) {
	var fields []*FieldDescriptor
	err := eachNamed(node, path, func(name, path string, value *yaml.Node) error {
		f := &FieldDescriptor{Name: name}
		var defaultNode *yaml.Node
		err := eachPair(value, path, func(key string, field *yaml.Node) error {
			fpath := join(path, key)
			var err error
			switch normalizeKey(key) {
			case "type":
				f.Type, err = scalar(fpath, field)
			case "fieldoffset", "offset":
				f.Offset, err = hexField(fpath, field)
			case "default":
				defaultNode = field
			}
			return err
		})
		if err != nil {
			return err
		}
		if f.Default, err = loadDefault(join(path, "default"), defaultNode, f.Type); err != nil {
			return err
		}
		fields = append(fields, f)
		return nil
	})
	return fields, err
}

// loadDefault converts a default to the declared scalar kind. Without a usable
// declared kind the YAML tag decides: !!int is int (long when it does not fit),
// !!float is double, anything else is a string.
func loadDefault(path string, node *yaml.Node, typeName string) (memtype.Value, error) {
	if isNull(node) {
		return memtype.Null(), nil
	}
	if node.Kind != yaml.ScalarNode {
		return memtype.Null(), at(path, fmt.Errorf("%w: expected a scalar", ErrMalformedDefault))
	}

	kind, ok := memtype.LookupKind(typeName)
	if !ok || !kind.Supported() {
		kind = inferKind(node)
	}

	v, err := memtype.ParseValue(kind, node.Value)
	if err != nil {
		return memtype.Null(), at(path, fmt.Errorf("%w: %v", ErrMalformedDefault, err))
	}
	return v, nil
}

func inferKind(node *yaml.Node) memtype.Kind {
	switch node.Tag {
	case "!!int":
		if n, err := strconv.ParseInt(node.Value, 0, 64); err == nil && n >= math.MinInt32 && n <= math.MaxInt32 {
			return memtype.KindInt
		}
		return memtype.KindLong
	case "!!float":
		return memtype.KindDouble
	}
	return memtype.KindString
}
