package state

import (
	"bytes"
	"encoding/json"

	"memstate/memtype"

	"gopkg.in/yaml.v3"
)

// Field is one named value of a Record
type Field struct {
	Name  string
	Value memtype.Value
}

// Record is an ordered name -> value mapping, the result of a struct read
type Record []Field

// Get returns the named field's value
func (r Record) Get(name string) (memtype.Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return memtype.Null(), false
}

// Map converts the record to plain Go values
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r))
	for _, f := range r {
		m[f.Name] = f.Value.Interface()
	}
	return m
}

func (r Record) MarshalJSON() ([]byte, error) {
	return marshalOrdered(len(r), func(i int) (string, any) { return r[i].Name, r[i].Value })
}

func (r Record) MarshalYAML() (interface{}, error) {
	return yamlOrdered(len(r), func(i int) (string, any) { return r[i].Name, r[i].Value })
}

// Entry is one state of a snapshot: a scalar value or a struct record
type Entry struct {
	Name   string
	Value  memtype.Value
	Fields Record // non-nil for structs
}

func (e Entry) IsStruct() bool {
	return e.Fields != nil
}

func (e Entry) payload() any {
	if e.IsStruct() {
		return e.Fields
	}
	return e.Value
}

// Snapshot holds one read pass over every state, in declaration order.
// Entries are read one after another, so the target may have changed memory
// between two of them; a snapshot is not a point-in-time view.
type Snapshot []Entry

func (s Snapshot) Get(name string) (Entry, bool) {
	for _, e := range s {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Map converts the snapshot to plain Go values; structs become nested maps
func (s Snapshot) Map() map[string]any {
	m := make(map[string]any, len(s))
	for _, e := range s {
		if e.IsStruct() {
			m[e.Name] = e.Fields.Map()
		} else {
			m[e.Name] = e.Value.Interface()
		}
	}
	return m
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	return marshalOrdered(len(s), func(i int) (string, any) { return s[i].Name, s[i].payload() })
}

func (s Snapshot) MarshalYAML() (interface{}, error) {
	return yamlOrdered(len(s), func(i int) (string, any) { return s[i].Name, s[i].payload() })
}

func marshalOrdered(n int, at func(i int) (string, any)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		key, value := at(i)
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func yamlOrdered(n int, at func(i int) (string, any)) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i < n; i++ {
		key, value := at(i)
		var v yaml.Node
		if err := v.Encode(value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, &v)
	}
	return node, nil
}
