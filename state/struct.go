package state

import (
	"memstate/chain"
)

// Struct is a named composite whose fields share one chain. Only the struct's
// chain is walked; each field reads at the struct offset plus its own.
type Struct struct {
	name   string
	chain  *chain.Chain
	offset int64
	fields []*Scalar
}

func NewStruct(name string, c *chain.Chain, offset int64) *Struct {
	return &Struct{name: name, chain: c, offset: offset}
}

// AddField declares a field; its scalar shares the struct's chain
func (s *Struct) AddField(f *Scalar) {
	s.fields = append(s.fields, f)
}

func (s *Struct) Name() string        { return s.name }
func (s *Struct) Chain() *chain.Chain { return s.chain }
func (s *Struct) Fields() []*Scalar   { return s.fields }

func (s *Struct) Update() error {
	return s.chain.Update()
}

// Deref reads every field. While the struct's chain is null each field
// independently falls back to its own default.
func (s *Struct) Deref() (Record, error) {
	record := make(Record, 0, len(s.fields))
	for _, f := range s.fields {
		v, err := f.DerefAt(s.offset + f.Offset())
		if err != nil {
			return nil, err
		}
		record = append(record, Field{Name: f.Name(), Value: v})
	}
	return record, nil
}
