package state

import (
	"fmt"

	"memstate/chain"
	"memstate/process"
	"memstate/resolver"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// EntryError names the state whose read aborted a snapshot
type EntryError struct {
	Name string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("state %s: %v", e.Name, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

type tableEntry struct {
	name   string
	scalar *Scalar
	strct  *Struct
}

func (e *tableEntry) update() error {
	if e.strct != nil {
		return e.strct.Update()
	}
	return e.scalar.Update()
}

func (e *tableEntry) read() (Entry, error) {
	if e.strct != nil {
		fields, err := e.strct.Deref()
		return Entry{Name: e.name, Fields: fields}, err
	}
	v, err := e.scalar.Deref()
	return Entry{Name: e.name, Value: v}, err
}

// Table holds the attached states of one session. It is not safe for
// concurrent use; callers polling from several goroutines must serialize.
type Table struct {
	entries []*tableEntry
	log     *logger.Logger
}

// New builds one chain per resolved state and attaches them all to mem with
// the same captured module base.
func New(rt *resolver.Table, mem process.Memory, moduleBase process.ProcessMemoryAddress, width process.BitWidth) (*Table, error) {
	t := &Table{
		log: logger.NewLogger(coloransi.Color(coloransi.Green, coloransi.ColorOrange, "state-table")),
	}

	for _, spec := range rt.Specs {
		c := chain.New(spec.Name, spec.Chain.Base, spec.Chain.Levels)
		if err := c.Attach(mem, moduleBase, width); err != nil {
			return nil, err
		}

		entry := &tableEntry{name: spec.Name}
		switch spec.Kind {
		case resolver.SpecStruct:
			s := NewStruct(spec.Name, c, spec.Chain.Offset)
			for _, f := range spec.Struct.Fields {
				s.AddField(NewScalar(f.Name, c, f.Kind, f.Offset, f.Default))
			}
			entry.strct = s
		default:
			entry.scalar = NewScalar(spec.Name, c, spec.Scalar, spec.Chain.Offset, spec.Default)
		}

		t.entries = append(t.entries, entry)
	}

	t.log.Infoln("Attached", len(t.entries), "states at module base", moduleBase.ToString())

	return t, nil
}

// Names lists the states in snapshot order
func (t *Table) Names() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.name
	}
	return names
}

// Snapshot updates and reads every state in declaration order. The first
// failing entry aborts the pass; partial snapshots are never returned.
func (t *Table) Snapshot() (Snapshot, error) {
	snap := make(Snapshot, 0, len(t.entries))
	for _, e := range t.entries {
		if err := e.update(); err != nil {
			return nil, &EntryError{Name: e.name, Err: err}
		}
		entry, err := e.read()
		if err != nil {
			return nil, &EntryError{Name: e.name, Err: err}
		}
		snap = append(snap, entry)
	}
	return snap, nil
}
