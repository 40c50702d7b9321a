package table

import (
	"io"
	"strings"

	"memstate/resolver"
	"memstate/state"

	"github.com/Moonlight-Companies/gologger/coloransi"
)

// Snapshot writes one row per state and one indented row per struct field.
// rt supplies the type and chain columns and may be nil.
func Snapshot(w io.Writer, rt *resolver.Table, snap state.Snapshot, color bool) error {
	value := Column{Header: "VALUE", Min: 8}
	if color {
		value.Format = func(s string) string {
			if strings.TrimSpace(s) == "null" {
				return coloransi.Foreground(coloransi.BrightBlack, s)
			}
			return s
		}
	}

	t := New(
		Column{Header: "STATE", Min: 12},
		Column{Header: "TYPE"},
		value,
		Column{Header: "CHAIN"},
	)

	for _, e := range snap {
		var typ, chain string
		var spec *resolver.Spec
		if rt != nil {
			if s, ok := rt.Lookup(e.Name); ok {
				spec = s
				chain = s.Chain.String()
				if s.Kind == resolver.SpecStruct {
					typ = s.Struct.Name
				} else {
					typ = s.Scalar.String()
				}
			}
		}

		if !e.IsStruct() {
			if typ == "" {
				typ = e.Value.Kind().String()
			}
			t.AddRow(e.Name, typ, e.Value.String(), chain)
			continue
		}

		t.AddRow(e.Name, typ, "", chain)
		for _, f := range e.Fields {
			ftyp := f.Value.Kind().String()
			if spec != nil && spec.Struct != nil {
				for _, fs := range spec.Struct.Fields {
					if fs.Name == f.Name {
						ftyp = fs.Kind.String()
						break
					}
				}
			}
			t.AddRow("  ."+f.Name, ftyp, f.Value.String())
		}
	}

	return t.Render(w)
}
