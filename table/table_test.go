package table

import (
	"bytes"
	"strings"
	"testing"

	"memstate/memtype"
	"memstate/resolver"
	"memstate/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tbl := New(Column{Header: "A"}, Column{Header: "BB", Min: 4})
	tbl.AddRow("xyz", "1")
	tbl.AddRow("", "\033[31mred\033[0m")
	tbl.AddRow("only")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "A    BB", lines[0])
	assert.Equal(t, "---- ----", lines[1])
	assert.Equal(t, "xyz  1", lines[2])
	assert.Equal(t, "-    \033[31mred\033[0m", lines[3])
	assert.Equal(t, "only -", lines[4])
	assert.Equal(t, 3, tbl.Len())
}

func TestSnapshotTable(t *testing.T) {
	rt := &resolver.Table{Specs: []resolver.Spec{
		{Name: "Health", Kind: resolver.SpecScalar, Scalar: memtype.KindInt, Chain: resolver.ChainSpec{Base: 0x10}},
		{Name: "Player", Kind: resolver.SpecStruct, Struct: &resolver.StructSpec{
			Name:   "PlayerInfo",
			Fields: []resolver.FieldSpec{{Name: "a", Kind: memtype.KindByte}},
		}},
	}}
	snap := state.Snapshot{
		{Name: "Health", Value: memtype.IntValue(7)},
		{Name: "Player", Fields: state.Record{{Name: "a", Value: memtype.Null()}}},
		{Name: "Extra", Value: memtype.TextValue("hi")},
	}

	var buf bytes.Buffer
	require.NoError(t, Snapshot(&buf, rt, snap, false))
	out := buf.String()

	assert.Contains(t, out, "Health")
	assert.Contains(t, out, "base+0x10 +0x0")
	assert.Contains(t, out, "PlayerInfo")
	assert.Regexp(t, `  \.a +byte +null`, out)
	assert.Regexp(t, `Extra +string +hi`, out)
	assert.Less(t, strings.Index(out, "Health"), strings.Index(out, "Player"))
}
