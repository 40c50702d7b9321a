package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"memstate/memtype"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleDocument = `
GameName: Sample Quest
GameId: sq
GameExe: SampleQuest.exe
GameVersions:
  v1.0:
    Description: launch build
    ContentHash: [0xde, 0xad, be, ef]
    Pointers:
      PlayerBase:
        Address: 0x1000
        Levels: [10, 20]
      WorldBase: 0x2000
States:
  Health:
    Address: PlayerBase
    ValueOffset: 8
    Type: int
    Default: 100
  Name:
    BaseOffset: 3000
    Type: string
    Default: nobody
  Speed:
    Address: 0x4000
    Levels: [-8]
    Type: float
  Player:
    Address: PlayerBase
    Type: PlayerInfo
  Untyped:
    Address: WorldBase
    Default: 2.5
Structs:
  PlayerInfo:
    BaseOffset: 0x40
    Pack: 4
    Size: 0C
    Fields:
      a: {Type: int, FieldOffset: 0}
      b: {Type: float, FieldOffset: 4}
      c: {Type: byte, FieldOffset: 8, Default: 7}
`

func TestParseDocument(t *testing.T) {
	cfg, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "Sample Quest", cfg.GameName)
	assert.Equal(t, "sq", cfg.GameID)
	assert.Equal(t, "SampleQuest.exe", cfg.ModuleName())

	require.Len(t, cfg.Versions, 1)
	v := cfg.Version("v1.0")
	require.NotNil(t, v)
	assert.Equal(t, "launch build", v.Description)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, v.ContentHash)

	require.Len(t, v.Pointers, 2)
	assert.Equal(t, "PlayerBase", v.Pointers[0].Name)
	assert.Equal(t, Address{Kind: AddressLiteral, Literal: 0x1000}, v.Pointers[0].Address)
	assert.Equal(t, []int64{0x10, 0x20}, v.Pointers[0].Levels)
	assert.Equal(t, Address{Kind: AddressLiteral, Literal: 0x2000}, v.Pointers[1].Address)

	names := make([]string, len(cfg.States))
	for i, s := range cfg.States {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"Health", "Name", "Speed", "Player", "Untyped"}, names)

	health := cfg.State("Health")
	assert.Equal(t, Address{Kind: AddressSymbol, Symbol: "PlayerBase"}, health.Address)
	assert.Equal(t, int64(8), health.Offset)
	assert.Equal(t, memtype.IntValue(100), health.Default)
	assert.False(t, health.HasLevels())

	name := cfg.State("Name")
	assert.Equal(t, Address{Kind: AddressLiteral, Literal: 0x3000}, name.Address)
	assert.Equal(t, memtype.TextValue("nobody"), name.Default)

	assert.Equal(t, []int64{-8}, cfg.State("Speed").Levels)
	assert.Equal(t, memtype.DoubleValue(2.5), cfg.State("Untyped").Default)

	pi := cfg.Struct("PlayerInfo")
	require.NotNil(t, pi)
	assert.Equal(t, int64(0x40), pi.BaseOffset)
	assert.Equal(t, 4, pi.Pack)
	assert.Equal(t, int64(0xC), pi.Size)
	require.Len(t, pi.Fields, 3)
	assert.Equal(t, "b", pi.Fields[1].Name)
	assert.Equal(t, int64(4), pi.Fields[1].Offset)
	assert.Equal(t, memtype.ByteValue(7), pi.Fields[2].Default)
	assert.Equal(t, []string{"PlayerInfo"}, cfg.StructNames())
}

func TestParseKeyStyles(t *testing.T) {
	cfg, err := Parse([]byte(`
game_exe: a.exe
module: b.dll
game-versions:
  v1: {pointers: {p: 10}}
state_pointers:
  s: {address: p, value_offset: 4, type: long}
`))
	require.NoError(t, err)
	assert.Equal(t, "b.dll", cfg.ModuleName())
	require.Len(t, cfg.Versions, 1)
	assert.Equal(t, int64(0x10), cfg.Versions[0].Pointers[0].Address.Literal)
	assert.Equal(t, int64(4), cfg.State("s").Offset)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.States)

	cfg, err = Parse([]byte("States:\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.States)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		doc string
		err error
	}{
		"not a mapping":  {"- a\n- b\n", ErrMalformedDocument},
		"bad yaml":       {"States: [\n", ErrMalformedDocument},
		"bad hex":        {"States:\n  s: {Address: 0xZZ}\n", ErrMalformedHex},
		"bad level":      {"States:\n  s: {Address: 0x10, Levels: [q]}\n", ErrMalformedHex},
		"base overflow":  {"GameVersions:\n  v: {Pointers: {B: 0xFFFFFFFFFFFFFFFF}}\n", ErrMalformedHex},
		"level overflow": {"States:\n  s: {Address: 0x10, Levels: [-0xFFFFFFFFFFFFFFFF]}\n", ErrMalformedHex},
		"bad default":    {"States:\n  s: {Address: 0x10, Type: int, Default: lots}\n", ErrMalformedDefault},
		"hash not bytes": {"GameVersions:\n  v: {ContentHash: [100]}\n", ErrMalformedHex},
		"bad pack":       {"Structs:\n  S: {Pack: x}\n", ErrMalformedDocument},
		"empty name":     {"States:\n  \"\": {Address: 0x10}\n", ErrMissingName},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.err)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestLoadDuplicateName(t *testing.T) {
	// the YAML decoder keeps duplicate keys in a node tree, so build one by hand
	str := func(v string) *yaml.Node { return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v} }
	state := func() *yaml.Node {
		return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{str("Address"), str("0x10")}}
	}
	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		str("States"),
		{Kind: yaml.MappingNode, Content: []*yaml.Node{str("hp"), state(), str("hp"), state()}},
	}}

	_, err := Load(doc)
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.ErrorContains(t, err, "States.hp")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, cfg.States, 5)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseHex(t *testing.T) {
	for text, want := range map[string]int64{
		"0x10":  16,
		"10":    16,
		"FF":    255,
		"-0x8":  -8,
		"+20":   32,
		" 0XaB": 0xAB,
	} {
		n, err := parseHex(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, n, text)
	}

	n, err := parseHex("-0x8000000000000000")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), n)

	n, err = parseHex("0x7FFFFFFFFFFFFFFF")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), n)

	for _, text := range []string{
		"", "0x", "-", "12g",
		"0xFFFFFFFFFFFFFFFF",
		"8000000000000000",
		"-0xFFFFFFFFFFFFFFFF",
		"-0x8000000000000001",
		"0x10000000000000000",
	} {
		_, err := parseHex(text)
		assert.ErrorIs(t, err, ErrMalformedHex, text)
	}

	assert.True(t, isHexLiteral("0x10"))
	assert.False(t, isHexLiteral("PlayerBase"))
	assert.False(t, isHexLiteral("10"))
	assert.Equal(t, "-0x10", formatHex(-16))
}
