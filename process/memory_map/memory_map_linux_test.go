//go:build linux

package memory_map

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMapsLine(t *testing.T) {
	item, ok := ParseMapsLine("00400000-0040b000 r-xp 00000000 08:01 1234   /home/me/My Game/game")
	require.True(t, ok)
	assert.Equal(t, MemoryMapItem{Address: 0x400000, Size: 0xb000, Perms: "r-xp", Path: "/home/me/My Game/game"}, item)

	item, ok = ParseMapsLine("7ffd0000-7ffd1000 rw-p 00000000 00:00 0")
	require.True(t, ok)
	assert.Empty(t, item.Path)

	for _, line := range []string{"", "garbage", "zz-10 r--p", "2000-1000 r--p"} {
		_, ok := ParseMapsLine(line)
		assert.False(t, ok, line)
	}
}

func TestReadOwnMemoryMap(t *testing.T) {
	mm, err := NewLinuxMemoryMap().ReadMemoryMap(os.Getpid())
	require.NoError(t, err)
	assert.NotEmpty(t, mm)
}
