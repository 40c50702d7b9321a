package chain

import (
	"encoding/binary"
	"errors"
	"testing"

	"memstate/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

//go:generate mockgen -destination mock_memory_test.go -package chain -write_package_comment=false memstate/process Memory

const moduleBase = process.ProcessMemoryAddress(0x400000)

func ptr64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func ptr32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func TestWalkLevels(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := NewMockMemory(ctrl)

	gomock.InOrder(
		mem.EXPECT().ReadMemory(process.ProcessMemoryAddress(0x401010), process.ProcessMemorySize(8)).Return(ptr64(0x7000), nil),
		mem.EXPECT().ReadMemory(process.ProcessMemoryAddress(0x7020), process.ProcessMemorySize(8)).Return(ptr64(0x9000), nil),
		mem.EXPECT().ReadMemory(process.ProcessMemoryAddress(0x9008), process.ProcessMemorySize(4)).Return(ptr32(42), nil),
	)

	c := New("hp", 0x1000, []int64{0x10, 0x20})
	assert.True(t, c.IsNull())
	require.NoError(t, c.Attach(mem, moduleBase, process.Bits64))
	assert.Equal(t, process.ProcessMemoryAddress(0x401000), c.BaseAddress())
	assert.True(t, c.IsNull(), "levels are unknown until the first update")

	require.NoError(t, c.Update())
	assert.False(t, c.IsNull())
	assert.Equal(t, process.ProcessMemoryAddress(0x9000), c.Location())

	data, err := c.DerefBytes(8, 4)
	require.NoError(t, err)
	assert.Equal(t, ptr32(42), data)
}

func TestWalk32Bit(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := NewMockMemory(ctrl)

	mem.EXPECT().ReadMemory(process.ProcessMemoryAddress(0x401004), process.ProcessMemorySize(4)).Return(ptr32(0x5000), nil)

	c := New("p", 0x1000, []int64{4})
	require.NoError(t, c.Attach(mem, moduleBase, process.Bits32))
	require.NoError(t, c.Update())
	assert.Equal(t, process.ProcessMemoryAddress(0x5000), c.Location())
}

func TestNoLevelsNeverNull(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := NewMockMemory(ctrl)

	mem.EXPECT().ReadMemory(process.ProcessMemoryAddress(0x400FF8), process.ProcessMemorySize(8)).Return(ptr64(7), nil)

	c := New("static", 0x1000, nil)
	require.NoError(t, c.Attach(mem, moduleBase, process.Bits64))
	assert.False(t, c.IsNull())

	// no reads happen on update
	require.NoError(t, c.Update())
	assert.False(t, c.IsNull())
	assert.Equal(t, c.BaseAddress(), c.Location())

	data, err := c.DerefBytes(-8, 8)
	require.NoError(t, err)
	assert.Equal(t, ptr64(7), data)
}

func TestFirstLevelFailureIsNull(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := NewMockMemory(ctrl)

	mem.EXPECT().ReadMemory(gomock.Any(), gomock.Any()).Return(nil, process.ErrAddressNotMapped)

	c := New("hp", 0x1000, []int64{0x10, 0x20})
	require.NoError(t, c.Attach(mem, moduleBase, process.Bits64))
	require.NoError(t, c.Update())
	assert.True(t, c.IsNull())

	data, err := c.DerefBytes(0, 4)
	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestZeroPointerIsNull(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := NewMockMemory(ctrl)

	gomock.InOrder(
		mem.EXPECT().ReadMemory(process.ProcessMemoryAddress(0x401000), gomock.Any()).Return(ptr64(0x7000), nil),
		mem.EXPECT().ReadMemory(process.ProcessMemoryAddress(0x7000), gomock.Any()).Return(ptr64(0), nil),
	)

	c := New("hp", 0x1000, []int64{0, 0})
	require.NoError(t, c.Attach(mem, moduleBase, process.Bits64))
	require.NoError(t, c.Update())
	assert.True(t, c.IsNull())
}

func TestRecoversAfterNull(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := NewMockMemory(ctrl)

	gomock.InOrder(
		mem.EXPECT().ReadMemory(process.ProcessMemoryAddress(0x401000), gomock.Any()).Return(ptr64(0), nil),
		mem.EXPECT().ReadMemory(process.ProcessMemoryAddress(0x401000), gomock.Any()).Return(ptr64(0x8000), nil),
	)

	c := New("hp", 0x1000, []int64{0})
	require.NoError(t, c.Attach(mem, moduleBase, process.Bits64))

	require.NoError(t, c.Update())
	assert.True(t, c.IsNull())

	require.NoError(t, c.Update())
	assert.False(t, c.IsNull())
	assert.Equal(t, process.ProcessMemoryAddress(0x8000), c.Location())
}

func TestProcessExit(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := NewMockMemory(ctrl)

	mem.EXPECT().ReadMemory(gomock.Any(), gomock.Any()).Return(nil, process.ErrProcessExited)

	c := New("hp", 0x1000, []int64{0x10})
	require.NoError(t, c.Attach(mem, moduleBase, process.Bits64))

	err := c.Update()
	assert.ErrorIs(t, err, process.ErrProcessExited)
	assert.True(t, c.IsNull())
}

func TestFinalReadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := NewMockMemory(ctrl)

	boom := errors.New("boom")
	mem.EXPECT().ReadMemory(process.ProcessMemoryAddress(0x401004), process.ProcessMemorySize(4)).Return(nil, boom)

	c := New("hp", 0x1000, nil)
	require.NoError(t, c.Attach(mem, moduleBase, process.Bits64))

	_, err := c.DerefBytes(4, 4)
	assert.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "hp")
}

func TestAttachOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := NewMockMemory(ctrl)

	c := New("hp", 0x10, nil)
	assert.False(t, c.Attached())
	assert.ErrorIs(t, c.Update(), ErrNotAttached)
	_, err := c.DerefBytes(0, 4)
	assert.ErrorIs(t, err, ErrNotAttached)

	require.NoError(t, c.Attach(mem, moduleBase, process.Bits64))
	assert.ErrorIs(t, c.Attach(mem, 0x800000, process.Bits64), ErrAlreadyAttached)

	// the first module base sticks
	assert.Equal(t, process.ProcessMemoryAddress(0x400010), c.BaseAddress())
	assert.True(t, c.Attached())
}

func TestLevelsAreCopied(t *testing.T) {
	levels := []int64{1, 2}
	c := New("x", 0, levels)
	levels[0] = 99
	assert.Equal(t, []int64{1, 2}, c.Levels())

	got := c.Levels()
	got[1] = 99
	assert.Equal(t, []int64{1, 2}, c.Levels())
}
