package process_test

import (
	"encoding/binary"
	"testing"

	"memstate/process"
	"memstate/process_blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkPath(t *testing.T) {
	dump := process_blob.NewProcessDump()
	hop := make([]byte, 0x20)
	binary.LittleEndian.PutUint64(hop[0x8:], 0x2000)
	dump.AddRegion(0x1000, hop)

	next := make([]byte, 0x10)
	binary.LittleEndian.PutUint32(next[0x4:], 0x3000)
	dump.AddRegion(0x2000, next)

	var steps []process.ProcessMemoryAddress
	got, err := process.WalkPath(dump, 0x1000, process.Bits64, []int64{8}, func(step int, at, ptr process.ProcessMemoryAddress) {
		steps = append(steps, at)
	})
	require.NoError(t, err)
	assert.Equal(t, process.ProcessMemoryAddress(0x2000), got)
	assert.Equal(t, []process.ProcessMemoryAddress{0x1008}, steps)

	got, err = process.WalkPath(dump, 0x2000, process.Bits32, []int64{4}, nil)
	require.NoError(t, err)
	assert.Equal(t, process.ProcessMemoryAddress(0x3000), got)

	got, err = process.WalkPath(dump, 0x1234, process.Bits64, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, process.ProcessMemoryAddress(0x1234), got)
}

func TestWalkPathErrors(t *testing.T) {
	dump := process_blob.NewProcessDump()
	dump.AddRegion(0x1000, make([]byte, 0x10))

	_, err := process.WalkPath(dump, 0x1000, process.Bits64, []int64{0}, nil)
	assert.ErrorIs(t, err, process.ErrInvalidPointer)

	_, err = process.WalkPath(dump, 0x1000, process.Bits64, []int64{0x100}, nil)
	assert.ErrorIs(t, err, process.ErrAddressNotMapped)

	var pathErr *process.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, 0, pathErr.Step)
	assert.Equal(t, process.ProcessMemoryAddress(0x1100), pathErr.Addr)
}

func TestAddressOffset(t *testing.T) {
	assert.Equal(t, process.ProcessMemoryAddress(0xF8), process.ProcessMemoryAddress(0x100).Offset(-8))
	assert.Equal(t, "0x1F", process.ProcessMemoryAddress(0x1F).ToString())

	w, err := process.ParseBitWidth("32")
	require.NoError(t, err)
	assert.Equal(t, process.ProcessMemorySize(4), w.PointerSize())
	_, err = process.ParseBitWidth("16")
	assert.Error(t, err)
}
