package process

import (
	"fmt"
)

// ProcessMemoryAddress represents a memory address within a process
type ProcessMemoryAddress uint64

func (pma ProcessMemoryAddress) ToString() string {
	return fmt.Sprintf("0x%X", uint64(pma))
}

// Offset returns the address moved by a signed byte offset
func (pma ProcessMemoryAddress) Offset(off int64) ProcessMemoryAddress {
	return ProcessMemoryAddress(int64(pma) + off)
}

// ProcessMemorySize represents a size of memory region
type ProcessMemorySize uint

func (pms ProcessMemorySize) ToString() string {
	return fmt.Sprintf("%d bytes", uint(pms))
}

// BitWidth selects the pointer width of the target process
type BitWidth int

const (
	Bits64 BitWidth = 64
	Bits32 BitWidth = 32
)

// PointerSize returns the size in bytes of one pointer for the width
func (w BitWidth) PointerSize() ProcessMemorySize {
	if w == Bits32 {
		return 4
	}
	return 8
}

func (w BitWidth) String() string {
	return fmt.Sprintf("%d-bit", int(w))
}

// ParseBitWidth accepts "32", "64" and the empty string (64).
func ParseBitWidth(s string) (BitWidth, error) {
	switch s {
	case "", "64", "x64":
		return Bits64, nil
	case "32", "x86":
		return Bits32, nil
	}
	return 0, fmt.Errorf("unknown bit width %q", s)
}
