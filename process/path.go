package process

import (
	"encoding/binary"
	"fmt"
)

// ReadPointer reads one pointer-sized value of the given width at addr.
func ReadPointer(mem Memory, addr ProcessMemoryAddress, width BitWidth) (ProcessMemoryAddress, error) {
	data, err := mem.ReadMemory(addr, width.PointerSize())
	if err != nil {
		return 0, err
	}
	if width == Bits32 {
		return ProcessMemoryAddress(binary.LittleEndian.Uint32(data)), nil
	}
	return ProcessMemoryAddress(binary.LittleEndian.Uint64(data)), nil
}

// PathError reports which hop of a pointer path could not be followed.
type PathError struct {
	Step int
	Addr ProcessMemoryAddress
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("pointer path step %d at 0x%x: %v", e.Step, uint64(e.Addr), e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// WalkPath follows a pointer path. Starting at base, for every level it reads a
// pointer at current+level and continues from the value read. The returned
// address is the last pointer read (or base when levels is empty).
// A zero pointer stops the walk with ErrInvalidPointer.
func WalkPath(mem Memory, base ProcessMemoryAddress, width BitWidth, levels []int64, trace func(step int, at, got ProcessMemoryAddress)) (ProcessMemoryAddress, error) {
	current := base

	for i, level := range levels {
		at := current.Offset(level)

		ptr, err := ReadPointer(mem, at, width)
		if trace != nil {
			trace(i, at, ptr)
		}
		if err != nil {
			return 0, &PathError{Step: i, Addr: at, Err: err}
		}
		if ptr == 0 {
			return 0, &PathError{Step: i, Addr: at, Err: ErrInvalidPointer}
		}

		current = ptr
	}

	return current, nil
}
