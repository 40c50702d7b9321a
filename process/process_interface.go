package process

import (
	"memstate/process/memory_map"
)

// Memory is the read side of a process: copy size bytes starting at addr.
type Memory interface {
	// ReadMemory reads memory from the process at the specified address
	ReadMemory(addr ProcessMemoryAddress, size ProcessMemorySize) ([]byte, error)
}

// Process is the interface that defines operations for interacting with a system process
type Process interface {
	Memory

	// Open opens a process with the given PID for memory operations
	Open(pid ProcessID) error

	// Close closes the process and releases resources
	Close() error

	// GetPID returns the process ID
	GetPID() ProcessID

	// UpdateMemoryMap refreshes the memory map for the process
	UpdateMemoryMap() error

	// IsValidAddress checks if the given memory address is valid and readable
	IsValidAddress(addr ProcessMemoryAddress) bool

	// GetMemoryMap returns a copy of the current memory map
	GetMemoryMap() ([]memory_map.MemoryMapItem, error)

	// ModuleBaseAddress returns the load address of the named module
	ModuleBaseAddress(module string, width BitWidth) (ProcessMemoryAddress, error)
}
