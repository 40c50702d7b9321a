// Package process provides interfaces and types for reading another process's memory
package process

import "errors"

var (
	// ErrAddressNotMapped is returned when a memory address is not found within any mapped region of a process.
	ErrAddressNotMapped = errors.New("address not mapped")

	// ErrProcessNotOpen is returned when an operation requiring an open process is attempted
	// before the process has been successfully opened or after it has been closed.
	ErrProcessNotOpen = errors.New("process not open")

	// ErrProcessExited is returned by every read once the target process is gone.
	ErrProcessExited = errors.New("process exited")

	// ErrModuleNotFound is returned when no loaded module matches the requested name.
	ErrModuleNotFound = errors.New("module not found")

	ErrInvalidPointer = errors.New("invalid pointer read")
)
