//go:build windows

package session

import (
	"memstate/process"
	"memstate/process_windows"
)

// OpenProcess opens pid with the memory backend of the running platform
func OpenProcess(pid process.ProcessID) (process.Process, error) {
	return process_windows.NewWithPID(pid)
}
