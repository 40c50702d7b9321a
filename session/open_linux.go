//go:build linux

package session

import (
	"memstate/process"
	"memstate/process_linux"
)

// OpenProcess opens pid with the memory backend of the running platform
func OpenProcess(pid process.ProcessID) (process.Process, error) {
	return process_linux.NewWithPID(pid)
}
