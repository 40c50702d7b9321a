//go:build !linux && !windows

package session

import (
	"fmt"
	"runtime"

	"memstate/process"
)

// OpenProcess opens pid with the memory backend of the running platform
func OpenProcess(pid process.ProcessID) (process.Process, error) {
	return nil, fmt.Errorf("reading process memory is not supported on %s", runtime.GOOS)
}
