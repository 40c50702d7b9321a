// Package process_finder locates running processes by executable name on any
// platform gopsutil supports.
package process_finder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"memstate/process"

	gp "github.com/shirou/gopsutil/v4/process"
)

var ErrProcessNotFound = errors.New("process not found")

// Finder implements process.ProcessFinder with gopsutil
type Finder struct{}

var _ process.ProcessFinder = (*Finder)(nil)

func New() *Finder {
	return &Finder{}
}

// FindProcessByName returns every process whose name or executable base name
// matches, ordered by PID. Matching ignores case and a trailing ".exe".
func (f *Finder) FindProcessByName(name string) ([]process.ProcessInfo, error) {
	if name == "" {
		return nil, errors.New("empty name")
	}

	procs, err := gp.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	self := int32(os.Getpid())
	var out []process.ProcessInfo
	for _, p := range procs {
		if p.Pid == self {
			continue
		}

		// may fail for zombies or processes owned by other users
		pname, _ := p.Name()
		exe, _ := p.Exe()
		if !MatchName(pname, name) && (exe == "" || !MatchName(filepath.Base(exe), name)) {
			continue
		}

		info := process.ProcessInfo{PID: process.ProcessID(p.Pid), Name: pname, Exe: exe}
		if ppid, err := p.Ppid(); err == nil {
			info.PPID = process.ProcessID(ppid)
		}
		out = append(out, info)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out, nil
}

// FindProcess returns the lowest-PID match so repeated lookups are deterministic
func (f *Finder) FindProcess(name string) (process.ProcessInfo, error) {
	ps, err := f.FindProcessByName(name)
	if err != nil {
		return process.ProcessInfo{}, err
	}
	if len(ps) == 0 {
		return process.ProcessInfo{}, fmt.Errorf("%w: %s", ErrProcessNotFound, name)
	}
	return ps[0], nil
}

// MatchName compares process names ignoring case and a ".exe" suffix
func MatchName(candidate, want string) bool {
	if candidate == "" {
		return false
	}
	if strings.EqualFold(candidate, want) {
		return true
	}
	return strings.EqualFold(trimExe(candidate), trimExe(want))
}

func trimExe(name string) string {
	if len(name) > 4 && strings.EqualFold(name[len(name)-4:], ".exe") {
		return name[:len(name)-4]
	}
	return name
}
