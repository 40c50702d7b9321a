// Package session attaches a resolved configuration to a target process and
// serves snapshots until the process goes away or the session is closed.
package session

import (
	"errors"
	"fmt"

	"memstate/config"
	"memstate/process"
	"memstate/process_finder"
	"memstate/resolver"
	"memstate/state"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

var (
	// ErrProcess is returned when attaching fails: no process, no module base
	ErrProcess = errors.New("process error")

	// ErrSession is returned by Snapshot once the target process is gone
	ErrSession = errors.New("session error")

	ErrClosed = fmt.Errorf("%w: session closed", ErrSession)
)

// Options selects what to attach to. Zero values fall back to the configuration.
type Options struct {
	Version string // active game version, required when several are declared
	Exe     string // executable to look for instead of game_exe
	Module  string // module whose base chains are relative to
	Width   process.BitWidth

	Finder  process.ProcessFinder                                // defaults to gopsutil
	OpenPID func(pid process.ProcessID) (process.Process, error) // defaults to OpenProcess
}

func (o Options) width() process.BitWidth {
	if o.Width == 0 {
		return process.Bits64
	}
	return o.Width
}

// Session is one attachment of a configuration to one process
type Session struct {
	resolved   *resolver.Table
	proc       process.Process
	states     *state.Table
	moduleBase process.ProcessMemoryAddress
	width      process.BitWidth
	log        *logger.Logger
	closed     bool
}

// Attach resolves cfg, finds the target process by name and attaches to it.
// Configuration errors are reported before any process is looked up.
func Attach(cfg *config.Config, opts Options) (*Session, error) {
	resolved, err := resolver.Resolve(cfg, resolver.Options{Version: opts.Version})
	if err != nil {
		return nil, err
	}

	exe := opts.Exe
	if exe == "" {
		exe = cfg.GameExe
	}
	if exe == "" {
		return nil, fmt.Errorf("%w: no executable name configured", ErrProcess)
	}

	finder := opts.Finder
	if finder == nil {
		finder = process_finder.New()
	}
	info, err := finder.FindProcess(exe)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcess, err)
	}

	open := opts.OpenPID
	if open == nil {
		open = OpenProcess
	}
	proc, err := open(info.PID)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s (%d): %w", ErrProcess, exe, info.PID, err)
	}

	if opts.Module == "" && cfg.ModuleName() == "" {
		opts.Module = info.Name
	}

	s, err := attach(resolved, cfg, proc, opts)
	if err != nil {
		_ = proc.Close()
		return nil, err
	}
	return s, nil
}

// Open attaches cfg to an already opened process, such as a loaded dump
func Open(cfg *config.Config, proc process.Process, opts Options) (*Session, error) {
	resolved, err := resolver.Resolve(cfg, resolver.Options{Version: opts.Version})
	if err != nil {
		return nil, err
	}
	return attach(resolved, cfg, proc, opts)
}

func attach(resolved *resolver.Table, cfg *config.Config, proc process.Process, opts Options) (*Session, error) {
	module := opts.Module
	if module == "" {
		module = cfg.ModuleName()
	}

	log := logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("session-%d", proc.GetPID())))

	// captured once; the chains keep this base for the whole session
	base, err := proc.ModuleBaseAddress(module, opts.width())
	if err != nil {
		return nil, fmt.Errorf("%w: module base of %q: %w", ErrProcess, module, err)
	}

	states, err := state.New(resolved, proc, base, opts.width())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcess, err)
	}

	log.Infoln("Attached version", resolved.Version, "module", module, "at", base.ToString())

	return &Session{
		resolved:   resolved,
		proc:       proc,
		states:     states,
		moduleBase: base,
		width:      opts.width(),
		log:        log,
	}, nil
}

// Snapshot reads every state once. If the process has exited the error wraps
// ErrSession; the caller decides whether to attach again.
func (s *Session) Snapshot() (state.Snapshot, error) {
	if s.closed {
		return nil, ErrClosed
	}

	// new allocations in the target only become readable after a refresh
	if err := s.proc.UpdateMemoryMap(); err != nil {
		if errors.Is(err, process.ErrProcessExited) {
			s.log.Warn("Target process exited: ", err)
			return nil, fmt.Errorf("%w: %w", ErrSession, err)
		}
		return nil, err
	}

	snap, err := s.states.Snapshot()
	if err != nil {
		if errors.Is(err, process.ErrProcessExited) {
			s.log.Warn("Target process exited: ", err)
			return nil, fmt.Errorf("%w: %w", ErrSession, err)
		}
		return nil, err
	}
	return snap, nil
}

// Close releases the process handle; later snapshots fail with ErrClosed
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.proc.Close()
}

func (s *Session) Resolved() *resolver.Table                { return s.resolved }
func (s *Session) Process() process.Process                 { return s.proc }
func (s *Session) ModuleBase() process.ProcessMemoryAddress { return s.moduleBase }
func (s *Session) Names() []string                          { return s.states.Names() }
func (s *Session) Width() process.BitWidth                  { return s.width }

// Version returns the active version name and its content hash. Comparing the
// hash with the attached binary is left to the host.
func (s *Session) Version() (string, []byte) {
	return s.resolved.Version, s.resolved.ContentHash
}
