package cli

import (
	"fmt"

	"memstate/config"
	"memstate/process"
	"memstate/process_blob"
	"memstate/session"

	"github.com/spf13/cobra"
)

// targetOptions select the process, or dump, a command reads from
type targetOptions struct {
	exe    string
	module string
	dump   string
}

func (o *targetOptions) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.exe, "exe", "", "Executable name to attach to, overrides game_exe (env "+envExe+")")
	f.StringVar(&o.module, "module", "", "Module the chains are relative to, overrides module")
	f.StringVar(&o.dump, "dump", "", "Read from a dump directory written by capture instead of a live process")
}

func (o *targetOptions) open(cfg *config.Config, g *globalOptions, width process.BitWidth) (*session.Session, error) {
	opts := session.Options{
		Version: g.version,
		Exe:     o.exe,
		Module:  o.module,
		Width:   width,
	}

	if o.dump == "" {
		return session.Attach(cfg, opts)
	}

	dump := process_blob.NewProcessDump()
	if err := dump.Load(o.dump); err != nil {
		return nil, fmt.Errorf("%w: %w", session.ErrProcess, err)
	}
	if opts.Module == "" && cfg.ModuleName() == "" {
		opts.Module = dump.Name
	}
	return session.Open(cfg, dump, opts)
}
