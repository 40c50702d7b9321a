package cli

import (
	"errors"
	"fmt"

	"memstate/process_blob"
	"memstate/process_finder"
	"memstate/session"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/spf13/cobra"
)

type captureOptions struct {
	exe    string
	module string
	out    string
}

func newCaptureCmd(g *globalOptions) *cobra.Command {
	o := &captureOptions{}

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Copy the readable memory of the game into a dump directory",
		Long: `Copy every readable region of the game process into a directory that
snapshot --dump can read later. The executable and module come from the flags,
or from the configuration when one is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fromEnv(cmd, "exe", envExe, &o.exe)
			return runCapture(g, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.exe, "exe", "", "Executable name to capture (env "+envExe+")")
	f.StringVar(&o.module, "module", "", "Module whose base is recorded in the dump")
	f.StringVar(&o.out, "out", "", "Directory to write the dump to")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runCapture(g *globalOptions, o *captureOptions) error {
	log := logger.NewLogger(coloransi.Color(coloransi.Cyan, coloransi.ColorOrange, "capture"))

	if g.configPath != "" {
		cfg, err := g.loadConfig()
		if err != nil {
			return err
		}
		if o.exe == "" {
			o.exe = cfg.GameExe
		}
		if o.module == "" {
			o.module = cfg.ModuleName()
		}
	}
	if o.exe == "" {
		return errors.New("no executable given, use --exe or a configuration with game_exe")
	}

	width, err := g.bitWidth()
	if err != nil {
		return err
	}

	info, err := process_finder.New().FindProcess(o.exe)
	if err != nil {
		return fmt.Errorf("%w: %w", session.ErrProcess, err)
	}
	if o.module == "" {
		o.module = info.Name
	}

	proc, err := session.OpenProcess(info.PID)
	if err != nil {
		return fmt.Errorf("%w: %w", session.ErrProcess, err)
	}
	defer proc.Close()

	dump, err := process_blob.Capture(proc, o.module, width)
	if err != nil {
		return err
	}
	if err := dump.Save(o.out); err != nil {
		return err
	}

	log.Infoln("Saved", len(dump.MemoryMap), "regions of", o.exe, "pid", info.PID, "to", o.out)
	return nil
}
