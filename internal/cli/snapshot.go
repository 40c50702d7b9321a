package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memstate/session"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/spf13/cobra"
)

// stopSignals end a running snapshot poll
var stopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

type snapshotOptions struct {
	targetOptions
	interval time.Duration
	count    int
	format   string
	noColor  bool
}

func newSnapshotCmd(g *globalOptions) *cobra.Command {
	o := &snapshotOptions{}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Attach to the game and print the value of every state",
		Long: `Attach to the game process, or a saved dump with --dump, and print every
configured state. With --count other than 1 the states are read again every
--interval until enough snapshots were taken or the process exits. A count of
0 polls until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fromEnv(cmd, "exe", envExe, &o.exe)
			return runSnapshot(cmd, g, o)
		},
	}

	f := cmd.Flags()
	o.addFlags(cmd)
	f.DurationVar(&o.interval, "interval", time.Second, "Delay between snapshots")
	f.IntVar(&o.count, "count", 1, "Number of snapshots, 0 for no limit")
	f.StringVarP(&o.format, "format", "o", string(formatTable), "Output format (table, json, yaml)")
	f.BoolVar(&o.noColor, "no-color", false, "Disable colored table output")

	return cmd
}

func runSnapshot(cmd *cobra.Command, g *globalOptions, o *snapshotOptions) error {
	if err := validateFormat(o.format); err != nil {
		return err
	}
	if o.count < 0 {
		return fmt.Errorf("invalid count %d", o.count)
	}
	if o.interval <= 0 {
		return fmt.Errorf("invalid interval %s", o.interval)
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	width, err := g.bitWidth()
	if err != nil {
		return err
	}

	s, err := o.open(cfg, g, width)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), stopSignals...)
	defer stop()

	out := &snapshotWriter{
		w:      cmd.OutOrStdout(),
		format: outputFormat(o.format),
		rt:     s.Resolved(),
		color:  !o.noColor,
	}
	return poll(ctx, s, out, o.interval, o.count)
}

func poll(ctx context.Context, s *session.Session, out *snapshotWriter, interval time.Duration, count int) error {
	log := logger.NewLogger(coloransi.Color(coloransi.Green, coloransi.ColorOrange, "snapshot"))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 0; count == 0 || n < count; n++ {
		if n > 0 {
			select {
			case <-ctx.Done():
				log.Infoln("Interrupted after", n, "snapshots")
				return nil
			case <-ticker.C:
			}
		}

		snap, err := s.Snapshot()
		if errors.Is(err, session.ErrSession) {
			log.Warn("Session ended: ", err)
			return err
		}
		if err != nil {
			return err
		}

		if err := out.Write(snap); err != nil {
			return err
		}
	}
	return nil
}
