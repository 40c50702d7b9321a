// Package cli implements the memstate command line.
package cli

import (
	"errors"
	"io/fs"
	"os"

	"memstate/config"
	"memstate/process"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	envConfig  = "MEMSTATE_CONFIG"
	envVersion = "MEMSTATE_VERSION"
	envExe     = "MEMSTATE_EXE"
)

// globalOptions are shared by every subcommand
type globalOptions struct {
	configPath string
	version    string
	width      string
	envFile    string
}

// NewRootCmd builds the memstate command tree
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:           "memstate",
		Short:         "Read named game state out of a running process",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.loadEnv(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&g.configPath, "config", "c", "", "Path to the YAML configuration (env "+envConfig+")")
	f.StringVar(&g.version, "version", "", "Game version to use when several are declared (env "+envVersion+")")
	f.StringVar(&g.width, "width", "64", "Pointer width of the target process (32 or 64)")
	f.StringVar(&g.envFile, "env-file", ".env", "File with environment defaults")

	root.AddCommand(newValidateCmd(g))
	root.AddCommand(newSnapshotCmd(g))
	root.AddCommand(newCaptureCmd(g))
	root.AddCommand(newInspectCmd(g))

	return root
}

// loadEnv reads the env file, which never overrides variables already set,
// then fills flags the user did not pass from the environment.
func (g *globalOptions) loadEnv(cmd *cobra.Command) error {
	if g.envFile != "" {
		if err := godotenv.Load(g.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	fromEnv(cmd, "config", envConfig, &g.configPath)
	fromEnv(cmd, "version", envVersion, &g.version)
	return nil
}

func fromEnv(cmd *cobra.Command, flag, env string, dst *string) {
	if fl := cmd.Flag(flag); fl != nil && fl.Changed {
		return
	}
	if v, ok := os.LookupEnv(env); ok {
		*dst = v
	}
}

func (g *globalOptions) loadConfig() (*config.Config, error) {
	if g.configPath == "" {
		return nil, errors.New("no configuration given, use --config or " + envConfig)
	}
	return config.LoadFile(g.configPath)
}

func (g *globalOptions) bitWidth() (process.BitWidth, error) {
	return process.ParseBitWidth(g.width)
}
