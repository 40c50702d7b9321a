package cli

import (
	"fmt"

	"memstate/resolver"

	"github.com/spf13/cobra"
)

func newValidateCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and resolve the configuration without touching a process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			rt, err := resolver.Resolve(cfg, resolver.Options{Version: g.version})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version %s: %d base pointers, %d states\n", rt.Version, len(rt.Base), len(rt.Specs))
			for _, s := range rt.Specs {
				typ := s.Scalar.String()
				if s.Struct != nil {
					typ = s.Struct.Name
				}
				fmt.Fprintf(out, "  %-24s %-10s %s\n", s.Name, typ, s.Chain)
			}
			return nil
		},
	}
}
