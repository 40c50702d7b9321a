package cli

import (
	"errors"
	"fmt"
	"io"

	"memstate/hexdump"
	"memstate/memtype"
	"memstate/process"
	"memstate/resolver"
	"memstate/session"

	"github.com/spf13/cobra"
)

type inspectOptions struct {
	targetOptions
	bytes   int
	noColor bool
}

func newInspectCmd(g *globalOptions) *cobra.Command {
	o := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect STATE",
		Short: "Walk one state's pointer chain step by step and dump the memory it reads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromEnv(cmd, "exe", envExe, &o.exe)
			return runInspect(cmd, g, o, args[0])
		},
	}

	o.addFlags(cmd)
	cmd.Flags().IntVar(&o.bytes, "bytes", 0, "Bytes to dump at the final address, defaults to the value size")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func runInspect(cmd *cobra.Command, g *globalOptions, o *inspectOptions, name string) error {
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

	spec, ok := s.Resolved().Lookup(name)
	if !ok {
		return fmt.Errorf("unknown state %q", name)
	}

	out := cmd.OutOrStdout()
	proc := s.Process()
	if err := proc.UpdateMemoryMap(); err != nil {
		return fmt.Errorf("%w: %w", session.ErrSession, err)
	}
	mm, err := proc.GetMemoryMap()
	if err != nil {
		return err
	}

	base := s.ModuleBase().Offset(spec.Chain.Base)
	fmt.Fprintf(out, "%s: %s\n", spec.Name, spec.Chain)
	fmt.Fprintf(out, "base   %s\n", base.ToString())

	location, err := process.WalkPath(proc, base, s.Width(), spec.Chain.Levels, func(step int, at, got process.ProcessMemoryAddress) {
		fmt.Fprintf(out, "[%d]    *%s = %s\n", step, at.ToString(), got.ToString())
	})
	if err != nil {
		if errors.Is(err, process.ErrProcessExited) {
			return fmt.Errorf("%w: %w", session.ErrSession, err)
		}
		fmt.Fprintf(out, "null   %v\n", err)
		return nil
	}

	addr := location.Offset(spec.Chain.Offset)
	size := valueSize(spec)
	n := o.bytes
	if n <= 0 {
		n = size
	}

	data, err := proc.ReadMemory(addr, process.ProcessMemorySize(n))
	if err != nil && n > size {
		data, err = proc.ReadMemory(addr, process.ProcessMemorySize(size))
	}
	if err != nil {
		fmt.Fprintf(out, "value  read at %s failed: %v\n", addr.ToString(), err)
		return nil
	}

	fmt.Fprintf(out, "value  %s\n", addr.ToString())
	if err := hexdump.Write(out, data, hexdump.Options{
		BytesPerLine: 16,
		StartAddress: uint64(addr),
		Color:        !o.noColor,
		MarkLen:      size,
		MemoryMap:    mm,
	}); err != nil {
		return err
	}

	writeDecoded(out, spec, data)
	return nil
}

// valueSize is the number of bytes a state's read covers
func valueSize(spec *resolver.Spec) int {
	if spec.Struct == nil {
		return max(spec.Scalar.Width(), 1)
	}
	size := 1
	for _, f := range spec.Struct.Fields {
		size = max(size, int(f.Offset)+f.Kind.Width())
	}
	return size
}

func writeDecoded(w io.Writer, spec *resolver.Spec, data []byte) {
	decode := func(kind memtype.Kind, off int64) string {
		if off < 0 || int(off) >= len(data) {
			return "?"
		}
		v, err := kind.Decode(data[off:])
		if err != nil {
			return err.Error()
		}
		return v.String()
	}

	if spec.Struct == nil {
		fmt.Fprintf(w, "=      %s\n", decode(spec.Scalar, 0))
		return
	}
	for _, f := range spec.Struct.Fields {
		fmt.Fprintf(w, "  .%-12s %-6s %s\n", f.Name, f.Kind, decode(f.Kind, f.Offset))
	}
}
