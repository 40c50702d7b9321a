package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"memstate/resolver"
	"memstate/state"
	"memstate/table"

	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

var supportedFormats = []outputFormat{formatTable, formatJSON, formatYAML}

func validateFormat(format string) error {
	names := make([]string, len(supportedFormats))
	for i, f := range supportedFormats {
		if format == string(f) {
			return nil
		}
		names[i] = string(f)
	}
	return fmt.Errorf("unsupported format %q, must be one of: %s", format, strings.Join(names, ", "))
}

// snapshotWriter writes successive snapshots in one format. JSON is one
// document per line and YAML uses document separators.
type snapshotWriter struct {
	w      io.Writer
	format outputFormat
	rt     *resolver.Table
	color  bool
	n      int
}

func (sw *snapshotWriter) Write(snap state.Snapshot) error {
	defer func() { sw.n++ }()

	switch sw.format {
	case formatJSON:
		return json.NewEncoder(sw.w).Encode(snap)
	case formatYAML:
		if sw.n > 0 {
			if _, err := io.WriteString(sw.w, "---\n"); err != nil {
				return err
			}
		}
		data, err := yaml.Marshal(snap)
		if err != nil {
			return err
		}
		_, err = sw.w.Write(data)
		return err
	}

	if sw.n > 0 {
		if _, err := io.WriteString(sw.w, "\n"); err != nil {
			return err
		}
	}
	return table.Snapshot(sw.w, sw.rt, snap, sw.color)
}
