package cli

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"memstate/process_blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `
GameExe: game.exe
GameVersions:
  v1:
    Pointers:
      Stats: 0x100
States:
  Health: {Address: Stats, Type: int}
  Mana: {Address: Stats, ValueOffset: 4, Type: int}
`

func writeFixtures(t *testing.T) (cfgPath, dumpDir string) {
	t.Helper()
	dir := t.TempDir()

	cfgPath = filepath.Join(dir, "game.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(document), 0o644))

	dump := process_blob.NewProcessDump()
	dump.Name = "game.exe"
	dump.SetModule("game.exe", 0x400000)
	stats := make([]byte, 0x108)
	binary.LittleEndian.PutUint32(stats[0x100:], 30)
	binary.LittleEndian.PutUint32(stats[0x104:], 12)
	dump.AddRegion(0x400000, stats)

	dumpDir = filepath.Join(dir, "dump")
	require.NoError(t, dump.Save(dumpDir))
	return cfgPath, dumpDir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", ""))
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	cfgPath, _ := writeFixtures(t)

	out, err := run(t, "validate", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "version v1: 1 base pointers, 2 states")
	assert.Regexp(t, `Mana +int +base\+0x100 \+0x4`, out)
}

func TestValidateBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("States:\n  S: {Address: Nowhere, Type: int}\n"), 0o644))

	_, err := run(t, "validate", "--config", path)
	assert.Error(t, err)

	_, err = run(t, "validate")
	assert.ErrorContains(t, err, "no configuration")
}

func TestSnapshotFromDump(t *testing.T) {
	cfgPath, dumpDir := writeFixtures(t)

	out, err := run(t, "snapshot", "--config", cfgPath, "--dump", dumpDir, "--format", "json", "--count", "2", "--interval", "1ms")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var got map[string]int
		require.NoError(t, json.Unmarshal([]byte(line), &got))
		assert.Equal(t, map[string]int{"Health": 30, "Mana": 12}, got)
	}
}

func TestSnapshotTable(t *testing.T) {
	cfgPath, dumpDir := writeFixtures(t)

	out, err := run(t, "snapshot", "--config", cfgPath, "--dump", dumpDir, "--no-color")
	require.NoError(t, err)
	assert.Regexp(t, `Health +int +30`, out)
	assert.Regexp(t, `Mana +int +12`, out)
}

func TestSnapshotFlags(t *testing.T) {
	cfgPath, dumpDir := writeFixtures(t)

	_, err := run(t, "snapshot", "--config", cfgPath, "--dump", dumpDir, "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format")

	_, err = run(t, "snapshot", "--config", cfgPath, "--dump", dumpDir, "--count", "-1")
	assert.Error(t, err)

	_, err = run(t, "snapshot", "--config", cfgPath, "--dump", dumpDir, "--interval", "0s")
	assert.ErrorContains(t, err, "invalid interval")

	_, err = run(t, "snapshot", "--config", cfgPath, "--dump", dumpDir, "--width", "16")
	assert.Error(t, err)
}

func TestSnapshotStopSignals(t *testing.T) {
	assert.Contains(t, stopSignals, os.Interrupt)
	assert.Contains(t, stopSignals, os.Signal(syscall.SIGTERM))
}

func TestConfigFromEnvironment(t *testing.T) {
	cfgPath, dumpDir := writeFixtures(t)
	t.Setenv(envConfig, cfgPath)

	out, err := run(t, "snapshot", "--dump", dumpDir, "--format", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "Health: 30\nMana: 12\n", out)
}

func TestEnvFile(t *testing.T) {
	cfgPath, _ := writeFixtures(t)
	env := filepath.Join(t.TempDir(), "memstate.env")
	require.NoError(t, os.WriteFile(env, []byte(envConfig+"="+cfgPath+"\n"), 0o644))
	t.Setenv(envConfig, "")
	os.Unsetenv(envConfig)

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"validate", "--env-file", env})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "2 states")
}

func TestInspect(t *testing.T) {
	cfgPath, dumpDir := writeFixtures(t)

	out, err := run(t, "inspect", "Mana", "--config", cfgPath, "--dump", dumpDir, "--no-color", "--bytes", "64")
	require.NoError(t, err)
	assert.Contains(t, out, "Mana: base+0x100 +0x4")
	assert.Contains(t, out, "base   0x400100")
	assert.Contains(t, out, "value  0x400104")
	assert.Contains(t, out, "0c 00 00 00")
	assert.Contains(t, out, "=      12")

	_, err = run(t, "inspect", "Stamina", "--config", cfgPath, "--dump", dumpDir)
	assert.ErrorContains(t, err, "unknown state")
}
