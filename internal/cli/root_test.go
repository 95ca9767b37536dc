package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shelterutil "github.com/roach88/shelter/internal/testutil"
)

// harness runs root commands against one database with a fixed clock.
type harness struct {
	t      *testing.T
	dbPath string
	outDir string
	clock  *shelterutil.FixedClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{
		t:      t,
		dbPath: filepath.Join(dir, "shelter.db"),
		outDir: filepath.Join(dir, "reports"),
		clock:  shelterutil.ClockOn("2025-12-03"),
	}
}

// run executes the root command with --db prepended and returns stdout,
// stderr and the error.
func (h *harness) run(args ...string) (string, string, error) {
	return h.runContext(context.Background(), args...)
}

func (h *harness) runContext(ctx context.Context, args ...string) (string, string, error) {
	h.t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	cmd := NewRootCommandWithOptions(&RootOptions{Clock: h.clock})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{"--db", h.dbPath}, args...))

	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, errOut, err := h.run(args...)
	require.NoError(h.t, err, "stdout: %s\nstderr: %s", out, errOut)
	return out
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "shelter", cmd.Use)
	assert.Contains(t, cmd.Long, "duplicate")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"resident", "add"},
		{"resident", "list"},
		{"resident", "search"},
		{"resident", "check"},
		{"resident", "show"},
		{"service", "log"},
		{"service", "list"},
		{"report", "monthly"},
		{"report", "system"},
		{"seed"},
		{"serve"},
	}

	for _, path := range commands {
		t.Run(filepath.Join(path...), func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("db"))
}

func TestInvalidFormat(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("--format", "yaml", "resident", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestWrongArgumentCount(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("resident", "add", "Maria")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.False(t, IsReported(err))
}

func TestUnopenableDatabase(t *testing.T) {
	h := newHarness(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	h.dbPath = filepath.Join(blocker, "shelter.db")

	_, _, err := h.run("resident", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "from-config.db")
	cfgPath := filepath.Join(dir, "shelter.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("db:\n  path: "+dbPath+"\nlog:\n  level: debug\n"), 0o644))

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommandWithOptions(&RootOptions{Clock: shelterutil.ClockOn("2025-12-03")})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"--config", cfgPath, "resident", "add", "Maria", "Garcia"})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(dbPath)
	assert.NoError(t, err, "database is created at the configured path")
	assert.Contains(t, errOut.String(), "opening database", "debug logs go to stderr")
}

func TestConfigFile_Missing(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("--config", filepath.Join(t.TempDir(), "absent.yaml"), "resident", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestJSONOutputIsParseable(t *testing.T) {
	h := newHarness(t)
	h.mustRun("resident", "add", "Maria", "Garcia")

	out, _, err := h.run("--format", "json", "-v", "resident", "list")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, "ok", resp.Status)
}
