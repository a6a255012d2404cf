package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixture returns the path of a descriptor in the compiler's testdata.
func fixture(name string) string {
	return filepath.Join("..", "compiler", "testdata", name)
}

// execute runs the root command with args and returns stdout.
// Diagnostics written to stderr are discarded.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// decodeResponse parses a JSON CLIResponse and returns its data as a map.
func decodeResponse(t *testing.T, out string) (CLIResponse, map[string]any) {
	t.Helper()

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

// writeFile writes content to name inside a fresh temp dir.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// scheduleBell stores one Bell run in a fresh database and returns the
// database path and run id.
func scheduleBell(t *testing.T) (string, string) {
	t.Helper()

	db := filepath.Join(t.TempDir(), "runs.db")
	out, err := execute(t, "schedule", fixture("two_qubit.yaml"), fixture("bell.yaml"), "--db", db, "--format", "json")
	require.NoError(t, err, "output: %s", out)

	_, data := decodeResponse(t, out)
	runID, ok := data["run_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, runID)
	return db, runID
}
