package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuns_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found.")
}

func TestRuns_ListsInWriteOrder(t *testing.T) {
	db, first := scheduleBell(t)

	out, err := execute(t, "schedule", fixture("two_qubit.yaml"), fixture("bell.yaml"), "--db", db, "--format", "json")
	require.NoError(t, err)
	_, data := decodeResponse(t, out)
	second := data["run_id"].(string)

	out, err = execute(t, "runs", "--db", db, "--format", "json")
	require.NoError(t, err)
	resp, _ := decodeResponse(t, out)
	runs, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0].(map[string]any)["id"])
	assert.Equal(t, second, runs[1].(map[string]any)["id"])
	assert.EqualValues(t, 7, runs[0].(map[string]any)["placements"])

	out, err = execute(t, "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, first)
	assert.Contains(t, out, "two-qubit")
}
