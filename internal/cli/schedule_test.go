package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_Text(t *testing.T) {
	out, err := execute(t, "schedule", fixture("two_qubit.yaml"), fixture("bell.yaml"))
	require.NoError(t, err, "output: %s", out)

	assert.Contains(t, out, "✓ Scheduled bell on two-qubit: 7 instruction(s), makespan 5 cycle(s)")
	assert.NotContains(t, out, "(stored)")
	assert.Contains(t, out, "measure")
}

func TestSchedule_JSON(t *testing.T) {
	out, err := execute(t, "schedule", fixture("two_qubit.yaml"), fixture("bell.yaml"), "--format", "json")
	require.NoError(t, err)

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.EqualValues(t, 5, data["makespan"])
	assert.Equal(t, false, data["stored"])
	assert.Equal(t, "bell", data["program"])

	placements, ok := data["placements"].([]any)
	require.True(t, ok)
	assert.Len(t, placements, 7)
}

func TestSchedule_Lookahead(t *testing.T) {
	out, err := execute(t, "schedule", fixture("two_qubit.yaml"), fixture("bell.yaml"), "--lookahead", "4", "--format", "json")
	require.NoError(t, err)

	_, data := decodeResponse(t, out)
	assert.EqualValues(t, 5, data["makespan"])
}

func TestSchedule_StoresRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, "schedule", fixture("two_qubit.yaml"), fixture("bell.yaml"), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "(stored)")

	out, err = execute(t, "runs", "--db", db, "--format", "json")
	require.NoError(t, err)
	resp, _ := decodeResponse(t, out)
	runs, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, runs, 1)
}

func TestSchedule_UnknownGate(t *testing.T) {
	program := writeFile(t, "swap.yaml", `name: swap
program:
  - {name: swap, qubits: [0, 1]}
`)

	out, err := execute(t, "schedule", fixture("two_qubit.yaml"), program)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E204")
}

func TestSchedule_IllegalEdge(t *testing.T) {
	program := writeFile(t, "reversed.yaml", `name: reversed
program:
  - {name: cz, qubits: [1, 0]}
`)

	out, err := execute(t, "schedule", fixture("two_qubit.yaml"), program, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp, _ := decodeResponse(t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ILLEGAL_EDGE", resp.Error.Code)
}
