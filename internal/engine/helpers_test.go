package engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/qsched/internal/ir"
	"github.com/roach88/qsched/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, p *ir.Platform, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{
		WithLogger(quietLogger()),
		WithRunIDs(NewFixedGenerator("run-1", "run-2", "run-3")),
	}, opts...)
	e, err := New(p, opts...)
	require.NoError(t, err)
	return e
}

// bell is the two-qubit example program.
func bell(p *ir.Platform) []ir.Instruction {
	return []ir.Instruction{
		testutil.Gate(p, "prepz", 0),
		testutil.Gate(p, "prepz", 1),
		testutil.Gate(p, "x90", 0),
		testutil.Gate(p, "y90", 1),
		testutil.Gate(p, "cz", 0, 1),
		testutil.Gate(p, "measure", 0),
		testutil.Gate(p, "measure", 1),
	}
}

// sharedLinePlatform has three qubits on one drive line; every gate lasts
// one cycle.
func sharedLinePlatform() *ir.Platform {
	return &ir.Platform{
		Name:       "shared-line",
		QubitCount: 3,
		Resources: []ir.ResourceSpec{
			{Kind: ir.KindQubits, Count: 3},
			{Kind: ir.KindQWGs, Count: 1, ConnectionMap: map[int][]int{0: {0, 1, 2}}},
		},
		Instructions: map[string]ir.InstructionDef{
			"x90": {Category: ir.CategoryMW, Duration: 1},
			"y90": {Category: ir.CategoryMW, Duration: 1},
		},
	}
}

// sharedLineProgram alternates gate names on the shared line so ASAP
// serializes them.
func sharedLineProgram(p *ir.Platform) []ir.Instruction {
	return []ir.Instruction{
		testutil.Gate(p, "x90", 0),
		testutil.Gate(p, "y90", 1),
		testutil.Gate(p, "x90", 2),
	}
}

func cycles(placements []ir.Placement) []int64 {
	out := make([]int64, len(placements))
	for i, p := range placements {
		out[i] = p.Cycle
	}
	return out
}

func names(placements []ir.Placement) []string {
	out := make([]string, len(placements))
	for i, p := range placements {
		out[i] = p.Instruction.Name
	}
	return out
}
