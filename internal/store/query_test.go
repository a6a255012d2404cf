package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qsched/internal/ir"
	"github.com/roach88/qsched/internal/queryir"
)

func seqs(placements []ir.Placement) []int64 {
	out := make([]int64, len(placements))
	for i, pl := range placements {
		out[i] = pl.Seq
	}
	return out
}

func TestQueryPlacements(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Placements 1..6 at cycles 0..5 on qubits 0,1,0,1,0,1.
	require.NoError(t, s.WriteRun(ctx, createTestRun("run-1", 6)))
	require.NoError(t, s.WriteRun(ctx, createTestRun("run-2", 2)))

	tests := []struct {
		name   string
		filter queryir.Predicate
		want   []int64
	}{
		{"all", nil, []int64{1, 2, 3, 4, 5, 6}},
		{"qubit", queryir.HasOperand{Qubit: 1}, []int64{2, 4, 6}},
		{"name", queryir.Equals{Field: "name", Value: queryir.Text("x90_2")}, []int64{3}},
		{"window", queryir.And{Predicates: []queryir.Predicate{
			queryir.Compare{Field: "cycle", Op: queryir.OpGreaterEqual, Value: 2},
			queryir.Compare{Field: "cycle", Op: queryir.OpLess, Value: 5},
		}}, []int64{3, 4, 5}},
		{"category", queryir.Equals{Field: "category", Value: queryir.Text("mw")}, []int64{1, 2, 3, 4, 5, 6}},
		{"no match", queryir.HasOperand{Qubit: 7}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.QueryPlacements(ctx, "run-1", tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, seqs(got))
		})
	}
}

func TestQueryPlacements_DecodesRows(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun("run-1", 3)
	require.NoError(t, s.WriteRun(ctx, run))

	got, err := s.QueryPlacements(ctx, "run-1", queryir.HasOperand{Qubit: 0})
	require.NoError(t, err)
	assert.Equal(t, []ir.Placement{run.Placements[0], run.Placements[2]}, got)
}

func TestQueryPlacements_UnknownRun(t *testing.T) {
	s := createTestStore(t)

	got, err := s.QueryPlacements(context.Background(), "missing", nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQueryPlacements_RejectsInvalidFilter(t *testing.T) {
	s := createTestStore(t)

	_, err := s.QueryPlacements(context.Background(), "run-1", queryir.Equals{Field: "gate", Value: queryir.Text("cz")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown column placements.gate")
}
