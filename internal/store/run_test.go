package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun("run-1", 4)
	require.NoError(t, s.WriteRun(ctx, run))

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run, got)
}

func TestWriteRun_EmptyRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun("empty", 0)
	require.NoError(t, s.WriteRun(ctx, run))

	got, err := s.ReadRun(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, got.Placements)
	assert.NotNil(t, got.Placements)
}

func TestWriteRun_NilOperandsReadBackEmpty(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun("barrier", 1)
	run.Placements[0].Instruction.Operands = nil
	require.NoError(t, s.WriteRun(ctx, run))

	got, err := s.ReadRun(ctx, "barrier")
	require.NoError(t, err)
	assert.Equal(t, []int{}, got.Placements[0].Instruction.Operands)
}

func TestWriteRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun("run-1", 3)
	require.NoError(t, s.WriteRun(ctx, run))

	// A second write with the same id keeps the first version.
	changed := createTestRun("run-1", 5)
	require.NoError(t, s.WriteRun(ctx, changed))

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, got.Placements, 3)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadRun_PlacementsInSeqOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun("run-1", 5)
	// Write placements out of order; reads come back by seq.
	pl := run.Placements
	pl[0], pl[4] = pl[4], pl[0]
	require.NoError(t, s.WriteRun(ctx, run))

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	for i, p := range got.Placements {
		assert.Equal(t, int64(i+1), p.Seq)
	}
}

func TestListRuns_WriteOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)

	// Ids are deliberately not in lexical order.
	for i, id := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, s.WriteRun(ctx, createTestRun(id, i+1)))
	}

	runs, err = s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	assert.Equal(t, RunSummary{ID: "zeta", Seq: 1, Platform: "two-qubit", PlatformHash: "platform-hash", Makespan: 1, Placements: 1}, runs[0])
	assert.Equal(t, "alpha", runs[1].ID)
	assert.Equal(t, 2, runs[1].Placements)
	assert.Equal(t, "mid", runs[2].ID)
	assert.Equal(t, int64(3), runs[2].Makespan)
}

func TestLatestRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.LatestRun(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.WriteRun(ctx, createTestRun("b", 1)))
	require.NoError(t, s.WriteRun(ctx, createTestRun("a", 2)))

	got, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
}

func TestDeleteRun_CascadesPlacements(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, createTestRun("run-1", 3)))
	require.NoError(t, s.DeleteRun(ctx, "run-1"))
	require.NoError(t, s.DeleteRun(ctx, "run-1"))

	_, err := s.ReadRun(ctx, "run-1")
	assert.ErrorIs(t, err, ErrNotFound)

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM placements").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestWriteRun_CancelledContext(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.WriteRun(ctx, createTestRun("run-1", 1))
	assert.Error(t, err)
}

func TestMarshalOperands(t *testing.T) {
	data, err := marshalOperands([]int{3, 1})
	require.NoError(t, err)
	assert.Equal(t, "[3,1]", data)

	data, err = marshalOperands(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", data)

	ops, err := unmarshalOperands("")
	require.NoError(t, err)
	assert.Equal(t, []int{}, ops)

	_, err = unmarshalOperands("{")
	assert.Error(t, err)
}
