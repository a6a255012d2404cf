package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/qsched/internal/ir"
)

// createTestStore opens a fresh store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun builds a run with n single-qubit placements one cycle apart.
func createTestRun(id string, n int) *ir.Schedule {
	placements := make([]ir.Placement, n)
	for i := range placements {
		placements[i] = ir.Placement{
			Seq:   int64(i + 1),
			Cycle: int64(i),
			Instruction: ir.Instruction{
				Name:     fmt.Sprintf("x90_%d", i),
				Category: ir.CategoryMW,
				Operands: []int{i % 2},
				Duration: 1,
			},
		}
	}
	return &ir.Schedule{
		ID:            id,
		Platform:      "two-qubit",
		PlatformHash:  "platform-hash",
		ProgramHash:   "program-hash-" + id,
		Placements:    placements,
		Makespan:      ir.ComputeMakespan(placements),
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
}
