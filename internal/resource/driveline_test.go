package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qsched/internal/ir"
)

func newLines(t *testing.T) *DriveLineResource {
	t.Helper()
	r, err := NewDriveLineResource(ir.ResourceSpec{
		Kind:          ir.KindQWGs,
		Count:         2,
		ConnectionMap: map[int][]int{0: {0, 1}, 1: {2}},
	}, 4, discardLogger())
	require.NoError(t, err)
	return r
}

func TestDriveLineSameOperationShares(t *testing.T) {
	r := newLines(t)
	require.NoError(t, r.Reserve(0, mw("x90", 2, 0)))

	assert.True(t, mustAvailable(t, r, 0, mw("x90", 2, 1)), "same name on same line")
	assert.True(t, mustAvailable(t, r, 1, mw("x90", 2, 1)))
	assert.False(t, mustAvailable(t, r, 0, mw("y90", 2, 1)), "different name on same line")
	assert.False(t, mustAvailable(t, r, 1, mw("y90", 2, 1)))
	assert.True(t, mustAvailable(t, r, 2, mw("y90", 2, 1)), "line free again")
	assert.True(t, mustAvailable(t, r, 0, mw("y90", 2, 2)), "other line")
}

func TestDriveLineComparesNormalizedNames(t *testing.T) {
	r := newLines(t)
	require.NoError(t, r.Reserve(0, mw("rx_\u00e9", 2, 0)))

	assert.True(t, mustAvailable(t, r, 0, mw("rx_e\u0301", 2, 1)))
	assert.True(t, mustAvailable(t, r, 0, mw(" rx_\u00e9\t", 2, 1)), "surrounding space")
	assert.False(t, mustAvailable(t, r, 0, mw("rx_e", 2, 1)))
}

func TestDriveLineReserveExtendsWithMax(t *testing.T) {
	r := newLines(t)
	require.NoError(t, r.Reserve(0, mw("x90", 6, 0)))
	require.NoError(t, r.Reserve(1, mw("x90", 2, 1)))

	assert.Equal(t, int64(6), r.Busy()[0], "shorter overlapping operation must not shrink occupation")
	assert.Equal(t, "x90", r.Playing(0))

	require.NoError(t, r.Reserve(5, mw("x90", 4, 1)))
	assert.Equal(t, int64(9), r.Busy()[0])
}

func TestDriveLineIgnoresNonMicrowave(t *testing.T) {
	r := newLines(t)
	require.NoError(t, r.Reserve(0, mw("x90", 5, 0)))

	assert.True(t, mustAvailable(t, r, 0, readout(5, 1)))
	assert.True(t, mustAvailable(t, r, 0, flux("cz", 5, 0, 1)))

	require.NoError(t, r.Reserve(0, other("prepz", 50, 1)))
	assert.Equal(t, []int64{5, 0}, r.Busy())
	assert.Equal(t, "x90", r.Playing(0))
}

func TestDriveLineUnmappedQubitNeverContends(t *testing.T) {
	r := newLines(t)
	require.NoError(t, r.Reserve(0, mw("x90", 5, 3)))

	assert.Equal(t, []int64{0, 0}, r.Busy())
	assert.True(t, mustAvailable(t, r, 0, mw("y90", 1, 3)))
}

func TestDriveLineConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		spec ir.ResourceSpec
	}{
		{"unit out of range", ir.ResourceSpec{Kind: ir.KindQWGs, Count: 1, ConnectionMap: map[int][]int{1: {0}}}},
		{"qubit out of range", ir.ResourceSpec{Kind: ir.KindQWGs, Count: 1, ConnectionMap: map[int][]int{0: {7}}}},
		{"qubit on two lines", ir.ResourceSpec{Kind: ir.KindQWGs, Count: 2, ConnectionMap: map[int][]int{0: {0}, 1: {0}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDriveLineResource(tt.spec, 4, discardLogger())
			require.Error(t, err)
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestDriveLineCloneCopiesOperations(t *testing.T) {
	r := newLines(t)
	require.NoError(t, r.Reserve(0, mw("x90", 2, 0)))

	c := r.Clone().(*DriveLineResource)
	require.NoError(t, c.Reserve(1, mw("y90", 4, 0)))

	assert.Equal(t, "x90", r.Playing(0))
	assert.Equal(t, int64(2), r.Busy()[0])
	assert.Equal(t, "y90", c.Playing(0))
	assert.Equal(t, int64(5), c.Busy()[0])
}
