package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleHashDeterministic(t *testing.T) {
	placements := []Placement{
		{Seq: 1, Cycle: 0, Instruction: Instruction{Name: "x90", Category: CategoryMW, Operands: []int{0}, Duration: 1}},
		{Seq: 2, Cycle: 1, Instruction: Instruction{Name: "cz", Category: CategoryFlux, Operands: []int{0, 1}, Duration: 2}},
	}

	h1, err := ScheduleHash(placements)
	require.NoError(t, err)
	h2, err := ScheduleHash(placements)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	placements[1].Cycle = 2
	h3, err := ScheduleHash(placements)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestHashDomainSeparation(t *testing.T) {
	empty, err := ScheduleHash(nil)
	require.NoError(t, err)
	prog, err := ProgramHash(nil)
	require.NoError(t, err)

	// Both encode "[]"; only the domain differs.
	assert.NotEqual(t, empty, prog)
}

func TestPlatformHashIgnoresMapOrder(t *testing.T) {
	a := &Platform{
		Name: "p",
		Resources: []ResourceSpec{{
			Kind:          KindQWGs,
			Count:         2,
			ConnectionMap: map[int][]int{0: {0}, 1: {1}},
		}},
	}
	b := &Platform{
		Name: "p",
		Resources: []ResourceSpec{{
			Kind:          KindQWGs,
			Count:         2,
			ConnectionMap: map[int][]int{1: {1}, 0: {0}},
		}},
	}

	ha, err := PlatformHash(a)
	require.NoError(t, err)
	hb, err := PlatformHash(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}
