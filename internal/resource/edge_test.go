package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qsched/internal/ir"
	"github.com/roach88/qsched/internal/testutil"
)

func newSurfaceEdges(t *testing.T) *CouplingEdgeResource {
	t.Helper()
	p := testutil.SurfaceSevenPlatform()
	spec, ok := p.Resource(ir.KindEdges)
	require.True(t, ok)
	r, err := NewCouplingEdgeResource(spec, p.Topology.Edges, p.Qubits(), discardLogger())
	require.NoError(t, err)
	return r
}

func TestCouplingEdgeBusy(t *testing.T) {
	r := newSurfaceEdges(t)

	// 2->0 is edge 0
	require.True(t, mustAvailable(t, r, 0, flux("cz", 2, 2, 0)))
	require.NoError(t, r.Reserve(0, flux("cz", 2, 2, 0)))

	assert.False(t, mustAvailable(t, r, 1, flux("cz", 2, 2, 0)))
	assert.True(t, mustAvailable(t, r, 2, flux("cz", 2, 2, 0)))
}

func TestCouplingEdgeCrosstalkPropagation(t *testing.T) {
	r := newSurfaceEdges(t)

	// Edge 0 declares 2 and 10 in crosstalk.
	require.NoError(t, r.Reserve(3, flux("cz", 2, 2, 0)))

	busy := r.Busy()
	assert.Equal(t, int64(5), busy[0])
	assert.Equal(t, int64(5), busy[2])
	assert.Equal(t, int64(5), busy[10])
	assert.Equal(t, int64(0), busy[1])

	// 3->1 is edge 2: blocked by crosstalk although no operand is shared.
	assert.False(t, mustAvailable(t, r, 4, flux("cz", 2, 3, 1)))
	assert.True(t, mustAvailable(t, r, 5, flux("cz", 2, 3, 1)))
	// 0->3 is edge 1: unrelated.
	assert.True(t, mustAvailable(t, r, 3, flux("cz", 2, 0, 3)))
}

func TestCouplingEdgeCrosstalkIsSymmetric(t *testing.T) {
	spec := ir.ResourceSpec{
		Kind:          ir.KindEdges,
		Count:         3,
		ConnectionMap: map[int][]int{0: {1}, 2: {2}},
	}
	topo := []ir.TopologyEdge{
		{ID: 0, Src: 0, Dst: 1},
		{ID: 1, Src: 1, Dst: 2},
		{ID: 2, Src: 2, Dst: 3},
	}
	r, err := NewCouplingEdgeResource(spec, topo, 4, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, []int{1}, r.Neighbors(0))
	assert.Equal(t, []int{0}, r.Neighbors(1))
	assert.Empty(t, r.Neighbors(2), "self references dropped")

	require.NoError(t, r.Reserve(0, flux("cz", 4, 1, 2)))
	assert.Equal(t, []int64{4, 4, 0}, r.Busy())
}

func TestCouplingEdgeIllegalEdge(t *testing.T) {
	r := newSurfaceEdges(t)

	// 0->1 is not an edge of the surface-7 topology.
	ok, err := r.Available(0, flux("cz", 2, 0, 1))
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, IsIllegalEdge(err))
	assert.True(t, IsUsageError(err))
	assert.Contains(t, err.Error(), "0->1")
	assert.Contains(t, err.Error(), "cz")

	err = r.Reserve(0, flux("cz", 2, 0, 1))
	require.Error(t, err)
	assert.True(t, IsIllegalEdge(err))
	for _, b := range r.Busy() {
		assert.Equal(t, int64(0), b)
	}
}

func TestCouplingEdgeDirectionMatters(t *testing.T) {
	r := newSurfaceEdges(t)

	// 2->0 is edge 0 and 0->2 is edge 8; both exist but are distinct.
	require.NoError(t, r.Reserve(0, flux("cz", 2, 2, 0)))
	busy := r.Busy()
	assert.Equal(t, int64(2), busy[0])
	assert.Equal(t, int64(0), busy[8])
}

func TestCouplingEdgeOperandCount(t *testing.T) {
	r := newSurfaceEdges(t)

	ins := ir.Instruction{Name: "park", Category: ir.CategoryFlux, Operands: []int{2}, Duration: 1}
	_, err := r.Available(0, ins)
	require.Error(t, err)
	assert.True(t, IsUsageError(err))
	assert.False(t, IsIllegalEdge(err))
}

func TestCouplingEdgeIgnoresOtherCategories(t *testing.T) {
	r := newSurfaceEdges(t)

	// Pairs without edges are fine outside flux.
	ok, err := r.Available(0, ir.Instruction{Name: "x", Category: ir.CategoryMW, Operands: []int{0, 1}, Duration: 1})
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, r.Reserve(0, readout(5, 0, 1)))
}

func TestCouplingEdgeReserveAssigns(t *testing.T) {
	r := newSurfaceEdges(t)

	require.NoError(t, r.Reserve(10, flux("cz", 2, 2, 0)))
	// Reserving without the Available check takes the last write.
	require.NoError(t, r.Reserve(0, flux("cz", 2, 2, 0)))
	assert.Equal(t, int64(2), r.Busy()[0])
}

func TestCouplingEdgeConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		spec ir.ResourceSpec
		topo []ir.TopologyEdge
		code ErrorCode
	}{
		{
			name: "duplicate pair",
			spec: ir.ResourceSpec{Kind: ir.KindEdges, Count: 2},
			topo: []ir.TopologyEdge{{ID: 0, Src: 0, Dst: 1}, {ID: 1, Src: 0, Dst: 1}},
			code: ErrCodeDuplicateEdge,
		},
		{
			name: "duplicate id",
			spec: ir.ResourceSpec{Kind: ir.KindEdges, Count: 2},
			topo: []ir.TopologyEdge{{ID: 0, Src: 0, Dst: 1}, {ID: 0, Src: 1, Dst: 0}},
			code: ErrCodeDuplicateEdge,
		},
		{
			name: "edge id out of range",
			spec: ir.ResourceSpec{Kind: ir.KindEdges, Count: 1},
			topo: []ir.TopologyEdge{{ID: 1, Src: 0, Dst: 1}},
			code: ErrCodeInvalidConnection,
		},
		{
			name: "qubit out of range",
			spec: ir.ResourceSpec{Kind: ir.KindEdges, Count: 1},
			topo: []ir.TopologyEdge{{ID: 0, Src: 0, Dst: 9}},
			code: ErrCodeInvalidConnection,
		},
		{
			name: "conflict out of range",
			spec: ir.ResourceSpec{Kind: ir.KindEdges, Count: 1, ConnectionMap: map[int][]int{0: {4}}},
			topo: []ir.TopologyEdge{{ID: 0, Src: 0, Dst: 1}},
			code: ErrCodeInvalidConnection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCouplingEdgeResource(tt.spec, tt.topo, 4, discardLogger())
			require.Error(t, err)
			var re *Error
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.code, re.Code)
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestCouplingEdgeCloneSharesConnectivityOnly(t *testing.T) {
	r := newSurfaceEdges(t)
	c := r.Clone().(*CouplingEdgeResource)

	assert.Same(t, r.edges, c.edges)

	require.NoError(t, c.Reserve(0, flux("cz", 2, 2, 0)))
	assert.True(t, mustAvailable(t, r, 0, flux("cz", 2, 3, 1)))
	assert.False(t, mustAvailable(t, c, 0, flux("cz", 2, 3, 1)))
}
