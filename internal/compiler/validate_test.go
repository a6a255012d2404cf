package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qsched/internal/ir"
	"github.com/roach88/qsched/internal/testutil"
)

func codes(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidateFixturesClean(t *testing.T) {
	assert.Empty(t, Validate(testutil.TwoQubitPlatform()))
	assert.Empty(t, Validate(*testutil.SurfaceSevenPlatform()))
}

func TestValidateUnsupportedType(t *testing.T) {
	errs := Validate("platform")
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnsupportedType, errs[0].Code)
}

func TestValidatePlatformRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *ir.Platform)
		want   []string
	}{
		{
			name:   "no resources",
			mutate: func(p *ir.Platform) { p.Resources = nil },
			want:   []string{ErrNoResources},
		},
		{
			name:   "negative cycle time",
			mutate: func(p *ir.Platform) { p.CycleTime = -1 },
			want:   []string{ErrInvalidCycleTime},
		},
		{
			name: "no qubits",
			mutate: func(p *ir.Platform) {
				p.QubitCount = 0
				p.Resources = p.Resources[1:2]
				p.Resources[0].ConnectionMap = nil
			},
			want: []string{ErrInvalidQubitNumber},
		},
		{
			name: "unknown kind",
			mutate: func(p *ir.Platform) {
				p.Resources = append(p.Resources, ir.ResourceSpec{Kind: "lasers", Count: 1})
			},
			want: []string{ErrUnknownResource},
		},
		{
			name: "duplicate kind",
			mutate: func(p *ir.Platform) {
				p.Resources = append(p.Resources, ir.ResourceSpec{Kind: ir.KindQubits, Count: 2})
			},
			want: []string{ErrInvalidCount},
		},
		{
			name:   "negative count",
			mutate: func(p *ir.Platform) { p.Resources[1].Count = -1 },
			want:   []string{ErrInvalidCount},
		},
		{
			name:   "unit out of range",
			mutate: func(p *ir.Platform) { p.Resources[1].ConnectionMap[1] = nil },
			want:   []string{ErrInvalidConnection},
		},
		{
			name:   "served qubit out of range",
			mutate: func(p *ir.Platform) { p.Resources[2].ConnectionMap[0] = []int{0, 1, 5} },
			want:   []string{ErrInvalidConnection},
		},
		{
			name: "qubit on two units",
			mutate: func(p *ir.Platform) {
				p.Resources[1].Count = 2
				p.Resources[1].ConnectionMap[1] = []int{1}
			},
			want: []string{ErrInvalidConnection},
		},
		{
			name: "duplicate edge pair",
			mutate: func(p *ir.Platform) {
				p.Resources[3].Count = 2
				p.Topology.Edges = append(p.Topology.Edges, ir.TopologyEdge{ID: 1, Src: 0, Dst: 1})
			},
			want: []string{ErrDuplicateEdge},
		},
		{
			name: "duplicate edge id",
			mutate: func(p *ir.Platform) {
				p.Topology.Edges = append(p.Topology.Edges, ir.TopologyEdge{ID: 0, Src: 1, Dst: 0})
			},
			want: []string{ErrDuplicateEdge},
		},
		{
			name: "edge id out of range",
			mutate: func(p *ir.Platform) {
				p.Topology.Edges[0].ID = 3
			},
			want: []string{ErrInvalidConnection},
		},
		{
			name: "crosstalk edge out of range",
			mutate: func(p *ir.Platform) {
				p.Resources[3].ConnectionMap[0] = []int{4}
			},
			want: []string{ErrInvalidConnection},
		},
		{
			name: "negative duration",
			mutate: func(p *ir.Platform) {
				p.Instructions["x90"] = ir.InstructionDef{Category: ir.CategoryMW, Duration: -20}
			},
			want: []string{ErrInvalidDuration},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.TwoQubitPlatform()
			tt.mutate(p)
			assert.Equal(t, tt.want, codes(Validate(p)))
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	p := testutil.TwoQubitPlatform()
	p.CycleTime = -5
	p.Resources = append(p.Resources, ir.ResourceSpec{Kind: "lasers"})
	p.Instructions["x90"] = ir.InstructionDef{Duration: -1}

	assert.ElementsMatch(t,
		[]string{ErrInvalidCycleTime, ErrUnknownResource, ErrInvalidDuration},
		codes(Validate(p)))
}

func TestValidationErrorFormat(t *testing.T) {
	e := ValidationError{Field: "resources[0].kind", Message: "bad", Code: ErrUnknownResource}
	assert.Equal(t, "[E202] resources[0].kind: bad", e.Error())

	e.Line = 4
	assert.Equal(t, "[E202] line 4: resources[0].kind: bad", e.Error())
}
