package testutil

import "github.com/roach88/qsched/internal/ir"

// TwoQubitPlatform is the smallest useful platform: two qubits on one drive
// line and one digitizer, joined by coupling edge 0 (0->1) with no crosstalk.
// Every instruction lasts one 20ns cycle.
func TwoQubitPlatform() *ir.Platform {
	return &ir.Platform{
		Name:       "two-qubit",
		CycleTime:  20,
		QubitCount: 2,
		Resources: []ir.ResourceSpec{
			{Kind: ir.KindQubits, Count: 2},
			{Kind: ir.KindQWGs, Count: 1, ConnectionMap: map[int][]int{0: {0, 1}}},
			{Kind: ir.KindMeasUnits, Count: 1, ConnectionMap: map[int][]int{0: {0, 1}}},
			{Kind: ir.KindEdges, Count: 1, ConnectionMap: map[int][]int{}},
		},
		Topology: ir.Topology{Edges: []ir.TopologyEdge{
			{ID: 0, Src: 0, Dst: 1},
		}},
		Instructions: map[string]ir.InstructionDef{
			"x90":     {Category: ir.CategoryMW, Duration: 20},
			"y90":     {Category: ir.CategoryMW, Duration: 20},
			"cz":      {Category: ir.CategoryFlux, Duration: 20},
			"measure": {Category: ir.CategoryReadout, Duration: 20},
			"prepz":   {Category: ir.CategoryOther, Duration: 20},
		},
	}
}

// SurfaceSevenPlatform is a seven-qubit surface-code platform with three drive
// lines, two digitizers and sixteen directed coupling edges in crosstalk pairs.
func SurfaceSevenPlatform() *ir.Platform {
	return &ir.Platform{
		Name:       "surface-7",
		CycleTime:  20,
		QubitCount: 7,
		Resources: []ir.ResourceSpec{
			{Kind: ir.KindQubits, Count: 7},
			{Kind: ir.KindQWGs, Count: 3, ConnectionMap: map[int][]int{
				0: {0, 1},
				1: {2, 3, 4},
				2: {5, 6},
			}},
			{Kind: ir.KindMeasUnits, Count: 2, ConnectionMap: map[int][]int{
				0: {0, 2, 3, 5, 6},
				1: {1, 4},
			}},
			{Kind: ir.KindEdges, Count: 16, ConnectionMap: map[int][]int{
				0: {2, 10}, 1: {3, 11}, 2: {0, 8}, 3: {1, 9},
				4: {6, 14}, 5: {7, 15}, 6: {4, 12}, 7: {5, 13},
				8: {2, 10}, 9: {3, 11}, 10: {0, 8}, 11: {1, 9},
				12: {6, 14}, 13: {7, 15}, 14: {4, 12}, 15: {5, 13},
			}},
		},
		Topology: ir.Topology{Edges: SurfaceSevenEdges()},
		Instructions: map[string]ir.InstructionDef{
			"prepz":   {Category: ir.CategoryOther, Duration: 200},
			"x":       {Category: ir.CategoryMW, Duration: 20},
			"y":       {Category: ir.CategoryMW, Duration: 20},
			"x90":     {Category: ir.CategoryMW, Duration: 20},
			"y90":     {Category: ir.CategoryMW, Duration: 20},
			"xm90":    {Category: ir.CategoryMW, Duration: 20},
			"ym90":    {Category: ir.CategoryMW, Duration: 20},
			"cz":      {Category: ir.CategoryFlux, Duration: 40},
			"measure": {Category: ir.CategoryReadout, Duration: 300},
		},
	}
}

// SurfaceSevenEdges returns the directed coupling edges of SurfaceSevenPlatform.
func SurfaceSevenEdges() []ir.TopologyEdge {
	return []ir.TopologyEdge{
		{ID: 0, Src: 2, Dst: 0}, {ID: 1, Src: 0, Dst: 3},
		{ID: 2, Src: 3, Dst: 1}, {ID: 3, Src: 1, Dst: 4},
		{ID: 4, Src: 2, Dst: 5}, {ID: 5, Src: 5, Dst: 3},
		{ID: 6, Src: 3, Dst: 6}, {ID: 7, Src: 6, Dst: 4},
		{ID: 8, Src: 0, Dst: 2}, {ID: 9, Src: 3, Dst: 0},
		{ID: 10, Src: 1, Dst: 3}, {ID: 11, Src: 4, Dst: 1},
		{ID: 12, Src: 5, Dst: 2}, {ID: 13, Src: 3, Dst: 5},
		{ID: 14, Src: 6, Dst: 3}, {ID: 15, Src: 4, Dst: 6},
	}
}

// Gate builds an instruction from a platform's instruction table and panics
// on an unknown name.
func Gate(p *ir.Platform, name string, qubits ...int) ir.Instruction {
	ins, ok := p.Instruction(name, qubits)
	if !ok {
		panic("testutil: unknown gate " + name)
	}
	return ins
}
