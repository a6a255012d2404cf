package resource

import (
	"fmt"
	"maps"
	"slices"

	"github.com/roach88/qsched/internal/ir"
)

// unitMap maps a qubit onto the shared unit (drive line or digitizer) serving it.
// Qubits missing from the map have no shared unit of that kind.
type unitMap map[int]int

// buildUnitMap validates and inverts a unit -> qubits connection map.
// qubits bounds the qubit ids when positive.
func buildUnitMap(spec ir.ResourceSpec, qubits int) (unitMap, error) {
	m := make(unitMap)
	for _, unit := range slices.Sorted(maps.Keys(spec.ConnectionMap)) {
		if unit < 0 || unit >= spec.Count {
			return nil, newConnectionError(spec.Kind, "unit %d outside [0,%d)", unit, spec.Count)
		}
		for _, q := range spec.ConnectionMap[unit] {
			if q < 0 || (qubits > 0 && q >= qubits) {
				return nil, newConnectionError(spec.Kind, "unit %d lists qubit %d outside [0,%d)", unit, q, qubits)
			}
			if prev, dup := m[q]; dup && prev != unit {
				return nil, newConnectionError(spec.Kind, "qubit %d connected to both unit %d and unit %d", q, prev, unit)
			}
			m[q] = unit
		}
	}
	return m, nil
}

// unit returns the unit serving qubit q.
func (m unitMap) unit(q int) (int, bool) {
	u, ok := m[q]
	return u, ok
}

type qubitPair struct {
	src, dst int
}

// edgeMap is the coupling-edge connectivity: ordered qubit pair -> edge id, and
// edge id -> edges in crosstalk with it.
type edgeMap struct {
	byPair    map[qubitPair]int
	conflicts [][]int
}

// buildEdgeMap builds the pair -> edge bijection from the topology and the
// crosstalk relation from the edges connection map.
//
// The crosstalk relation is symmetric: an entry k: [e] makes e conflict with k
// and k conflict with e. Self references are dropped.
func buildEdgeMap(spec ir.ResourceSpec, topology []ir.TopologyEdge, qubits int) (*edgeMap, error) {
	em := &edgeMap{
		byPair:    make(map[qubitPair]int, len(topology)),
		conflicts: make([][]int, spec.Count),
	}

	seenID := make(map[int]qubitPair, len(topology))
	for _, te := range topology {
		if te.ID < 0 || te.ID >= spec.Count {
			return nil, newConnectionError(spec.Kind, "topology edge %d outside [0,%d)", te.ID, spec.Count)
		}
		if te.Src < 0 || te.Dst < 0 || (qubits > 0 && (te.Src >= qubits || te.Dst >= qubits)) {
			return nil, newConnectionError(spec.Kind, "topology edge %d joins %d->%d outside [0,%d)", te.ID, te.Src, te.Dst, qubits)
		}
		p := qubitPair{te.Src, te.Dst}
		if _, dup := em.byPair[p]; dup {
			return nil, &Error{
				Code:     ErrCodeDuplicateEdge,
				Message:  fmt.Sprintf("re-defining edge %d->%d", p.src, p.dst),
				Resource: spec.Kind,
			}
		}
		if other, dup := seenID[te.ID]; dup {
			return nil, &Error{
				Code:     ErrCodeDuplicateEdge,
				Message:  fmt.Sprintf("edge id %d used by both %d->%d and %d->%d", te.ID, other.src, other.dst, p.src, p.dst),
				Resource: spec.Kind,
			}
		}
		em.byPair[p] = te.ID
		seenID[te.ID] = p
	}

	sets := make([]map[int]struct{}, spec.Count)
	link := func(a, b int) {
		if sets[a] == nil {
			sets[a] = make(map[int]struct{})
		}
		sets[a][b] = struct{}{}
	}
	for _, k := range slices.Sorted(maps.Keys(spec.ConnectionMap)) {
		if k < 0 || k >= spec.Count {
			return nil, newConnectionError(spec.Kind, "edge %d outside [0,%d)", k, spec.Count)
		}
		for _, e := range spec.ConnectionMap[k] {
			if e < 0 || e >= spec.Count {
				return nil, newConnectionError(spec.Kind, "edge %d lists edge %d outside [0,%d)", k, e, spec.Count)
			}
			if e == k {
				continue
			}
			link(e, k)
			link(k, e)
		}
	}
	for e, set := range sets {
		if len(set) > 0 {
			em.conflicts[e] = slices.Sorted(maps.Keys(set))
		}
	}

	return em, nil
}

// edge resolves the ordered pair (src, dst) to its edge id.
func (em *edgeMap) edge(src, dst int) (int, bool) {
	e, ok := em.byPair[qubitPair{src, dst}]
	return e, ok
}

// neighbors returns the edges in crosstalk with e. The slice must not be modified.
func (em *edgeMap) neighbors(e int) []int {
	return em.conflicts[e]
}
