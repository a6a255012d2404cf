package resource

import (
	"log/slog"

	"github.com/roach88/qsched/internal/ir"
)

// CouplingEdgeResource models the flux control of coupling edges.
//
// A flux operation on qubits (q0, q1) occupies edge q0->q1 and, through
// crosstalk, every edge declared in conflict with it.
type CouplingEdgeResource struct {
	state
	edges  *edgeMap
	logger *slog.Logger
}

// NewCouplingEdgeResource creates the edge resource from its spec and the
// platform topology.
func NewCouplingEdgeResource(spec ir.ResourceSpec, topology []ir.TopologyEdge, qubits int, logger *slog.Logger) (*CouplingEdgeResource, error) {
	edges, err := buildEdgeMap(spec, topology, qubits)
	if err != nil {
		return nil, err
	}
	return &CouplingEdgeResource{
		state:  newState(spec.Count),
		edges:  edges,
		logger: logger,
	}, nil
}

func (r *CouplingEdgeResource) sealed() {}

// Kind implements Resource.
func (r *CouplingEdgeResource) Kind() ir.ResourceKind { return ir.KindEdges }

// Count implements Resource.
func (r *CouplingEdgeResource) Count() int { return len(r.busy) }

// Validate requires flux instructions to name exactly two qubits joined by a
// declared edge.
func (r *CouplingEdgeResource) Validate(ins ir.Instruction) error {
	if ins.Category != ir.CategoryFlux {
		return nil
	}
	_, err := r.resolve(ins)
	return err
}

func (r *CouplingEdgeResource) resolve(ins ir.Instruction) (int, error) {
	if len(ins.Operands) != 2 {
		return 0, newOperandError(ir.KindEdges, ins, "flux operation needs 2 operands, got %d", len(ins.Operands))
	}
	src, dst := ins.Operands[0], ins.Operands[1]
	e, ok := r.edges.edge(src, dst)
	if !ok {
		r.logger.Error("use of illegal edge",
			"instruction", ins.Name,
			"src", src,
			"dst", dst,
		)
		return 0, NewIllegalEdgeError(ins, src, dst)
	}
	return e, nil
}

// Available implements Resource.
func (r *CouplingEdgeResource) Available(cycle int64, ins ir.Instruction) (bool, error) {
	if ins.Category != ir.CategoryFlux {
		return true, nil
	}
	e, err := r.resolve(ins)
	if err != nil {
		return false, err
	}
	if cycle < r.busy[e] {
		r.logger.Debug("edge busy",
			"instruction", ins.Name,
			"edge", e,
			"cycle", cycle,
			"busy_until", r.busy[e],
		)
		return false, nil
	}
	for _, n := range r.edges.neighbors(e) {
		if cycle < r.busy[n] {
			r.logger.Debug("edge blocked by crosstalk",
				"instruction", ins.Name,
				"edge", e,
				"neighbor", n,
				"cycle", cycle,
				"busy_until", r.busy[n],
			)
			return false, nil
		}
	}
	return true, nil
}

// Reserve sets the edge and all its crosstalk neighbors busy until
// cycle+duration. The value is assigned, not extended; callers that skip the
// Available check can move busy-until backwards.
func (r *CouplingEdgeResource) Reserve(cycle int64, ins ir.Instruction) error {
	if ins.Category != ir.CategoryFlux {
		return nil
	}
	e, err := r.resolve(ins)
	if err != nil {
		return err
	}
	end := cycle + ins.Duration
	r.busy[e] = end
	for _, n := range r.edges.neighbors(e) {
		r.busy[n] = end
	}
	return nil
}

// Clone implements Resource.
func (r *CouplingEdgeResource) Clone() Resource {
	return &CouplingEdgeResource{state: r.state.clone(), edges: r.edges, logger: r.logger}
}

// Busy implements Resource.
func (r *CouplingEdgeResource) Busy() []int64 { return r.snapshot() }

// Neighbors returns a copy of the edges in crosstalk with edge e.
func (r *CouplingEdgeResource) Neighbors(e int) []int {
	if e < 0 || e >= len(r.busy) {
		return nil
	}
	return append([]int(nil), r.edges.neighbors(e)...)
}
