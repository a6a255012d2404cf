package resource

import (
	"log/slog"

	"github.com/roach88/qsched/internal/ir"
)

// QubitResource enforces that a qubit runs one operation at a time,
// whatever the operation's category.
type QubitResource struct {
	state
	logger *slog.Logger
}

// NewQubitResource creates the qubit resource for spec.Count qubits.
func NewQubitResource(spec ir.ResourceSpec, logger *slog.Logger) *QubitResource {
	return &QubitResource{state: newState(spec.Count), logger: logger}
}

func (r *QubitResource) sealed() {}

// Kind implements Resource.
func (r *QubitResource) Kind() ir.ResourceKind { return ir.KindQubits }

// Count implements Resource.
func (r *QubitResource) Count() int { return len(r.busy) }

// Validate rejects operands outside the platform's qubits.
func (r *QubitResource) Validate(ins ir.Instruction) error {
	for _, q := range ins.Operands {
		if q < 0 || q >= len(r.busy) {
			return newOperandError(ir.KindQubits, ins, "qubit %d outside [0,%d)", q, len(r.busy))
		}
	}
	return nil
}

// Available reports false if any operand is still busy at cycle.
func (r *QubitResource) Available(cycle int64, ins ir.Instruction) (bool, error) {
	if err := r.Validate(ins); err != nil {
		return false, err
	}
	for _, q := range ins.Operands {
		if cycle < r.busy[q] {
			r.logger.Debug("qubit busy",
				"instruction", ins.Name,
				"qubit", q,
				"cycle", cycle,
				"busy_until", r.busy[q],
			)
			return false, nil
		}
	}
	return true, nil
}

// Reserve marks every operand busy until cycle+duration.
func (r *QubitResource) Reserve(cycle int64, ins ir.Instruction) error {
	if err := r.Validate(ins); err != nil {
		return err
	}
	for _, q := range ins.Operands {
		r.busy[q] = cycle + ins.Duration
	}
	return nil
}

// Clone implements Resource.
func (r *QubitResource) Clone() Resource {
	return &QubitResource{state: r.state.clone(), logger: r.logger}
}

// Busy implements Resource.
func (r *QubitResource) Busy() []int64 { return r.snapshot() }
