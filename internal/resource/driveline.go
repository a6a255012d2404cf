package resource

import (
	"log/slog"

	"github.com/roach88/qsched/internal/ir"
)

// DriveLineResource models microwave drive lines shared by several qubits.
//
// Only microwave operations use a line. While a line is busy, another
// operation may start on it only if it is the operation the line is already
// playing; the waveform is reused without a re-trigger.
type DriveLineResource struct {
	state
	operations []string // normalized name last reserved per line
	lines      unitMap
	logger     *slog.Logger
}

// NewDriveLineResource creates the drive-line resource from its spec.
func NewDriveLineResource(spec ir.ResourceSpec, qubits int, logger *slog.Logger) (*DriveLineResource, error) {
	lines, err := buildUnitMap(spec, qubits)
	if err != nil {
		return nil, err
	}
	return &DriveLineResource{
		state:      newState(spec.Count),
		operations: make([]string, spec.Count),
		lines:      lines,
		logger:     logger,
	}, nil
}

func (r *DriveLineResource) sealed() {}

// Kind implements Resource.
func (r *DriveLineResource) Kind() ir.ResourceKind { return ir.KindQWGs }

// Count implements Resource.
func (r *DriveLineResource) Count() int { return len(r.busy) }

// Validate implements Resource. Drive lines raise no usage errors.
func (r *DriveLineResource) Validate(ir.Instruction) error { return nil }

// Available implements Resource.
func (r *DriveLineResource) Available(cycle int64, ins ir.Instruction) (bool, error) {
	if ins.Category != ir.CategoryMW {
		return true, nil
	}
	for _, q := range ins.Operands {
		line, ok := r.lines.unit(q)
		if !ok {
			continue
		}
		if cycle < r.busy[line] && !ir.SameOperation(r.operations[line], ins.Name) {
			r.logger.Debug("drive line busy",
				"instruction", ins.Name,
				"qubit", q,
				"line", line,
				"cycle", cycle,
				"busy_until", r.busy[line],
				"playing", r.operations[line],
			)
			return false, nil
		}
	}
	return true, nil
}

// Reserve extends each operand line's occupation to cycle+duration and records
// the operation it plays.
func (r *DriveLineResource) Reserve(cycle int64, ins ir.Instruction) error {
	if ins.Category != ir.CategoryMW {
		return nil
	}
	name := ir.NormalizeName(ins.Name)
	end := cycle + ins.Duration
	for _, q := range ins.Operands {
		line, ok := r.lines.unit(q)
		if !ok {
			continue
		}
		r.busy[line] = max(r.busy[line], end)
		r.operations[line] = name
	}
	return nil
}

// Clone implements Resource.
func (r *DriveLineResource) Clone() Resource {
	ops := make([]string, len(r.operations))
	copy(ops, r.operations)
	return &DriveLineResource{
		state:      r.state.clone(),
		operations: ops,
		lines:      r.lines,
		logger:     r.logger,
	}
}

// Busy implements Resource.
func (r *DriveLineResource) Busy() []int64 { return r.snapshot() }

// Playing returns the operation last reserved on line, or "" if none.
func (r *DriveLineResource) Playing(line int) string {
	if line < 0 || line >= len(r.operations) {
		return ""
	}
	return r.operations[line]
}
