package resource

import (
	"log/slog"

	"github.com/roach88/qsched/internal/ir"
)

// MeasurementResource models digitizers shared by several qubits.
//
// Readouts on one unit that start in the same cycle share a single trigger and
// never conflict. A readout starting in any other cycle waits for the unit.
type MeasurementResource struct {
	state
	starts []int64 // start cycle of the last readout per unit
	units  unitMap
	logger *slog.Logger
}

// NewMeasurementResource creates the measurement resource from its spec.
func NewMeasurementResource(spec ir.ResourceSpec, qubits int, logger *slog.Logger) (*MeasurementResource, error) {
	units, err := buildUnitMap(spec, qubits)
	if err != nil {
		return nil, err
	}
	return &MeasurementResource{
		state:  newState(spec.Count),
		starts: make([]int64, spec.Count),
		units:  units,
		logger: logger,
	}, nil
}

func (r *MeasurementResource) sealed() {}

// Kind implements Resource.
func (r *MeasurementResource) Kind() ir.ResourceKind { return ir.KindMeasUnits }

// Count implements Resource.
func (r *MeasurementResource) Count() int { return len(r.busy) }

// Validate implements Resource. Measurement units raise no usage errors.
func (r *MeasurementResource) Validate(ir.Instruction) error { return nil }

// Available implements Resource.
func (r *MeasurementResource) Available(cycle int64, ins ir.Instruction) (bool, error) {
	if ins.Category != ir.CategoryReadout {
		return true, nil
	}
	for _, q := range ins.Operands {
		unit, ok := r.units.unit(q)
		if !ok {
			continue
		}
		if cycle != r.starts[unit] && cycle < r.busy[unit] {
			r.logger.Debug("measurement unit busy",
				"instruction", ins.Name,
				"qubit", q,
				"unit", unit,
				"cycle", cycle,
				"busy_until", r.busy[unit],
				"batch_start", r.starts[unit],
			)
			return false, nil
		}
	}
	return true, nil
}

// Reserve records cycle as the unit's batch start and occupies the unit until
// cycle+duration. A readout joining a running batch never shortens it.
func (r *MeasurementResource) Reserve(cycle int64, ins ir.Instruction) error {
	if ins.Category != ir.CategoryReadout {
		return nil
	}
	for _, q := range ins.Operands {
		unit, ok := r.units.unit(q)
		if !ok {
			continue
		}
		end := cycle + ins.Duration
		if cycle == r.starts[unit] {
			end = max(end, r.busy[unit])
		}
		r.starts[unit] = cycle
		r.busy[unit] = end
	}
	return nil
}

// Clone implements Resource.
func (r *MeasurementResource) Clone() Resource {
	starts := make([]int64, len(r.starts))
	copy(starts, r.starts)
	return &MeasurementResource{
		state:  r.state.clone(),
		starts: starts,
		units:  r.units,
		logger: r.logger,
	}
}

// Busy implements Resource.
func (r *MeasurementResource) Busy() []int64 { return r.snapshot() }
