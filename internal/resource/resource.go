package resource

import (
	"io"
	"log/slog"

	"github.com/roach88/qsched/internal/ir"
)

// Resource is the capability shared by every resource kind.
//
// The set of implementations is closed: QubitResource, DriveLineResource,
// MeasurementResource and CouplingEdgeResource.
type Resource interface {
	// Kind returns the resource kind name.
	Kind() ir.ResourceKind

	// Count returns the number of physical units of this kind.
	Count() int

	// Available reports whether placing ins at cycle would conflict with the
	// current occupation of this kind. It never mutates state.
	Available(cycle int64, ins ir.Instruction) (bool, error)

	// Reserve commits the occupation implied by placing ins at cycle.
	// It returns a usage error, before mutating anything, for inputs that
	// Available would also reject with an error.
	Reserve(cycle int64, ins ir.Instruction) error

	// Validate returns the usage error Available or Reserve would raise for
	// ins, without touching state.
	Validate(ins ir.Instruction) error

	// Clone returns an independent copy of the mutable state.
	Clone() Resource

	// Busy returns a copy of the busy-until cycle of every unit.
	Busy() []int64

	sealed()
}

// state is the busy-until occupation shared by all variants.
type state struct {
	busy []int64
}

func newState(count int) state {
	return state{busy: make([]int64, count)}
}

func (s state) clone() state {
	busy := make([]int64, len(s.busy))
	copy(busy, s.busy)
	return state{busy: busy}
}

func (s state) snapshot() []int64 {
	return s.clone().busy
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
