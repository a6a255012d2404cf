package resource

import (
	"errors"
	"log/slog"

	"github.com/roach88/qsched/internal/ir"
)

// Manager owns one resource per kind declared by the platform and answers
// availability for all of them at once.
//
// INVARIANTS:
//   - resources keep the platform's declaration order
//   - no two Managers share mutable state (Clone and Assign copy every variant)
type Manager struct {
	resources []Resource
	logger    *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger that receives conflict diagnostics.
// Default: a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Usage is the occupation of one resource kind at a point in time.
type Usage struct {
	Kind      ir.ResourceKind `json:"kind"`
	BusyUntil []int64         `json:"busy_until"`
}

// New builds a Manager for the platform's declared resources.
//
// Returns an *Error with a configuration code if a kind is not modeled, is
// declared twice, has a negative count, or if its connectivity is malformed.
func New(p *ir.Platform, opts ...Option) (*Manager, error) {
	if p == nil {
		return nil, errors.New("resource: nil platform")
	}

	m := &Manager{logger: discardLogger()}
	for _, opt := range opts {
		opt(m)
	}

	qubits := p.Qubits()
	seen := make(map[ir.ResourceKind]bool, len(p.Resources))
	resources := make([]Resource, 0, len(p.Resources))
	for _, spec := range p.Resources {
		if seen[spec.Kind] {
			return nil, &Error{
				Code:     ErrCodeDuplicateResource,
				Message:  "resource declared twice",
				Resource: spec.Kind,
			}
		}
		seen[spec.Kind] = true

		if spec.Count < 0 {
			return nil, newConnectionError(spec.Kind, "negative count %d", spec.Count)
		}

		r, err := m.build(spec, p, qubits)
		if err != nil {
			m.logger.Error("resource construction failed", "resource", string(spec.Kind), "error", err)
			return nil, err
		}
		resources = append(resources, r)
	}
	m.resources = resources

	m.logger.Info("resource manager created",
		"platform", p.Name,
		"resources", len(m.resources),
		"qubits", qubits,
	)
	return m, nil
}

func (m *Manager) build(spec ir.ResourceSpec, p *ir.Platform, qubits int) (Resource, error) {
	switch spec.Kind {
	case ir.KindQubits:
		return NewQubitResource(spec, m.logger), nil
	case ir.KindQWGs:
		return NewDriveLineResource(spec, qubits, m.logger)
	case ir.KindMeasUnits:
		return NewMeasurementResource(spec, qubits, m.logger)
	case ir.KindEdges:
		return NewCouplingEdgeResource(spec, p.Topology.Edges, qubits, m.logger)
	default:
		return nil, NewUnmodeledResourceError(spec.Kind)
	}
}

// Available reports whether ins can start at cycle on every owned resource.
// It stops at the first resource that reports a conflict or an error.
func (m *Manager) Available(cycle int64, ins ir.Instruction) (bool, error) {
	for _, r := range m.resources {
		ok, err := r.Available(cycle, ins)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Reserve commits ins at cycle on every owned resource. Each resource ignores
// categories it does not constrain.
//
// All resources validate ins before any of them mutates, so a usage error
// leaves the Manager unchanged.
func (m *Manager) Reserve(cycle int64, ins ir.Instruction) error {
	for _, r := range m.resources {
		if err := r.Validate(ins); err != nil {
			return err
		}
	}
	for _, r := range m.resources {
		if err := r.Reserve(cycle, ins); err != nil {
			return err
		}
	}
	m.logger.Debug("reserved",
		"instruction", ins.Name,
		"operands", ins.Operands,
		"cycle", cycle,
		"duration", ins.Duration,
	)
	return nil
}

// Clone returns a Manager whose resources are independent copies of m's, in
// the same order.
func (m *Manager) Clone() *Manager {
	return &Manager{resources: cloneAll(m.resources), logger: m.logger}
}

// Assign replaces m's resources with independent copies of src's.
// The copies are built completely before m's previous resources are dropped,
// so m.Assign(m) is safe. Assign(nil) leaves m unchanged.
func (m *Manager) Assign(src *Manager) {
	if src == nil {
		return
	}
	fresh := cloneAll(src.resources)
	m.resources = fresh
	m.logger = src.logger
}

func cloneAll(resources []Resource) []Resource {
	out := make([]Resource, len(resources))
	for i, r := range resources {
		out[i] = r.Clone()
	}
	return out
}

// Kinds returns the owned resource kinds in declaration order.
func (m *Manager) Kinds() []ir.ResourceKind {
	kinds := make([]ir.ResourceKind, len(m.resources))
	for i, r := range m.resources {
		kinds[i] = r.Kind()
	}
	return kinds
}

// Resource returns the owned resource of the given kind.
// The returned value is live; mutate it only through the Manager.
func (m *Manager) Resource(kind ir.ResourceKind) (Resource, bool) {
	for _, r := range m.resources {
		if r.Kind() == kind {
			return r, true
		}
	}
	return nil, false
}

// Snapshot returns the busy-until values of every owned resource.
func (m *Manager) Snapshot() []Usage {
	out := make([]Usage, len(m.resources))
	for i, r := range m.resources {
		out[i] = Usage{Kind: r.Kind(), BusyUntil: r.Busy()}
	}
	return out
}
