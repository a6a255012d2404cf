package compiler

import (
	"fmt"
	"slices"

	"github.com/roach88/qsched/internal/ir"
)

// Validation error codes (E200-E299)
const (
	// General validation errors (E200)
	ErrUnsupportedType = "E200" // unsupported value type for validation

	// Platform errors (E201-E209)
	ErrNoResources        = "E201" // at least one resource required
	ErrUnknownResource    = "E202" // resource kind has no model
	ErrInvalidCount       = "E203" // negative count or duplicate kind
	ErrUnknownGate        = "E204" // gate not in the instruction table
	ErrInvalidConnection  = "E205" // connection map references out of range
	ErrDuplicateEdge      = "E206" // duplicate edge id or qubit pair
	ErrInvalidCycleTime   = "E207" // negative cycle time
	ErrInvalidDuration    = "E208" // negative instruction duration
	ErrInvalidQubitNumber = "E209" // qubit count must be positive

	// Program errors (E210-E219)
	ErrInvalidOperand = "E210" // gate operand outside the register
	ErrFluxArity      = "E211" // flux gate without exactly two operands
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates a compiled platform or program against schema rules.
// Returns all errors found (does not fail-fast).
func Validate(v any) []ValidationError {
	switch val := v.(type) {
	case *ir.Platform:
		return validatePlatform(val)
	case ir.Platform:
		return validatePlatform(&val)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported type: %T", v),
			Code:    ErrUnsupportedType,
		}}
	}
}

// ValidateProgram checks that every gate of the resolved program fits the
// platform's register and edge shape.
func ValidateProgram(p *ir.Platform, prog []ir.Instruction) []ValidationError {
	var errs []ValidationError
	qubits := p.Qubits()

	for i, ins := range prog {
		for j, q := range ins.Operands {
			if q < 0 || q >= qubits {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("program[%d].qubits[%d]", i, j),
					Message: fmt.Sprintf("qubit %d outside register of %d", q, qubits),
					Code:    ErrInvalidOperand,
				})
			}
		}
		if ins.Category == ir.CategoryFlux && len(ins.Operands) != 2 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("program[%d].qubits", i),
				Message: fmt.Sprintf("flux gate %q needs 2 qubits, got %d", ins.Name, len(ins.Operands)),
				Code:    ErrFluxArity,
			})
		}
	}
	return errs
}

func validatePlatform(p *ir.Platform) []ValidationError {
	var errs []ValidationError

	// E207
	if p.CycleTime < 0 {
		errs = append(errs, ValidationError{
			Field:   "cycle_time",
			Message: fmt.Sprintf("cycle time must be non-negative, got %d", p.CycleTime),
			Code:    ErrInvalidCycleTime,
		})
	}

	// E209
	if p.Qubits() <= 0 {
		errs = append(errs, ValidationError{
			Field:   "qubit_number",
			Message: "platform declares no qubits",
			Code:    ErrInvalidQubitNumber,
		})
	}

	// E201
	if len(p.Resources) == 0 {
		errs = append(errs, ValidationError{
			Field:   "resources",
			Message: "at least one resource is required",
			Code:    ErrNoResources,
		})
	}

	seen := make(map[ir.ResourceKind]bool)
	for i, spec := range p.Resources {
		field := fmt.Sprintf("resources[%d]", i)

		if !spec.Kind.IsModeled() {
			errs = append(errs, ValidationError{
				Field:   field + ".kind",
				Message: fmt.Sprintf("un-modelled resource %q", spec.Kind),
				Code:    ErrUnknownResource,
			})
			continue
		}
		if seen[spec.Kind] {
			errs = append(errs, ValidationError{
				Field:   field + ".kind",
				Message: fmt.Sprintf("duplicate resource %q", spec.Kind),
				Code:    ErrInvalidCount,
			})
		}
		seen[spec.Kind] = true

		if spec.Count < 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".count",
				Message: fmt.Sprintf("count must be non-negative, got %d", spec.Count),
				Code:    ErrInvalidCount,
			})
			continue
		}

		switch spec.Kind {
		case ir.KindQWGs, ir.KindMeasUnits:
			errs = append(errs, validateUnitMap(field, spec, p.Qubits())...)
		case ir.KindEdges:
			errs = append(errs, validateEdges(field, spec, p)...)
		}
	}

	for _, name := range sortedKeys(p.Instructions) {
		// E208
		if d := p.Instructions[name].Duration; d < 0 {
			errs = append(errs, ValidationError{
				Field:   "instructions." + name + ".duration",
				Message: fmt.Sprintf("duration must be non-negative, got %d", d),
				Code:    ErrInvalidDuration,
			})
		}
	}

	return errs
}

// validateUnitMap checks a qubit-to-unit map of a qwgs or meas_units entry.
func validateUnitMap(field string, spec ir.ResourceSpec, qubits int) []ValidationError {
	var errs []ValidationError
	owner := make(map[int]int)

	for _, unit := range sortedKeys(spec.ConnectionMap) {
		if unit < 0 || unit >= spec.Count {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.connection_map.%d", field, unit),
				Message: fmt.Sprintf("unit %d outside [0,%d)", unit, spec.Count),
				Code:    ErrInvalidConnection,
			})
		}
		for _, q := range spec.ConnectionMap[unit] {
			if q < 0 || q >= qubits {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.connection_map.%d", field, unit),
					Message: fmt.Sprintf("qubit %d outside [0,%d)", q, qubits),
					Code:    ErrInvalidConnection,
				})
				continue
			}
			if prev, ok := owner[q]; ok && prev != unit {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.connection_map.%d", field, unit),
					Message: fmt.Sprintf("qubit %d already served by unit %d", q, prev),
					Code:    ErrInvalidConnection,
				})
			}
			owner[q] = unit
		}
	}
	return errs
}

// validateEdges checks the topology against the edges entry.
func validateEdges(field string, spec ir.ResourceSpec, p *ir.Platform) []ValidationError {
	var errs []ValidationError
	qubits := p.Qubits()
	ids := make(map[int]bool)
	pairs := make(map[[2]int]int)

	for i, e := range p.Topology.Edges {
		ef := fmt.Sprintf("topology.edges[%d]", i)
		if e.ID < 0 || e.ID >= spec.Count {
			errs = append(errs, ValidationError{
				Field:   ef + ".id",
				Message: fmt.Sprintf("edge id %d outside [0,%d)", e.ID, spec.Count),
				Code:    ErrInvalidConnection,
			})
		}
		if e.Src < 0 || e.Src >= qubits || e.Dst < 0 || e.Dst >= qubits {
			errs = append(errs, ValidationError{
				Field:   ef,
				Message: fmt.Sprintf("edge %d->%d references a qubit outside [0,%d)", e.Src, e.Dst, qubits),
				Code:    ErrInvalidConnection,
			})
		}
		if ids[e.ID] {
			errs = append(errs, ValidationError{
				Field:   ef + ".id",
				Message: fmt.Sprintf("duplicate edge id %d", e.ID),
				Code:    ErrDuplicateEdge,
			})
		}
		ids[e.ID] = true

		pair := [2]int{e.Src, e.Dst}
		if prev, ok := pairs[pair]; ok {
			errs = append(errs, ValidationError{
				Field:   ef,
				Message: fmt.Sprintf("pair %d->%d already mapped to edge %d", e.Src, e.Dst, prev),
				Code:    ErrDuplicateEdge,
			})
		}
		pairs[pair] = e.ID
	}

	for _, e := range sortedKeys(spec.ConnectionMap) {
		for _, other := range append([]int{e}, spec.ConnectionMap[e]...) {
			if other < 0 || other >= spec.Count {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.connection_map.%d", field, e),
					Message: fmt.Sprintf("edge %d outside [0,%d)", other, spec.Count),
					Code:    ErrInvalidConnection,
				})
			}
		}
	}
	return errs
}

func sortedKeys[K int | string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
