package ir

import "strings"

// Category is the coarse classification of an instruction. It decides which
// resource kinds constrain the instruction.
type Category string

const (
	// CategoryMW is a microwave-drive operation (single-qubit rotation).
	CategoryMW Category = "mw"

	// CategoryFlux is a flux operation on a coupling edge (two-qubit gate).
	CategoryFlux Category = "flux"

	// CategoryReadout is a measurement.
	CategoryReadout Category = "readout"

	// CategoryOther covers everything else (prepz, wait, classical, ...).
	CategoryOther Category = "other"
)

// ParseCategory maps a descriptor type name onto a Category.
// Unknown names, including the empty string and "none", map to CategoryOther.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mw":
		return CategoryMW
	case "flux":
		return CategoryFlux
	case "readout":
		return CategoryReadout
	default:
		return CategoryOther
	}
}

// Instruction is one gate of a program as seen by the scheduler.
// Duration is expressed in cycles.
type Instruction struct {
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category" yaml:"category"`
	Operands []int    `json:"operands" yaml:"operands"`
	Duration int64    `json:"duration" yaml:"duration"`
}

// Placement is an instruction committed at a start cycle.
// Seq is the order in which the scheduler committed it, starting at 1.
type Placement struct {
	Seq         int64       `json:"seq"`
	Cycle       int64       `json:"cycle"`
	Instruction Instruction `json:"instruction"`
}

// End returns the first cycle after the placement finishes.
func (p Placement) End() int64 {
	return p.Cycle + p.Instruction.Duration
}

// Schedule is the output of a scheduling pass.
type Schedule struct {
	ID            string      `json:"id"`
	Platform      string      `json:"platform"`
	PlatformHash  string      `json:"platform_hash"`
	ProgramHash   string      `json:"program_hash"`
	Placements    []Placement `json:"placements"`
	Makespan      int64       `json:"makespan"`
	EngineVersion string      `json:"engine_version"`
	IRVersion     string      `json:"ir_version"`
}

// ComputeMakespan returns the latest end cycle over all placements.
func ComputeMakespan(placements []Placement) int64 {
	var m int64
	for _, p := range placements {
		if end := p.End(); end > m {
			m = end
		}
	}
	return m
}
