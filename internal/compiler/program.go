package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/qsched/internal/ir"
)

// Gate is one program entry before resolution against a platform.
type Gate struct {
	Name   string `json:"name" yaml:"name"`
	Qubits []int  `json:"qubits" yaml:"qubits"`
}

// Program is an ordered gate list.
type Program struct {
	Name  string `json:"name" yaml:"name"`
	Gates []Gate `json:"program" yaml:"program"`
}

// CompileProgram parses a CUE value into a Program.
//
//	name: "bell"
//	program: [{ name: "x90", qubits: [0] }, { name: "cz", qubits: [0, 1] }]
func CompileProgram(v cue.Value) (*Program, error) {
	if err := v.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	prog := &Program{}
	if nameVal := v.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		prog.Name = name
	}

	gatesVal := v.LookupPath(cue.ParsePath("program"))
	if !gatesVal.Exists() {
		return nil, &CompileError{
			Field:   "program",
			Message: "program is required",
			Pos:     v.Pos(),
		}
	}

	list, err := gatesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for i := 0; list.Next(); i++ {
		gv := list.Value()
		field := fmt.Sprintf("program[%d]", i)

		nameVal := gv.LookupPath(cue.ParsePath("name"))
		if !nameVal.Exists() {
			return nil, &CompileError{Field: field + ".name", Message: "gate name is required", Pos: gv.Pos()}
		}
		name, err := nameVal.String()
		if err != nil {
			return nil, &CompileError{Field: field + ".name", Message: "gate name must be a string", Pos: nameVal.Pos()}
		}

		gate := Gate{Name: name, Qubits: []int{}}
		if qv := gv.LookupPath(cue.ParsePath("qubits")); qv.Exists() {
			if gate.Qubits, err = parseIntList(qv, field+".qubits"); err != nil {
				return nil, err
			}
		}
		prog.Gates = append(prog.Gates, gate)
	}

	return prog, nil
}

// Resolve looks every gate up in the platform's instruction table.
// Unknown gates are reported together as E204 validation errors.
func Resolve(prog *Program, p *ir.Platform) ([]ir.Instruction, []ValidationError) {
	var errs []ValidationError
	instructions := make([]ir.Instruction, 0, len(prog.Gates))

	for i, g := range prog.Gates {
		ins, ok := p.Instruction(g.Name, g.Qubits)
		if !ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("program[%d].name", i),
				Message: fmt.Sprintf("gate %q is not defined by platform %q", g.Name, p.Name),
				Code:    ErrUnknownGate,
			})
			continue
		}
		instructions = append(instructions, ins)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	errs = ValidateProgram(p, instructions)
	if len(errs) > 0 {
		return nil, errs
	}
	return instructions, nil
}
