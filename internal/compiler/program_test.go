package compiler

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qsched/internal/ir"
	"github.com/roach88/qsched/internal/testutil"
)

func TestCompileProgram(t *testing.T) {
	v := cuecontext.New().CompileString(`
name: "pair"
program: [
	{name: "x90", qubits: [0]},
	{name: "cz", qubits: [0, 1]},
	{name: "barrier"},
]
`)
	prog, err := CompileProgram(v)
	require.NoError(t, err)

	assert.Equal(t, "pair", prog.Name)
	assert.Equal(t, []Gate{
		{Name: "x90", Qubits: []int{0}},
		{Name: "cz", Qubits: []int{0, 1}},
		{Name: "barrier", Qubits: []int{}},
	}, prog.Gates)
}

func TestCompileProgramErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"missing program", `name: "x"`, "program"},
		{"gate without name", `program: [{qubits: [0]}]`, "program[0].name"},
		{"qubits not ints", `program: [{name: "x", qubits: ["a"]}]`, "program[0].qubits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileProgram(cuecontext.New().CompileString(tt.src))
			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestResolve(t *testing.T) {
	p := testutil.TwoQubitPlatform()
	prog := &Program{Gates: []Gate{
		{Name: "x90", Qubits: []int{0}},
		{Name: "cz", Qubits: []int{0, 1}},
		{Name: "measure", Qubits: []int{1}},
	}}

	instructions, errs := Resolve(prog, p)
	require.Empty(t, errs)
	assert.Equal(t, []ir.Instruction{
		{Name: "x90", Category: ir.CategoryMW, Operands: []int{0}, Duration: 1},
		{Name: "cz", Category: ir.CategoryFlux, Operands: []int{0, 1}, Duration: 1},
		{Name: "measure", Category: ir.CategoryReadout, Operands: []int{1}, Duration: 1},
	}, instructions)
}

func TestResolveUnknownGates(t *testing.T) {
	p := testutil.TwoQubitPlatform()
	prog := &Program{Gates: []Gate{
		{Name: "x90", Qubits: []int{0}},
		{Name: "toffoli", Qubits: []int{0, 1}},
		{Name: "swap", Qubits: []int{0, 1}},
	}}

	instructions, errs := Resolve(prog, p)
	assert.Nil(t, instructions)
	require.Len(t, errs, 2)
	assert.Equal(t, ErrUnknownGate, errs[0].Code)
	assert.Equal(t, "program[1].name", errs[0].Field)
	assert.Equal(t, "program[2].name", errs[1].Field)
}

func TestResolveOperandChecks(t *testing.T) {
	p := testutil.TwoQubitPlatform()

	_, errs := Resolve(&Program{Gates: []Gate{{Name: "x90", Qubits: []int{2}}}}, p)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrInvalidOperand, errs[0].Code)

	_, errs = Resolve(&Program{Gates: []Gate{{Name: "cz", Qubits: []int{0}}}}, p)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrFluxArity, errs[0].Code)
}
