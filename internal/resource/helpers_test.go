package resource

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/qsched/internal/ir"
)

func mw(name string, duration int64, qubits ...int) ir.Instruction {
	return ir.Instruction{Name: name, Category: ir.CategoryMW, Operands: qubits, Duration: duration}
}

func flux(name string, duration int64, src, dst int) ir.Instruction {
	return ir.Instruction{Name: name, Category: ir.CategoryFlux, Operands: []int{src, dst}, Duration: duration}
}

func readout(duration int64, qubits ...int) ir.Instruction {
	return ir.Instruction{Name: "measure", Category: ir.CategoryReadout, Operands: qubits, Duration: duration}
}

func other(name string, duration int64, qubits ...int) ir.Instruction {
	return ir.Instruction{Name: name, Category: ir.CategoryOther, Operands: qubits, Duration: duration}
}

// mustAvailable fails the test on a usage error.
func mustAvailable(t *testing.T, r interface {
	Available(int64, ir.Instruction) (bool, error)
}, cycle int64, ins ir.Instruction) bool {
	t.Helper()
	ok, err := r.Available(cycle, ins)
	require.NoError(t, err)
	return ok
}
