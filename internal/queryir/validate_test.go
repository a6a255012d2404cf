package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placements(filter Predicate) Select {
	return Select{
		From:    TablePlacements,
		Columns: []string{"seq", "cycle", "name"},
		Filter:  filter,
	}
}

func TestValidate_Valid(t *testing.T) {
	tests := []struct {
		name  string
		query Query
	}{
		{"no filter", placements(nil)},
		{"equals text", placements(Equals{Field: "name", Value: Text("cz")})},
		{"equals int", placements(Equals{Field: "seq", Value: Int(3)})},
		{"compare", placements(Compare{Field: "cycle", Op: OpGreaterEqual, Value: 4})},
		{"operand", placements(HasOperand{Qubit: 0})},
		{"empty and", placements(And{})},
		{"nested and", placements(And{Predicates: []Predicate{
			Equals{Field: "run_id", Value: Text("run-1")},
			And{Predicates: []Predicate{HasOperand{Qubit: 1}, Compare{Field: "cycle", Op: OpLess, Value: 9}}},
		}})},
		{"pointer nodes", &Select{
			From:    TableRuns,
			Columns: []string{"id", "makespan"},
			Filter:  &And{Predicates: []Predicate{&Equals{Field: "platform", Value: Text("surface-7")}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.query)
			assert.True(t, result.Valid, "problems: %v", result.Problems)
			assert.Empty(t, result.Problems)
			assert.NoError(t, result.Err())
		})
	}
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		problem string
	}{
		{"nil query", nil, "nil query"},
		{"unknown table", Select{From: "queue", Columns: []string{"id"}}, `unknown table "queue"`},
		{"no columns", Select{From: TableRuns}, "no columns selected from runs"},
		{"unknown column", Select{From: TableRuns, Columns: []string{"id; DROP TABLE runs"}}, "unknown column runs.id; DROP TABLE runs"},
		{"unknown filter column", placements(Equals{Field: "gate", Value: Text("cz")}), "unknown column placements.gate"},
		{"text against int", placements(Equals{Field: "cycle", Value: Text("3")}), "column cycle is an integer, compared to text"},
		{"int against text", placements(Equals{Field: "name", Value: Int(3)}), "column name is text, compared to an integer"},
		{"nil value", placements(Equals{Field: "name"}), "unsupported value <nil> for column name"},
		{"ordering text", placements(Compare{Field: "name", Op: OpLess, Value: 1}), "column name is text and cannot be ordered"},
		{"unknown op", placements(Compare{Field: "cycle", Op: "!=", Value: 1}), `unknown comparison "!="`},
		{"operand on runs", Select{From: TableRuns, Columns: []string{"id"}, Filter: HasOperand{Qubit: 1}}, "operand filter on table runs"},
		{"negative qubit", placements(HasOperand{Qubit: -1}), "negative qubit -1"},
		{"nil inside and", placements(And{Predicates: []Predicate{nil}}), "nil predicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.query)
			assert.False(t, result.Valid)
			assert.Contains(t, result.Problems, tt.problem)
			require.Error(t, result.Err())
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	result := Validate(placements(And{Predicates: []Predicate{
		Equals{Field: "gate", Value: Text("cz")},
		HasOperand{Qubit: -2},
	}}))
	assert.Len(t, result.Problems, 2)
}

func TestWhere(t *testing.T) {
	eq := Equals{Field: "name", Value: Text("cz")}
	op := HasOperand{Qubit: 1}

	assert.Nil(t, Where())
	assert.Nil(t, Where(nil, nil))
	assert.Equal(t, eq, Where(nil, eq))
	assert.Equal(t, And{Predicates: []Predicate{eq, op}}, Where(eq, nil, op))
}
