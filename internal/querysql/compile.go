// Package querysql compiles queryir queries to parameterized SQLite SQL.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/qsched/internal/queryir"
)

// SQLCompiler compiles queryir queries to parameterized SQL for SQLite.
//
// Every query ends in an ORDER BY with a unique key so results are
// deterministic. Values are always bound as ? parameters, never
// interpolated. Callers must Validate queries first: table and column
// names are written into the SQL text as given.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a query to SQL and its parameters.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		if query == nil {
			return "", nil, fmt.Errorf("cannot compile nil query")
		}
		return c.compileSelect(*query)
	case nil:
		return "", nil, fmt.Errorf("cannot compile nil query")
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	if len(q.Columns) == 0 {
		return "", nil, fmt.Errorf("select from %s has no columns", q.From)
	}

	var (
		where  string
		params []any
	)
	if q.Filter != nil {
		filterSQL, filterParams, err := c.compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		where = " WHERE " + filterSQL
		params = filterParams
	}

	orderBy, err := stableOrderKey(q.From)
	if err != nil {
		return "", nil, err
	}

	sql := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s",
		strings.Join(q.Columns, ", "),
		q.From,
		where,
		orderBy)
	return sql, params, nil
}

// stableOrderKey returns the ORDER BY clause for a table: its unique key.
func stableOrderKey(t queryir.Table) (string, error) {
	switch t {
	case queryir.TableRuns:
		return "seq ASC", nil
	case queryir.TablePlacements:
		return "run_id COLLATE BINARY ASC, seq ASC", nil
	default:
		return "", fmt.Errorf("no order key for table %q", t)
	}
}

func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case queryir.Equals:
		return compileEquals(pred)
	case *queryir.Equals:
		return compileEquals(*pred)
	case queryir.Compare:
		return compileCompare(pred)
	case *queryir.Compare:
		return compileCompare(*pred)
	case queryir.HasOperand:
		return compileHasOperand(pred)
	case *queryir.HasOperand:
		return compileHasOperand(*pred)
	case queryir.And:
		return c.compileAnd(pred)
	case *queryir.And:
		return c.compileAnd(*pred)
	case nil:
		return "1 = 1", nil, nil
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func compileEquals(eq queryir.Equals) (string, []any, error) {
	param, err := valueToParam(eq.Value)
	if err != nil {
		return "", nil, fmt.Errorf("convert value: %w", err)
	}
	return eq.Field + " = ?", []any{param}, nil
}

func compileCompare(cmp queryir.Compare) (string, []any, error) {
	switch cmp.Op {
	case queryir.OpLess, queryir.OpLessEqual, queryir.OpGreater, queryir.OpGreaterEqual:
	default:
		return "", nil, fmt.Errorf("unsupported comparison %q", cmp.Op)
	}
	return fmt.Sprintf("%s %s ?", cmp.Field, cmp.Op), []any{int64(cmp.Value)}, nil
}

// compileHasOperand matches against the JSON operand array of a placement.
func compileHasOperand(h queryir.HasOperand) (string, []any, error) {
	return "EXISTS (SELECT 1 FROM json_each(operands) WHERE json_each.value = ?)", []any{int64(h.Qubit)}, nil
}

func (c *SQLCompiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, predParams, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		if _, nested := pred.(queryir.And); nested {
			sql = "(" + sql + ")"
		}
		parts = append(parts, sql)
		params = append(params, predParams...)
	}
	return strings.Join(parts, " AND "), params, nil
}

// valueToParam converts a literal to a Go value for database/sql.
func valueToParam(v queryir.Value) (any, error) {
	switch val := v.(type) {
	case queryir.Text:
		return string(val), nil
	case queryir.Int:
		return int64(val), nil
	default:
		return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}
