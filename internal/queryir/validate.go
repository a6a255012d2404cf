package queryir

import (
	"fmt"
	"slices"
)

// columnKind is the SQL storage class of a column.
type columnKind int

const (
	kindText columnKind = iota
	kindInt
)

// schema lists the queryable columns of each table.
var schema = map[Table]map[string]columnKind{
	TableRuns: {
		"id":            kindText,
		"seq":           kindInt,
		"platform":      kindText,
		"platform_hash": kindText,
		"program_hash":  kindText,
		"makespan":      kindInt,
	},
	TablePlacements: {
		"run_id":   kindText,
		"seq":      kindInt,
		"cycle":    kindInt,
		"name":     kindText,
		"category": kindText,
		"operands": kindText,
		"duration": kindInt,
	},
}

var compareOps = []CompareOp{OpLess, OpLessEqual, OpGreater, OpGreaterEqual}

// ValidationResult lists every problem found in a query.
type ValidationResult struct {
	Valid    bool
	Problems []string
}

// Err returns the problems as a single error, or nil if the query is valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("invalid query: %v", r.Problems)
}

// Validate checks a query against the store schema.
//
// Column names are interpolated into SQL by backend compilers, so a query
// must name only known tables and columns. Values must match the column's
// storage class, and HasOperand is only allowed on placements.
//
// Validate is a pure function and reports all problems, not just the first.
func Validate(q Query) ValidationResult {
	v := &validator{problems: []string{}}
	v.validateQuery(q)
	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

type validator struct {
	problems []string
	columns  map[string]columnKind
	table    Table
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		if query == nil {
			v.addProblem("nil query")
			return
		}
		v.validateSelect(*query)
	case nil:
		v.addProblem("nil query")
	default:
		v.addProblem("unknown query type %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	columns, ok := schema[sel.From]
	if !ok {
		v.addProblem("unknown table %q", sel.From)
		return
	}
	v.columns = columns
	v.table = sel.From

	if len(sel.Columns) == 0 {
		v.addProblem("no columns selected from %s", sel.From)
	}
	for _, c := range sel.Columns {
		if _, ok := columns[c]; !ok {
			v.addProblem("unknown column %s.%s", sel.From, c)
		}
	}
	if sel.Filter != nil {
		v.validatePredicate(sel.Filter)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case Equals:
		v.validateEquals(pred)
	case *Equals:
		v.validateEquals(*pred)
	case Compare:
		v.validateCompare(pred)
	case *Compare:
		v.validateCompare(*pred)
	case HasOperand:
		v.validateHasOperand(pred)
	case *HasOperand:
		v.validateHasOperand(*pred)
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	case *And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	case nil:
		v.addProblem("nil predicate")
	default:
		v.addProblem("unknown predicate type %T", p)
	}
}

func (v *validator) validateEquals(eq Equals) {
	kind, ok := v.columns[eq.Field]
	if !ok {
		v.addProblem("unknown column %s.%s", v.table, eq.Field)
		return
	}
	switch eq.Value.(type) {
	case Text:
		if kind != kindText {
			v.addProblem("column %s is an integer, compared to text", eq.Field)
		}
	case Int:
		if kind != kindInt {
			v.addProblem("column %s is text, compared to an integer", eq.Field)
		}
	default:
		v.addProblem("unsupported value %T for column %s", eq.Value, eq.Field)
	}
}

func (v *validator) validateCompare(c Compare) {
	kind, ok := v.columns[c.Field]
	if !ok {
		v.addProblem("unknown column %s.%s", v.table, c.Field)
		return
	}
	if kind != kindInt {
		v.addProblem("column %s is text and cannot be ordered", c.Field)
	}
	if !slices.Contains(compareOps, c.Op) {
		v.addProblem("unknown comparison %q", c.Op)
	}
}

func (v *validator) validateHasOperand(h HasOperand) {
	if v.table != TablePlacements {
		v.addProblem("operand filter on table %s", v.table)
	}
	if h.Qubit < 0 {
		v.addProblem("negative qubit %d", h.Qubit)
	}
}
