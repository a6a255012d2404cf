package queryir

// Table names a queryable store table.
type Table string

const (
	TableRuns       Table = "runs"
	TablePlacements Table = "placements"
)

// Query is a request for rows of one table.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode()
}

// Predicate is a filter condition over the rows of a query.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode()
}

// Value is a literal a predicate compares against.
//
// This is a sealed interface - only types in this package implement it.
type Value interface {
	valueNode()
}

// Text is a string literal.
type Text string

func (Text) valueNode() {}

// Int is an integer literal.
type Int int64

func (Int) valueNode() {}

// Select reads Columns of the rows of From that satisfy Filter.
//
// Semantics:
//
//	SELECT <columns> FROM <from> WHERE <filter> ORDER BY <stable key>
//
// Rows always come back in a stable order: runs by seq, placements by
// (run_id, seq).
type Select struct {
	From    Table
	Columns []string  // selected columns, in scan order
	Filter  Predicate // nil = every row
}

func (Select) queryNode() {}

// Equals holds when Field equals Value.
type Equals struct {
	Field string
	Value Value
}

func (Equals) predicateNode() {}

// CompareOp is an ordering comparison.
type CompareOp string

const (
	OpLess         CompareOp = "<"
	OpLessEqual    CompareOp = "<="
	OpGreater      CompareOp = ">"
	OpGreaterEqual CompareOp = ">="
)

// Compare holds when Field Op Value. Only integer columns can be compared.
type Compare struct {
	Field string
	Op    CompareOp
	Value Int
}

func (Compare) predicateNode() {}

// HasOperand holds when a placement's operand list contains Qubit.
// It is only meaningful on the placements table.
type HasOperand struct {
	Qubit int
}

func (HasOperand) predicateNode() {}

// And holds when every one of Predicates holds. An empty And is true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Where conjoins the non-nil predicates. It returns nil when none remain
// and the single predicate when only one does.
func Where(preds ...Predicate) Predicate {
	var kept []Predicate
	for _, p := range preds {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return And{Predicates: kept}
	}
}
