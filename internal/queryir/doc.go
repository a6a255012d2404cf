// Package queryir is a small query representation over the run store.
//
// Callers describe which stored rows they want as a Select with a
// Predicate tree; a backend compiler (see querysql) turns it into
// parameterized SQL. Keeping the representation separate from SQL lets
// the CLI build filters without string concatenation and lets Validate
// reject unknown tables, unknown columns and mistyped values before
// anything reaches the database.
//
// # Tables
//
// Two tables are queryable, mirroring the store schema:
//
//	runs        id, seq, platform, platform_hash, program_hash, makespan
//	placements  run_id, seq, cycle, name, category, operands, duration
//
// # Predicates
//
//	Equals{Field, Value}           field = value
//	Compare{Field, Op, Value}      field < value, field >= value, ...
//	HasOperand{Qubit}              the placement touches qubit
//	And{Predicates}                all predicates hold (empty = true)
//
// There is no OR: a caller that needs a union issues two queries.
//
// # Sealed interfaces
//
// Query, Predicate and Value are sealed with marker methods so backend
// compilers can switch over them exhaustively.
package queryir
