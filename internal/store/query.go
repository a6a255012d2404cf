package store

import (
	"context"
	"fmt"

	"github.com/roach88/qsched/internal/ir"
	"github.com/roach88/qsched/internal/queryir"
	"github.com/roach88/qsched/internal/querysql"
)

// placementColumns is the scan order of scanPlacements.
var placementColumns = []string{"seq", "cycle", "name", "category", "operands", "duration"}

// QueryPlacements returns the placements of one run that satisfy filter, in
// seq order. A nil filter returns every placement of the run.
//
// Returns an empty slice (not nil) when nothing matches. An unknown run id
// is not an error: it simply matches nothing.
func (s *Store) QueryPlacements(ctx context.Context, runID string, filter queryir.Predicate) ([]ir.Placement, error) {
	q := queryir.Select{
		From:    queryir.TablePlacements,
		Columns: placementColumns,
		Filter:  queryir.Where(queryir.Equals{Field: "run_id", Value: queryir.Text(runID)}, filter),
	}
	if err := queryir.Validate(q).Err(); err != nil {
		return nil, err
	}

	sql, params, err := querysql.NewSQLCompiler().Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compile placement query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sql, params...)
	if err != nil {
		return nil, fmt.Errorf("query placements: %w", err)
	}
	defer rows.Close()

	placements := []ir.Placement{}
	for rows.Next() {
		var (
			pl       ir.Placement
			category string
			operands string
		)
		if err := rows.Scan(&pl.Seq, &pl.Cycle, &pl.Instruction.Name, &category, &operands, &pl.Instruction.Duration); err != nil {
			return nil, fmt.Errorf("scan placement: %w", err)
		}
		pl.Instruction.Category = ir.Category(category)
		if pl.Instruction.Operands, err = unmarshalOperands(operands); err != nil {
			return nil, err
		}
		placements = append(placements, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate placements: %w", err)
	}
	return placements, nil
}
