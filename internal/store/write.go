package store

import (
	"context"
	"fmt"

	"github.com/roach88/qsched/internal/ir"
)

// WriteRun inserts a schedule run and all of its placements in one
// transaction.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing a run whose id is
// already stored is a no-op, and its placements are left untouched.
func (s *Store) WriteRun(ctx context.Context, sched *ir.Schedule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, platform, platform_hash, program_hash, makespan, engine_version, ir_version)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sched.ID,
		sched.Platform,
		sched.PlatformHash,
		sched.ProgramHash,
		sched.Makespan,
		sched.EngineVersion,
		sched.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("write run: rows affected: %w", err)
	}
	if inserted == 0 {
		return tx.Commit()
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO placements
		(run_id, seq, cycle, name, category, operands, duration)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write placements: prepare: %w", err)
	}
	defer stmt.Close()

	for _, pl := range sched.Placements {
		operands, err := marshalOperands(pl.Instruction.Operands)
		if err != nil {
			return fmt.Errorf("write placement %d: %w", pl.Seq, err)
		}
		if _, err := stmt.ExecContext(ctx,
			sched.ID,
			pl.Seq,
			pl.Cycle,
			pl.Instruction.Name,
			string(pl.Instruction.Category),
			operands,
			pl.Instruction.Duration,
		); err != nil {
			return fmt.Errorf("write placement %d: %w", pl.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

// DeleteRun removes a run and its placements. Deleting a missing run is not
// an error.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	return nil
}
