package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/qsched/internal/ir"
)

// RunSummary is a run row without its placements.
type RunSummary struct {
	ID           string `json:"id"`
	Seq          int64  `json:"seq"`
	Platform     string `json:"platform"`
	PlatformHash string `json:"platform_hash"`
	Makespan     int64  `json:"makespan"`
	Placements   int    `json:"placements"`
}

// ReadRun returns a stored run with its placements in seq order.
//
// Returns an error wrapping ErrNotFound if no run has the id.
func (s *Store) ReadRun(ctx context.Context, id string) (*ir.Schedule, error) {
	sched := &ir.Schedule{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, platform, platform_hash, program_hash, makespan, engine_version, ir_version
		FROM runs
		WHERE id = ?
	`, id).Scan(
		&sched.ID,
		&sched.Platform,
		&sched.PlatformHash,
		&sched.ProgramHash,
		&sched.Makespan,
		&sched.EngineVersion,
		&sched.IRVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}

	placements, err := s.readPlacements(ctx, id)
	if err != nil {
		return nil, err
	}
	sched.Placements = placements
	return sched, nil
}

// LatestRun returns the most recently written run.
//
// Returns ErrNotFound if the store holds no runs.
func (s *Store) LatestRun(ctx context.Context) (*ir.Schedule, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM runs ORDER BY seq DESC LIMIT 1
	`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return s.ReadRun(ctx, id)
}

// ListRuns returns every stored run in write order.
//
// Returns an empty slice (not nil) if the store holds no runs.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.seq, r.platform, r.platform_hash, r.makespan, COUNT(p.seq)
		FROM runs r
		LEFT JOIN placements p ON p.run_id = r.id
		GROUP BY r.id
		ORDER BY r.seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Seq, &r.Platform, &r.PlatformHash, &r.Makespan, &r.Placements); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func (s *Store) readPlacements(ctx context.Context, runID string) ([]ir.Placement, error) {
	return s.QueryPlacements(ctx, runID, nil)
}
