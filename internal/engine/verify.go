package engine

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/qsched/internal/ir"
	"github.com/roach88/qsched/internal/resource"
)

// Conflict is a stored placement the resource manager refuses on replay.
type Conflict struct {
	Seq         int64          `json:"seq"`
	Cycle       int64          `json:"cycle"`
	Instruction ir.Instruction `json:"instruction"`
}

// Report is the outcome of replaying a stored schedule.
type Report struct {
	RunID           string     `json:"run_id"`
	Placements      int        `json:"placements"`
	Makespan        int64      `json:"makespan"`
	PlatformChanged bool       `json:"platform_changed"`
	Conflicts       []Conflict `json:"conflicts,omitempty"`
}

// OK reports whether the schedule replayed without conflicts on an unchanged
// platform.
func (r *Report) OK() bool {
	return len(r.Conflicts) == 0 && !r.PlatformChanged
}

// Verify replays sched against a fresh resource manager for p.
//
// Placements are re-applied in commit (Seq) order using the same
// check-then-reserve sequence the engine uses, so a schedule produced by the
// engine always verifies. A placement the manager refuses is recorded as a
// Conflict and then reserved anyway, so later placements are judged against
// the state the original run produced. Usage errors abort the replay.
func Verify(ctx context.Context, p *ir.Platform, sched *ir.Schedule, logger *slog.Logger) (*Report, error) {
	_, report, err := Restore(ctx, p, sched, logger)
	return report, err
}

// Restore replays sched like Verify and also returns the resource state the
// replay leaves behind, so later queries can be answered against a stored run.
func Restore(ctx context.Context, p *ir.Platform, sched *ir.Schedule, logger *slog.Logger) (*resource.Manager, *Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	m, err := resource.New(p, resource.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("build resource manager: %w", err)
	}

	report := &Report{
		RunID:      sched.ID,
		Placements: len(sched.Placements),
		Makespan:   ir.ComputeMakespan(sched.Placements),
	}

	if sched.PlatformHash != "" {
		hash, err := ir.PlatformHash(p)
		if err != nil {
			return nil, nil, &RuntimeError{Code: ErrCodeHash, Message: "hash platform", Index: -1, Err: err}
		}
		report.PlatformChanged = hash != sched.PlatformHash
	}

	ordered := slices.Clone(sched.Placements)
	slices.SortStableFunc(ordered, func(a, b ir.Placement) int {
		return cmp.Compare(a.Seq, b.Seq)
	})

	for i, pl := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		ok, err := m.Available(pl.Cycle, pl.Instruction)
		if err != nil {
			return nil, nil, newInvalidInstructionError(i, pl.Instruction.Name, err)
		}
		if !ok {
			report.Conflicts = append(report.Conflicts, Conflict{
				Seq:         pl.Seq,
				Cycle:       pl.Cycle,
				Instruction: pl.Instruction,
			})
			logger.Warn("replay conflict",
				"run_id", sched.ID,
				"seq", pl.Seq,
				"instruction", pl.Instruction.Name,
				"cycle", pl.Cycle,
			)
		}
		if err := m.Reserve(pl.Cycle, pl.Instruction); err != nil {
			return nil, nil, newInvalidInstructionError(i, pl.Instruction.Name, err)
		}
	}

	return m, report, nil
}
