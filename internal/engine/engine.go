package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/qsched/internal/ir"
	"github.com/roach88/qsched/internal/resource"
	"github.com/roach88/qsched/internal/store"
)

// Engine schedules programs for one platform.
//
// The Engine owns a resource.Manager holding the occupation left by every
// schedule committed so far. Schedule works on forks of it and assigns the
// winning fork back only on success, so a failed pass leaves the Engine
// unchanged.
//
// Thread-safety: an Engine is not safe for concurrent use. Fork gives each
// goroutine its own Engine.
type Engine struct {
	platform  *ir.Platform
	manager   *resource.Manager
	store     *store.Store
	runIDs    RunIDGenerator
	logger    *slog.Logger
	lookahead int
	quota     *StallQuota
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The logger is also passed to the
// resource manager for conflict diagnostics.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLookahead sets the candidate window. 1 (the default) is plain ASAP.
func WithLookahead(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.lookahead = n
		}
	}
}

// WithMaxStall sets the stall quota per instruction.
//
// Default: DefaultMaxStall cycles.
func WithMaxStall(cycles int64) Option {
	return func(e *Engine) {
		e.quota = NewStallQuota(cycles)
	}
}

// WithRunIDs sets the run id generator.
// Default: UUIDv7Generator.
func WithRunIDs(gen RunIDGenerator) Option {
	return func(e *Engine) {
		if gen != nil {
			e.runIDs = gen
		}
	}
}

// WithStore persists every successful schedule to s.
func WithStore(s *store.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// New creates an Engine with an empty resource manager for p.
//
// Returns the resource manager's configuration error if p is malformed.
func New(p *ir.Platform, opts ...Option) (*Engine, error) {
	e := &Engine{
		platform:  p,
		runIDs:    UUIDv7Generator{},
		logger:    slog.Default(),
		lookahead: 1,
		quota:     NewStallQuota(DefaultMaxStall),
	}
	for _, opt := range opts {
		opt(e)
	}

	m, err := resource.New(p, resource.WithLogger(e.logger))
	if err != nil {
		return nil, fmt.Errorf("build resource manager: %w", err)
	}
	e.manager = m
	return e, nil
}

// Fork returns an Engine sharing configuration with e but owning an
// independent copy of its resource state.
func (e *Engine) Fork() *Engine {
	f := *e
	f.manager = e.manager.Clone()
	return &f
}

// Manager returns the engine's committed resource state.
func (e *Engine) Manager() *resource.Manager {
	return e.manager
}

// SetLookahead changes the candidate window used by later calls to Schedule.
// Values below 1 select plain ASAP.
func (e *Engine) SetLookahead(n int) {
	e.lookahead = max(n, 1)
}

// Platform returns the platform the engine schedules for.
func (e *Engine) Platform() *ir.Platform {
	return e.platform
}

// Schedule places every instruction of program and commits the result.
//
// Instructions touching a common qubit keep their program order. The
// returned Schedule carries a fresh run id and the content hashes of the
// platform and program. With WithStore the run is persisted before the
// resource state is committed.
func (e *Engine) Schedule(ctx context.Context, program []ir.Instruction) (*ir.Schedule, error) {
	platformHash, err := ir.PlatformHash(e.platform)
	if err != nil {
		return nil, &RuntimeError{Code: ErrCodeHash, Message: "hash platform", Index: -1, Err: err}
	}
	programHash, err := ir.ProgramHash(program)
	if err != nil {
		return nil, &RuntimeError{Code: ErrCodeHash, Message: "hash program", Index: -1, Err: err}
	}

	asap := e.manager.Clone()
	placements, err := e.pass(ctx, asap, program, 1)
	if err != nil {
		return nil, err
	}
	winner, strategy := asap, "asap"

	if e.lookahead > 1 {
		fork := e.manager.Clone()
		la, err := e.pass(ctx, fork, program, e.lookahead)
		if err != nil {
			return nil, err
		}
		if ir.ComputeMakespan(la) < ir.ComputeMakespan(placements) {
			placements, winner, strategy = la, fork, "lookahead"
		}
	}

	sched := &ir.Schedule{
		ID:            e.runIDs.Generate(),
		Platform:      e.platform.Name,
		PlatformHash:  platformHash,
		ProgramHash:   programHash,
		Placements:    placements,
		Makespan:      ir.ComputeMakespan(placements),
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}

	if e.store != nil {
		if err := e.store.WriteRun(ctx, sched); err != nil {
			return nil, fmt.Errorf("persist run %s: %w", sched.ID, err)
		}
	}

	e.manager.Assign(winner)
	e.logger.Info("schedule complete",
		"run_id", sched.ID,
		"platform", sched.Platform,
		"strategy", strategy,
		"instructions", len(placements),
		"makespan", sched.Makespan,
	)
	return sched, nil
}

// pass schedules program on m with the given candidate window.
func (e *Engine) pass(ctx context.Context, m *resource.Manager, program []ir.Instruction, window int) ([]ir.Placement, error) {
	clock := NewClock()
	placed := make([]bool, len(program))
	ready := make(map[int]int64) // qubit -> end of its last placed instruction
	placements := make([]ir.Placement, 0, len(program))
	next := 0 // first unplaced index

	for clock.Current() < int64(len(program)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		best, bestCycle := -1, int64(0)
		for _, i := range candidates(program, placed, next, window) {
			cycle, err := e.earliest(m, i, program[i], readyCycle(ready, program[i]))
			if err != nil {
				return nil, err
			}
			if best < 0 || cycle < bestCycle {
				best, bestCycle = i, cycle
			}
		}

		ins := program[best]
		if err := m.Reserve(bestCycle, ins); err != nil {
			return nil, newInvalidInstructionError(best, ins.Name, err)
		}
		placed[best] = true
		for _, q := range ins.Operands {
			ready[q] = bestCycle + ins.Duration
		}
		placements = append(placements, ir.Placement{
			Seq:         clock.Next(),
			Cycle:       bestCycle,
			Instruction: ins,
		})
		e.logger.Debug("placed",
			"instruction", ins.Name,
			"operands", ins.Operands,
			"index", best,
			"cycle", bestCycle,
		)

		for next < len(program) && placed[next] {
			next++
		}
	}
	return placements, nil
}

// earliest finds the first cycle at or after ready where m accepts ins.
func (e *Engine) earliest(m *resource.Manager, index int, ins ir.Instruction, ready int64) (int64, error) {
	for cycle := ready; ; cycle++ {
		if err := e.quota.Check(index, ins.Name, ready, cycle); err != nil {
			return 0, err
		}
		ok, err := m.Available(cycle, ins)
		if err != nil {
			return 0, newInvalidInstructionError(index, ins.Name, err)
		}
		if ok {
			return cycle, nil
		}
	}
}

// candidates returns up to window unplaced indices, starting at next, whose
// qubits are not used by an earlier unplaced instruction.
func candidates(program []ir.Instruction, placed []bool, next, window int) []int {
	var out []int
	blocked := make(map[int]bool)
	for i := next; i < len(program) && len(out) < window; i++ {
		if placed[i] {
			continue
		}
		free := true
		for _, q := range program[i].Operands {
			if blocked[q] {
				free = false
			}
			blocked[q] = true
		}
		if free {
			out = append(out, i)
		}
	}
	return out
}

func readyCycle(ready map[int]int64, ins ir.Instruction) int64 {
	var r int64
	for _, q := range ins.Operands {
		r = max(r, ready[q])
	}
	return r
}
