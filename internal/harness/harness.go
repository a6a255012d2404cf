package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"

	"github.com/roach88/qsched/internal/compiler"
	"github.com/roach88/qsched/internal/engine"
	"github.com/roach88/qsched/internal/ir"
	"github.com/roach88/qsched/internal/resource"
	"github.com/roach88/qsched/internal/store"
)

// errNoRun is the code reported when verify runs on a branch that has not
// scheduled anything yet.
const errNoRun = "NO_RUN"

// Harness executes one scenario.
// It owns the branches, the in-memory store and the trace clock.
type Harness struct {
	platform *ir.Platform
	store    *store.Store
	clock    *engine.Clock
	logger   *slog.Logger

	branches map[string]*engine.Engine
	lastRun  map[string]string
	current  string
}

// Run loads the scenario's platform and executes the scenario.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible results.
func Run(scenario *Scenario) (*Result, error) {
	p, err := compiler.LoadPlatform(scenario.Platform)
	if err != nil {
		return nil, fmt.Errorf("failed to load platform: %w", err)
	}
	return RunPlatform(scenario, p)
}

// RunPlatform executes the scenario against an already loaded platform.
//
// Execution flow:
// 1. Create fresh in-memory database and the main branch
// 2. Execute steps in order, checking each step's expectations
// 3. Evaluate assertions
// 4. Snapshot every branch into the result
func RunPlatform(scenario *Scenario, p *ir.Platform) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	root, err := engine.New(p,
		engine.WithLogger(logger),
		engine.WithStore(st),
		engine.WithRunIDs(&engine.SequentialGenerator{Prefix: "run"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	h := &Harness{
		platform: p,
		store:    st,
		clock:    engine.NewClock(),
		logger:   logger,
		branches: map[string]*engine.Engine{MainBranch: root},
		lastRun:  map[string]string{},
		current:  MainBranch,
	}

	ctx := context.Background()
	result := NewResult()
	for i := range scenario.Steps {
		if err := h.execute(ctx, i, &scenario.Steps[i], result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	for _, msg := range h.evaluateAssertions(scenario.Assertions, result) {
		result.AddError(msg)
	}

	names := make([]string, 0, len(h.branches))
	for name := range h.branches {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		result.Final = append(result.Final, BranchState{
			Branch: name,
			Usage:  h.branches[name].Manager().Snapshot(),
		})
	}
	return result, nil
}

// execute runs one step, records it in the trace and checks its expectations.
// Only unrecoverable harness failures are returned as errors.
func (h *Harness) execute(ctx context.Context, index int, step *Step, result *Result) error {
	seq := h.clock.Next()
	branch := h.current
	eng, ok := h.branches[branch]
	if !ok {
		return fmt.Errorf("unknown branch %q", branch)
	}

	var (
		op      = step.Op()
		detail  string
		outcome string
		stepErr error
		code    string
	)

	switch op {
	case OpAvailable, OpReserve:
		g := step.Available
		if g == nil {
			g = step.Reserve
		}
		detail = fmt.Sprintf("%s %v @%d", g.Gate, g.Qubits, g.Cycle)
		ins, found := h.platform.Instruction(g.Gate, g.Qubits)
		if !found {
			stepErr = fmt.Errorf("gate %q is not defined by platform %q", g.Gate, h.platform.Name)
			code = compiler.ErrUnknownGate
			break
		}
		if op == OpAvailable {
			var free bool
			free, stepErr = eng.Manager().Available(g.Cycle, ins)
			outcome = strconv.FormatBool(free)
			if stepErr == nil && step.Expect != nil && free != *step.Expect {
				result.AddError(fmt.Sprintf("steps[%d]: available %s: expected %t, got %t", index, detail, *step.Expect, free))
			}
		} else {
			stepErr = eng.Manager().Reserve(g.Cycle, ins)
			outcome = "ok"
		}

	case OpFork:
		detail = step.Fork
		h.branches[step.Fork] = eng.Fork()
		outcome = "ok"

	case OpUse:
		detail = step.Use
		h.current = step.Use
		outcome = "ok"

	case OpAssign:
		detail = step.Assign
		eng.Manager().Assign(h.branches[step.Assign].Manager())
		outcome = "ok"

	case OpSchedule:
		window := max(step.Lookahead, 1)
		detail = fmt.Sprintf("%d gates lookahead=%d", len(step.Schedule), window)
		instructions, verrs := compiler.Resolve(&compiler.Program{Name: "scenario", Gates: step.Schedule}, h.platform)
		if len(verrs) > 0 {
			stepErr = verrs[0]
			code = verrs[0].Code
			break
		}
		eng.SetLookahead(window)
		var sched *ir.Schedule
		sched, stepErr = eng.Schedule(ctx, instructions)
		if stepErr == nil {
			h.lastRun[branch] = sched.ID
			outcome = fmt.Sprintf("%s makespan=%d", sched.ID, sched.Makespan)
			if step.ExpectMakespan != nil && sched.Makespan != *step.ExpectMakespan {
				result.AddError(fmt.Sprintf("steps[%d]: schedule: expected makespan %d, got %d", index, *step.ExpectMakespan, sched.Makespan))
			}
		}

	case OpVerify:
		runID, found := h.lastRun[branch]
		detail = runID
		if !found {
			detail = "-"
			stepErr = fmt.Errorf("branch %q has no scheduled run", branch)
			code = errNoRun
			break
		}
		outcome, stepErr = h.verify(ctx, runID)

	default:
		return fmt.Errorf("no operation set")
	}

	if stepErr != nil {
		if code == "" {
			code = errorCode(stepErr)
		}
		outcome = "error " + code
		h.logger.Debug("step failed", "step", index, "op", op, "error", stepErr)
	}
	result.AddTrace(seq, branch, op, detail, outcome)

	switch {
	case step.ExpectError != "" && stepErr == nil:
		result.AddError(fmt.Sprintf("steps[%d]: %s %s: expected error %s, got %s", index, op, detail, step.ExpectError, outcome))
	case step.ExpectError != "" && code != step.ExpectError:
		result.AddError(fmt.Sprintf("steps[%d]: %s %s: expected error %s, got %s", index, op, detail, step.ExpectError, code))
	case step.ExpectError == "" && stepErr != nil:
		result.AddError(fmt.Sprintf("steps[%d]: %s %s: unexpected error: %v", index, op, detail, stepErr))
	}
	return nil
}

// verify reads a stored run back and replays it on a fresh manager.
func (h *Harness) verify(ctx context.Context, runID string) (string, error) {
	sched, err := h.store.ReadRun(ctx, runID)
	if err != nil {
		return "", err
	}
	report, err := engine.Verify(ctx, h.platform, sched, h.logger)
	if err != nil {
		return "", err
	}
	switch {
	case report.PlatformChanged:
		return "platform changed", nil
	case len(report.Conflicts) > 0:
		return fmt.Sprintf("conflicts=%d", len(report.Conflicts)), nil
	}
	return "ok", nil
}

// errorCode extracts the most specific code from err.
func errorCode(err error) string {
	var rerr *resource.Error
	if errors.As(err, &rerr) {
		return string(rerr.Code)
	}
	var stall *engine.StallError
	if errors.As(err, &stall) {
		return string(engine.ErrCodeStallLimit)
	}
	var rt *engine.RuntimeError
	if errors.As(err, &rt) {
		return string(rt.Code)
	}
	var verr compiler.ValidationError
	if errors.As(err, &verr) {
		return verr.Code
	}
	if errors.Is(err, store.ErrNotFound) {
		return errNoRun
	}
	return "UNKNOWN"
}
