package harness

import (
	"fmt"
	"slices"

	"github.com/roach88/qsched/internal/ir"
	"github.com/roach88/qsched/internal/resource"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Index    int    // Position in the scenario's assertion list
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertions[%d] %s: expected %s, got %s", e.Index, e.Type, e.Expected, e.Actual)
}

// evaluateAssertions checks every assertion against the live branches and the
// trace and returns one message per failure.
func (h *Harness) evaluateAssertions(assertions []Assertion, result *Result) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertBusyUntil:
			err = h.assertBusyUntil(i, a)
		case AssertPlaying:
			err = h.assertPlaying(i, a)
		case AssertTraceCount:
			err = assertTraceCount(i, a, result.Trace)
		default:
			err = fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func (h *Harness) branchManager(a Assertion) (*resource.Manager, error) {
	name := a.Branch
	if name == "" {
		name = MainBranch
	}
	eng, ok := h.branches[name]
	if !ok {
		return nil, fmt.Errorf("unknown branch %q", name)
	}
	return eng.Manager(), nil
}

// assertBusyUntil compares one resource's busy-until values.
func (h *Harness) assertBusyUntil(index int, a Assertion) error {
	m, err := h.branchManager(a)
	if err != nil {
		return fmt.Errorf("assertions[%d]: %w", index, err)
	}
	r, ok := m.Resource(ir.ResourceKind(a.Resource))
	if !ok {
		return &AssertionError{
			Index:    index,
			Type:     AssertBusyUntil,
			Expected: fmt.Sprintf("resource %s", a.Resource),
			Actual:   "not modeled by the platform",
		}
	}
	if busy := r.Busy(); !slices.Equal(busy, a.Expect) {
		return &AssertionError{
			Index:    index,
			Type:     AssertBusyUntil,
			Expected: fmt.Sprintf("%s %v", a.Resource, a.Expect),
			Actual:   fmt.Sprintf("%v", busy),
		}
	}
	return nil
}

// assertPlaying checks the operation recorded on a drive line.
func (h *Harness) assertPlaying(index int, a Assertion) error {
	m, err := h.branchManager(a)
	if err != nil {
		return fmt.Errorf("assertions[%d]: %w", index, err)
	}
	r, ok := m.Resource(ir.KindQWGs)
	if !ok {
		return &AssertionError{
			Index:    index,
			Type:     AssertPlaying,
			Expected: "a qwgs resource",
			Actual:   "none",
		}
	}
	lines := r.(*resource.DriveLineResource)
	if got := lines.Playing(a.Line); got != a.Gate {
		return &AssertionError{
			Index:    index,
			Type:     AssertPlaying,
			Expected: fmt.Sprintf("line %d playing %q", a.Line, a.Gate),
			Actual:   fmt.Sprintf("%q", got),
		}
	}
	return nil
}

// assertTraceCount counts events with the given op (and result, if set).
func assertTraceCount(index int, a Assertion, trace []TraceEvent) error {
	count := 0
	for _, ev := range trace {
		if ev.Op != a.Op {
			continue
		}
		if a.Result != "" && ev.Result != a.Result {
			continue
		}
		count++
	}
	if count != a.Count {
		what := a.Op
		if a.Result != "" {
			what = fmt.Sprintf("%s -> %s", a.Op, a.Result)
		}
		return &AssertionError{
			Index:    index,
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d x %s", a.Count, what),
			Actual:   fmt.Sprintf("%d", count),
		}
	}
	return nil
}
