package harness

import (
	"fmt"

	"github.com/roach88/qsched/internal/resource"
)

// Step operation names as they appear in the trace.
const (
	OpAvailable = "available"
	OpReserve   = "reserve"
	OpFork      = "fork"
	OpUse       = "use"
	OpAssign    = "assign"
	OpSchedule  = "schedule"
	OpVerify    = "verify"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Branch string `json:"branch"`
	Op     string `json:"op"`
	Detail string `json:"detail"`
	Result string `json:"result"`
}

// String renders the event as one golden-file line.
func (e TraceEvent) String() string {
	return fmt.Sprintf("%d %s %s %s -> %s", e.Seq, e.Branch, e.Op, e.Detail, e.Result)
}

// BranchState is the final occupation of one branch.
type BranchState struct {
	Branch string           `json:"branch"`
	Usage  []resource.Usage `json:"usage"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains every executed step in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final holds each branch's busy-until state, sorted by branch name.
	Final []BranchState `json:"final"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		Final:  []BranchState{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event to the trace.
func (r *Result) AddTrace(seq int64, branch, op, detail, result string) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:    seq,
		Branch: branch,
		Op:     op,
		Detail: detail,
		Result: result,
	})
}

// Branch returns the final state of the named branch.
func (r *Result) Branch(name string) (BranchState, bool) {
	for _, b := range r.Final {
		if b.Branch == name {
			return b, true
		}
	}
	return BranchState{}, false
}
