package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot captures everything a golden file pins down for one scenario:
// the step trace and the final state of every branch.
type TraceSnapshot struct {
	ScenarioName string        `json:"scenario_name"`
	Trace        []TraceEvent  `json:"trace"`
	Final        []BranchState `json:"final"`
}

// NewSnapshot builds the snapshot of a scenario result.
func NewSnapshot(name string, result *Result) TraceSnapshot {
	return TraceSnapshot{
		ScenarioName: name,
		Trace:        result.Trace,
		Final:        result.Final,
	}
}

// Bytes renders the snapshot in golden-file form:
//
//	scenario: two_qubit_example
//	trace:
//	  1 main reserve x90 [0] @0 -> ok
//	final:
//	  main qubits [1 0]
func (s TraceSnapshot) Bytes() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "scenario: %s\n", s.ScenarioName)
	b.WriteString("trace:\n")
	for _, ev := range s.Trace {
		fmt.Fprintf(&b, "  %s\n", ev)
	}
	b.WriteString("final:\n")
	for _, branch := range s.Final {
		for _, u := range branch.Usage {
			fmt.Fprintf(&b, "  %s %s %v\n", branch.Branch, u.Kind, u.BusyUntil)
		}
	}
	return b.Bytes()
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, NewSnapshot(scenarioName, result).Bytes())
}
