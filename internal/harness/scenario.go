package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/qsched/internal/compiler"
)

// MainBranch is the branch every scenario starts on.
const MainBranch = "main"

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Platform is the path of the platform descriptor (.cue, .json, .yaml).
	// Relative paths are resolved against the scenario file's directory.
	Platform string `yaml:"platform"`

	// Steps are executed in order against the current branch.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state and trace.
	// Supported types: busy_until, playing, trace_count
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one operation plus its expectations. Exactly one of the operation
// fields must be set.
type Step struct {
	Available *GateStep       `yaml:"available,omitempty"`
	Reserve   *GateStep       `yaml:"reserve,omitempty"`
	Fork      string          `yaml:"fork,omitempty"`
	Use       string          `yaml:"use,omitempty"`
	Assign    string          `yaml:"assign,omitempty"`
	Schedule  []compiler.Gate `yaml:"schedule,omitempty"`
	Verify    bool            `yaml:"verify,omitempty"`

	// Lookahead is the candidate window for a schedule step. 0 means ASAP.
	Lookahead int `yaml:"lookahead,omitempty"`

	// Expect is the answer an available step must return.
	Expect *bool `yaml:"expect,omitempty"`

	// ExpectError is the error code the step must fail with
	// (e.g. ILLEGAL_EDGE, INVALID_OPERAND, E204).
	ExpectError string `yaml:"expect_error,omitempty"`

	// ExpectMakespan is the makespan a schedule step must produce.
	ExpectMakespan *int64 `yaml:"expect_makespan,omitempty"`
}

// GateStep names a gate, its qubits and the cycle to query or reserve at.
type GateStep struct {
	Gate   string `yaml:"gate"`
	Qubits []int  `yaml:"qubits"`
	Cycle  int64  `yaml:"cycle"`
}

// Op returns the step's operation name, or "" if none is set.
func (s *Step) Op() string {
	ops := s.ops()
	if len(ops) != 1 {
		return ""
	}
	return ops[0]
}

func (s *Step) ops() []string {
	var ops []string
	if s.Available != nil {
		ops = append(ops, OpAvailable)
	}
	if s.Reserve != nil {
		ops = append(ops, OpReserve)
	}
	if s.Fork != "" {
		ops = append(ops, OpFork)
	}
	if s.Use != "" {
		ops = append(ops, OpUse)
	}
	if s.Assign != "" {
		ops = append(ops, OpAssign)
	}
	if s.Schedule != nil {
		ops = append(ops, OpSchedule)
	}
	if s.Verify {
		ops = append(ops, OpVerify)
	}
	return ops
}

// Assertion validates final state or the trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "busy_until": a resource's busy-until values on a branch
	// - "playing": the operation recorded on a drive line
	// - "trace_count": how many trace events match op (and result)
	Type string `yaml:"type"`

	// Branch selects the branch (busy_until, playing). Default: main.
	Branch string `yaml:"branch,omitempty"`

	// Resource is the resource kind (busy_until).
	Resource string `yaml:"resource,omitempty"`

	// Expect holds the expected busy-until values (busy_until).
	Expect []int64 `yaml:"expect,omitempty"`

	// Line and Gate name the drive line and its expected operation (playing).
	Line int    `yaml:"line,omitempty"`
	Gate string `yaml:"gate,omitempty"`

	// Op, Result and Count select and count trace events (trace_count).
	// An empty Result matches any result.
	Op     string `yaml:"op,omitempty"`
	Result string `yaml:"result,omitempty"`
	Count  int    `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertBusyUntil  = "busy_until"
	AssertPlaying    = "playing"
	AssertTraceCount = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Platform != "" && !filepath.IsAbs(scenario.Platform) {
		scenario.Platform = filepath.Join(filepath.Dir(path), scenario.Platform)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and that every
// branch a step refers to exists by the time the step runs.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Platform == "" {
		return fmt.Errorf("platform is required")
	}
	if _, err := os.Stat(s.Platform); os.IsNotExist(err) {
		return fmt.Errorf("platform file not found: %s", s.Platform)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	branches := map[string]bool{MainBranch: true}
	for i := range s.Steps {
		if err := validateStep(i, &s.Steps[i], branches); err != nil {
			return err
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], branches); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step *Step, branches map[string]bool) error {
	ops := step.ops()
	switch len(ops) {
	case 0:
		return fmt.Errorf("steps[%d]: no operation set", index)
	case 1:
	default:
		return fmt.Errorf("steps[%d]: exactly one operation allowed, got %v", index, ops)
	}

	op := ops[0]
	switch op {
	case OpAvailable, OpReserve:
		g := step.Available
		if g == nil {
			g = step.Reserve
		}
		if g.Gate == "" {
			return fmt.Errorf("steps[%d].%s: gate is required", index, op)
		}
		if g.Cycle < 0 {
			return fmt.Errorf("steps[%d].%s: cycle must be non-negative", index, op)
		}
	case OpFork:
		if branches[step.Fork] {
			return fmt.Errorf("steps[%d].fork: branch %q already exists", index, step.Fork)
		}
		branches[step.Fork] = true
	case OpUse:
		if !branches[step.Use] {
			return fmt.Errorf("steps[%d].use: unknown branch %q", index, step.Use)
		}
	case OpAssign:
		if !branches[step.Assign] {
			return fmt.Errorf("steps[%d].assign: unknown branch %q", index, step.Assign)
		}
	}

	if step.Expect != nil && op != OpAvailable {
		return fmt.Errorf("steps[%d]: expect only applies to available", index)
	}
	if step.Expect != nil && step.ExpectError != "" {
		return fmt.Errorf("steps[%d]: expect and expect_error are exclusive", index)
	}
	if step.ExpectMakespan != nil && op != OpSchedule {
		return fmt.Errorf("steps[%d]: expect_makespan only applies to schedule", index)
	}
	if step.Lookahead != 0 && op != OpSchedule {
		return fmt.Errorf("steps[%d]: lookahead only applies to schedule", index)
	}
	if step.Lookahead < 0 {
		return fmt.Errorf("steps[%d]: lookahead must be non-negative", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, branches map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Branch != "" && !branches[a.Branch] {
		return fmt.Errorf("assertions[%d]: unknown branch %q", index, a.Branch)
	}

	switch a.Type {
	case AssertBusyUntil:
		if a.Resource == "" {
			return fmt.Errorf("assertions[%d]: resource is required for busy_until", index)
		}
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for busy_until", index)
		}
	case AssertPlaying:
		if a.Line < 0 {
			return fmt.Errorf("assertions[%d]: line must be non-negative for playing", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
