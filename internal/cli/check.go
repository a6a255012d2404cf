package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/qsched/internal/compiler"
	"github.com/roach88/qsched/internal/engine"
	"github.com/roach88/qsched/internal/ir"
	"github.com/roach88/qsched/internal/resource"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Cycle    int64
	Database string // optional - query against a stored run's state
	RunID    string // optional - latest run when empty
}

// CheckResult is the check command's payload.
type CheckResult struct {
	Gate      string           `json:"gate"`
	Qubits    []int            `json:"qubits"`
	Cycle     int64            `json:"cycle"`
	Available bool             `json:"available"`
	RunID     string           `json:"run_id,omitempty"`
	Usage     []resource.Usage `json:"usage"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <platform> <gate> [qubit...]",
		Short: "Ask the resource oracle whether a gate may start at a cycle",
		Long: `Ask the resource oracle whether a gate may start at a cycle.

Without --db the query runs against an idle platform. With --db the
resource state is first rebuilt by replaying a stored run (the latest,
or the one named by --run).

Exit codes:
  0 - The gate may start at the cycle
  1 - The gate conflicts with an earlier placement
  2 - Command error (unknown gate, illegal edge, operand out of range, etc.)

Examples:
  qsched check surface7.json cz 2 0 --cycle 0
  qsched check surface7.json x90 3 --cycle 12 --db ./runs.db`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], args[1], args[2:], cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Cycle, "cycle", 0, "start cycle to query")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database holding the run to query against")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to rebuild state from (default: latest)")

	return cmd
}

func runCheck(opts *CheckOptions, platformPath, gate string, qubitArgs []string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if opts.Cycle < 0 {
		return exitForLoadError(formatter, &LoadError{Code: ErrCodeGeneric, Message: "--cycle must be non-negative"})
	}
	qubits := make([]int, 0, len(qubitArgs))
	for _, arg := range qubitArgs {
		q, err := strconv.Atoi(arg)
		if err != nil {
			return exitForLoadError(formatter, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("invalid qubit %q", arg)})
		}
		qubits = append(qubits, q)
	}

	p, verrs, err := LoadPlatformFile(platformPath)
	if err != nil {
		return exitForLoadError(formatter, err)
	}
	if len(verrs) > 0 {
		return outputValidationErrors(formatter, verrs)
	}

	ins, ok := p.Instruction(gate, qubits)
	if !ok {
		return exitForLoadError(formatter, &LoadError{
			Code:    compiler.ErrUnknownGate,
			Message: fmt.Sprintf("gate %q is not defined by platform %q", gate, p.Name),
		})
	}

	m, runID, err := checkState(ctx, opts, formatter, p, logger)
	if err != nil {
		return err
	}

	free, err := m.Available(opts.Cycle, ins)
	if err != nil {
		code := ErrCodeGeneric
		var rerr *resource.Error
		if errors.As(err, &rerr) {
			code = string(rerr.Code)
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, "query rejected", err)
	}

	result := CheckResult{
		Gate:      gate,
		Qubits:    qubits,
		Cycle:     opts.Cycle,
		Available: free,
		RunID:     runID,
		Usage:     m.Snapshot(),
	}
	return outputCheckResult(formatter, result)
}

// checkState builds the resource state the query runs against: idle, or
// rebuilt from a stored run.
func checkState(ctx context.Context, opts *CheckOptions, formatter *OutputFormatter, p *ir.Platform, logger *slog.Logger) (*resource.Manager, string, error) {
	if opts.Database == "" {
		m, err := resource.New(p, resource.WithLogger(logger))
		if err != nil {
			return nil, "", exitForLoadError(formatter, err)
		}
		return m, "", nil
	}

	st, err := openStore(opts.Database)
	if err != nil {
		return nil, "", err
	}
	defer st.Close()

	sched, err := readRun(ctx, st, opts.RunID)
	if err != nil {
		return nil, "", exitForLoadError(formatter, err)
	}
	m, report, err := engine.Restore(ctx, p, sched, logger)
	if err != nil {
		_ = formatter.Error(scheduleErrorCode(err), err.Error(), nil)
		return nil, "", WrapExitError(ExitCommandError, fmt.Sprintf("failed to restore run %s", sched.ID), err)
	}
	if report.PlatformChanged {
		logger.Warn("run was scheduled on a different platform", "run_id", sched.ID)
	}
	formatter.VerboseLog("Restored run %s (%d placements)", sched.ID, report.Placements)
	return m, sched.ID, nil
}

// outputCheckResult outputs the oracle's answer in the configured format.
func outputCheckResult(formatter *OutputFormatter, result CheckResult) error {
	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		if result.Available {
			fmt.Fprintf(w, "✓ %s %v may start at cycle %d\n", result.Gate, result.Qubits, result.Cycle)
		} else {
			fmt.Fprintf(w, "✗ %s %v conflicts at cycle %d\n", result.Gate, result.Qubits, result.Cycle)
		}
		if formatter.Verbose {
			for _, u := range result.Usage {
				fmt.Fprintf(w, "  %s busy until %v\n", u.Kind, u.BusyUntil)
			}
		}
	}

	if !result.Available {
		// Conflict = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%s %v conflicts at cycle %d", result.Gate, result.Qubits, result.Cycle))
	}
	return nil
}
