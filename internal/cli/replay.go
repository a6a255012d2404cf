package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qsched/internal/engine"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Platform string
	RunID    string // optional - latest run when empty
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a stored schedule and verify it is conflict-free",
		Long: `Replay a stored schedule against a fresh resource state for the
platform and report every placement the oracle refuses.

Placements are re-applied in commit order. A run replayed against a
platform whose content hash differs from the one it was scheduled on is
reported as changed.

Exit codes:
  0 - Schedule replays without conflicts on the same platform
  1 - Conflicts found or platform changed
  2 - Command error (database not found, run not found, etc.)

Examples:
  qsched replay --db ./runs.db --platform surface7.json
  qsched replay --db ./runs.db --platform surface7.json --run 0192...
  qsched replay --db ./runs.db --platform surface7.json --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Platform, "platform", "", "platform descriptor (required)")
	_ = cmd.MarkFlagRequired("platform")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to replay (default: latest)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	p, verrs, err := LoadPlatformFile(opts.Platform)
	if err != nil {
		return exitForLoadError(formatter, err)
	}
	if len(verrs) > 0 {
		return outputValidationErrors(formatter, verrs)
	}

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	sched, err := readRun(ctx, st, opts.RunID)
	if err != nil {
		return exitForLoadError(formatter, err)
	}

	report, err := engine.Verify(ctx, p, sched, logger)
	if err != nil {
		_ = formatter.Error(scheduleErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", sched.ID), err)
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, report)
	}
	return outputReplayText(cmd, report, opts.Verbose)
}

// outputReplayJSON outputs the replay report as JSON.
func outputReplayJSON(cmd *cobra.Command, report *engine.Report) error {
	response := CLIResponse{
		Status: "ok",
		Data:   report,
		RunID:  report.RunID,
	}

	if !report.OK() {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_REPLAY",
			Message: replayFailureMessage(report),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !report.OK() {
		// Replay failure = exit code 1
		return NewExitError(ExitFailure, replayFailureMessage(report))
	}
	return nil
}

// outputReplayText outputs the replay report as text.
func outputReplayText(cmd *cobra.Command, report *engine.Report, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: run %s\n", report.RunID)
	fmt.Fprintf(w, "  Placements: %d\n", report.Placements)
	fmt.Fprintf(w, "  Makespan: %d\n", report.Makespan)
	if verbose {
		fmt.Fprintf(w, "  Platform changed: %v\n", report.PlatformChanged)
	}
	fmt.Fprintln(w)

	if report.PlatformChanged {
		fmt.Fprintln(w, "Warning: platform differs from the one the run was scheduled on")
	}
	for _, c := range report.Conflicts {
		fmt.Fprintf(w, "✗ seq %d: %s %v at cycle %d conflicts\n",
			c.Seq, c.Instruction.Name, c.Instruction.Operands, c.Cycle)
	}

	if report.OK() {
		fmt.Fprintln(w, "✓ Schedule verified conflict-free")
		return nil
	}

	fmt.Fprintln(w, "✗ Replay verification failed")
	// Replay failure = exit code 1
	return NewExitError(ExitFailure, replayFailureMessage(report))
}

func replayFailureMessage(report *engine.Report) string {
	if len(report.Conflicts) > 0 {
		return fmt.Sprintf("%d conflicting placement(s)", len(report.Conflicts))
	}
	return "platform changed"
}
