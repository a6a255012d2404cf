package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qsched/internal/engine"
	"github.com/roach88/qsched/internal/ir"
	"github.com/roach88/qsched/internal/resource"
)

// ScheduleOptions holds flags for the schedule command.
type ScheduleOptions struct {
	*RootOptions
	Database  string
	Lookahead int
	MaxStall  int64

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// ScheduleResult is the schedule command's payload.
type ScheduleResult struct {
	RunID      string         `json:"run_id"`
	Platform   string         `json:"platform"`
	Program    string         `json:"program"`
	Makespan   int64          `json:"makespan"`
	Stored     bool           `json:"stored"`
	Placements []ir.Placement `json:"placements"`
}

// NewScheduleCommand creates the schedule command.
func NewScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScheduleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schedule <platform> <program>",
		Short: "Schedule a program on a platform",
		Long: `Schedule a program as soon as possible on a platform, consulting the
resource oracle before every placement.

With --lookahead N the scheduler also tries a window of N candidate
instructions on a forked copy of the resource state and keeps whichever
schedule is shorter. With --db the run is stored for replay.

Examples:
  qsched schedule surface7.json program.yaml
  qsched schedule surface7.json program.yaml --lookahead 4
  qsched schedule surface7.json program.yaml --db ./runs.db --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database to store the run")
	cmd.Flags().IntVar(&opts.Lookahead, "lookahead", 1, "candidate window (1 = plain ASAP)")
	cmd.Flags().Int64Var(&opts.MaxStall, "max-stall", engine.DefaultMaxStall, "maximum cycles an instruction may wait")

	return cmd
}

func runSchedule(opts *ScheduleOptions, platformPath, programPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	p, verrs, err := LoadPlatformFile(platformPath)
	if err != nil {
		return exitForLoadError(formatter, err)
	}
	if len(verrs) > 0 {
		return outputValidationErrors(formatter, verrs)
	}

	prog, instructions, verrs, err := LoadProgramFile(programPath, p)
	if err != nil {
		return exitForLoadError(formatter, err)
	}
	if len(verrs) > 0 {
		return outputValidationErrors(formatter, verrs)
	}

	engineOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithLookahead(opts.Lookahead),
		engine.WithMaxStall(opts.MaxStall),
	}
	if opts.RunIDs != nil {
		engineOpts = append(engineOpts, engine.WithRunIDs(opts.RunIDs))
	}
	if opts.Database != "" {
		st, err := openStore(opts.Database)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		engineOpts = append(engineOpts, engine.WithStore(st))
	}

	eng, err := engine.New(p, engineOpts...)
	if err != nil {
		return exitForLoadError(formatter, err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sched, err := eng.Schedule(ctx, instructions)
	if err != nil {
		code := scheduleErrorCode(err)
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitFailure, "scheduling failed", err)
	}

	result := ScheduleResult{
		RunID:      sched.ID,
		Platform:   sched.Platform,
		Program:    prog.Name,
		Makespan:   sched.Makespan,
		Stored:     opts.Database != "",
		Placements: sched.Placements,
	}
	return outputScheduleResult(formatter, result)
}

// scheduleErrorCode picks the most specific code for a scheduling failure.
func scheduleErrorCode(err error) string {
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
	return ErrCodeSchedule
}

// outputScheduleResult outputs a schedule in the configured format.
func outputScheduleResult(formatter *OutputFormatter, result ScheduleResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Scheduled %s on %s: %d instruction(s), makespan %d cycle(s)\n",
		result.Program, result.Platform, len(result.Placements), result.Makespan)
	fmt.Fprintf(w, "Run: %s", result.RunID)
	if result.Stored {
		fmt.Fprint(w, " (stored)")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)
	writePlacements(formatter, result.Placements)
	return nil
}

// writePlacements prints one placement per line in commit order.
func writePlacements(formatter *OutputFormatter, placements []ir.Placement) {
	fmt.Fprintf(formatter.Writer, "  %5s  %-10s  %-8s  %s\n", "cycle", "gate", "category", "qubits")
	for _, pl := range placements {
		ins := pl.Instruction
		fmt.Fprintf(formatter.Writer, "  %5d  %-10s  %-8s  %v\n", pl.Cycle, ins.Name, ins.Category, ins.Operands)
		if formatter.Verbose {
			fmt.Fprintf(formatter.Writer, "         seq=%d duration=%d\n", pl.Seq, ins.Duration)
		}
	}
}
