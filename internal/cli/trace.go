package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qsched/internal/ir"
	"github.com/roach88/qsched/internal/queryir"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - latest run when empty
	Gate     string // optional - filter to a specific gate
	Category string // optional - filter to one instruction category
	Qubit    int    // optional - filter to placements touching a qubit (-1 = all)
	From     int64  // optional - first start cycle shown
	To       int64  // optional - start cycles before To are shown (-1 = no bound)
}

// TraceResult holds a stored run's placement timeline.
type TraceResult struct {
	RunID        string         `json:"run_id"`
	Platform     string         `json:"platform"`
	PlatformHash string         `json:"platform_hash"`
	ProgramHash  string         `json:"program_hash"`
	Makespan     int64          `json:"makespan"`
	Timeline     []ir.Placement `json:"timeline"`
	Stats        TraceStats     `json:"stats"`
}

// TraceStats holds summary statistics for the run.
type TraceStats struct {
	Placements int                 `json:"placements"`
	Shown      int                 `json:"shown"`
	ByCategory map[ir.Category]int `json:"by_category"`
	BusyCycles int64               `json:"busy_cycles"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the placement timeline of a stored run",
		Long: `Show the placements of a stored run in commit order.

The output includes:
- Timeline: every placement with its start cycle, gate and operands
- Stats: placement counts per category and the summed instruction cycles

Examples:
  qsched trace --db ./runs.db
  qsched trace --db ./runs.db --run 0192... --gate cz
  qsched trace --db ./runs.db --qubit 3 --format json
  qsched trace --db ./runs.db --category flux --from 10 --to 40`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to show (default: latest)")
	cmd.Flags().StringVar(&opts.Gate, "gate", "", "filter to placements of one gate")
	cmd.Flags().StringVar(&opts.Category, "category", "", "filter to one category (mw|flux|readout|other)")
	cmd.Flags().IntVar(&opts.Qubit, "qubit", -1, "filter to placements touching one qubit")
	cmd.Flags().Int64Var(&opts.From, "from", 0, "show placements starting at or after this cycle")
	cmd.Flags().Int64Var(&opts.To, "to", -1, "show placements starting before this cycle")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	sched, err := readRun(ctx, st, opts.RunID)
	if err != nil {
		return exitForLoadError(formatter, err)
	}
	formatter.VerboseLog("Read run %s (%d placements)", sched.ID, len(sched.Placements))

	timeline, err := st.QueryPlacements(ctx, sched.ID, traceFilter(opts))
	if err != nil {
		return exitForLoadError(formatter, &LoadError{Code: ErrCodeDatabase, Message: err.Error()})
	}

	result := buildTraceResult(sched, timeline)
	return outputTraceResult(formatter, result)
}

// traceFilter turns the filter flags into a placement predicate.
func traceFilter(opts *TraceOptions) queryir.Predicate {
	var preds []queryir.Predicate
	if opts.Gate != "" {
		preds = append(preds, queryir.Equals{Field: "name", Value: queryir.Text(ir.NormalizeName(opts.Gate))})
	}
	if opts.Category != "" {
		preds = append(preds, queryir.Equals{Field: "category", Value: queryir.Text(ir.ParseCategory(opts.Category))})
	}
	if opts.Qubit >= 0 {
		preds = append(preds, queryir.HasOperand{Qubit: opts.Qubit})
	}
	if opts.From > 0 {
		preds = append(preds, queryir.Compare{Field: "cycle", Op: queryir.OpGreaterEqual, Value: queryir.Int(opts.From)})
	}
	if opts.To >= 0 {
		preds = append(preds, queryir.Compare{Field: "cycle", Op: queryir.OpLess, Value: queryir.Int(opts.To)})
	}
	return queryir.Where(preds...)
}

// buildTraceResult computes run stats over every placement and attaches the
// filtered timeline.
func buildTraceResult(sched *ir.Schedule, timeline []ir.Placement) TraceResult {
	result := TraceResult{
		RunID:        sched.ID,
		Platform:     sched.Platform,
		PlatformHash: sched.PlatformHash,
		ProgramHash:  sched.ProgramHash,
		Makespan:     sched.Makespan,
		Timeline:     timeline,
		Stats: TraceStats{
			Placements: len(sched.Placements),
			Shown:      len(timeline),
			ByCategory: map[ir.Category]int{},
		},
	}
	for _, pl := range sched.Placements {
		result.Stats.ByCategory[pl.Instruction.Category]++
		result.Stats.BusyCycles += pl.Instruction.Duration
	}
	return result
}

// outputTraceResult outputs the trace in the configured format.
func outputTraceResult(formatter *OutputFormatter, result TraceResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run %s on %s\n", result.RunID, result.Platform)
	fmt.Fprintf(w, "  Makespan: %d\n", result.Makespan)
	fmt.Fprintf(w, "  Placements: %d (%d shown)\n", result.Stats.Placements, result.Stats.Shown)
	if formatter.Verbose {
		fmt.Fprintf(w, "  Platform hash: %s\n", result.PlatformHash)
		fmt.Fprintf(w, "  Program hash: %s\n", result.ProgramHash)
		fmt.Fprintf(w, "  Busy cycles: %d\n", result.Stats.BusyCycles)
	}
	fmt.Fprintln(w)

	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "No placements match.")
		return nil
	}
	writePlacements(formatter, result.Timeline)
	return nil
}
