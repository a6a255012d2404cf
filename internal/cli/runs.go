package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored schedule runs",
		Long: `List the runs stored in a database, oldest first.

Examples:
  qsched runs --db ./runs.db
  qsched runs --db ./runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(context.Background())
	if err != nil {
		return exitForLoadError(formatter, &LoadError{Code: ErrCodeDatabase, Message: err.Error()})
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}
	fmt.Fprintf(w, "  %4s  %-36s  %-16s  %8s  %10s\n", "seq", "id", "platform", "makespan", "placements")
	for _, r := range runs {
		fmt.Fprintf(w, "  %4d  %-36s  %-16s  %8d  %10d\n", r.Seq, r.ID, r.Platform, r.Makespan, r.Placements)
		if formatter.Verbose {
			fmt.Fprintf(w, "        platform_hash=%s\n", r.PlatformHash)
		}
	}
	return nil
}
