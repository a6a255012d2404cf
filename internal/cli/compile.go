package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/qsched/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationResult is a platform in the typed layout plus its content hash.
type CompilationResult struct {
	Platform *ir.Platform `json:"platform"`
	Hash     string       `json:"hash"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <platform>",
		Short: "Compile a platform descriptor to the typed YAML layout",
		Long: `Compile a platform descriptor in any supported encoding (.cue, .json,
.yaml) and emit it in the typed YAML layout, with resources as an
ordered list and instruction categories normalized.

The output loads back unchanged and hashes to the same platform hash.

Examples:
  qsched compile surface7.json
  qsched compile surface7.json -o surface7.yaml
  qsched compile surface7.json --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, platformPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	p, verrs, err := LoadPlatformFile(platformPath)
	if err != nil {
		return exitForLoadError(formatter, err)
	}
	if len(verrs) > 0 {
		return outputValidationErrors(formatter, verrs)
	}

	hash, err := ir.PlatformHash(p)
	if err != nil {
		return exitForLoadError(formatter, err)
	}
	formatter.VerboseLog("Compiled platform %s (%s)", p.Name, hash)

	data, err := yaml.Marshal(p)
	if err != nil {
		return exitForLoadError(formatter, &LoadError{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("marshaling platform: %v", err)})
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0644); err != nil {
			return exitForLoadError(formatter, &LoadError{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("writing output file: %v", err)})
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(CompilationResult{Platform: p, Hash: hash})
	}

	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "✓ Compiled platform %s (%s)\n", p.Name, hash)
		fmt.Fprintf(formatter.Writer, "Wrote typed platform to %s\n", opts.Output)
		return nil
	}
	_, err = formatter.Writer.Write(data)
	return err
}
