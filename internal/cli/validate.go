package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qsched/internal/compiler"
	"github.com/roach88/qsched/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid        bool                       `json:"valid"`
	Platform     string                     `json:"platform,omitempty"`
	PlatformHash string                     `json:"platform_hash,omitempty"`
	Qubits       int                        `json:"qubits,omitempty"`
	Resources    []ir.ResourceKind          `json:"resources,omitempty"`
	Program      string                     `json:"program,omitempty"`
	Gates        int                        `json:"gates,omitempty"`
	Errors       []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <platform> [program]",
		Short: "Validate a platform descriptor and optionally a program",
		Long: `Validate a platform descriptor (.cue, .json, .yaml) and, when given,
a program against it.

Checks resource counts, connection maps, topology edges, instruction
durations, and that every gate of the program exists on the platform
with operands inside the register.

Exit codes:
  0 - Valid
  1 - Validation errors
  2 - Command error (file not found, malformed descriptor)`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			programPath := ""
			if len(args) == 2 {
				programPath = args[1]
			}
			return runValidate(rootOpts, args[0], programPath, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, platformPath, programPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	p, verrs, err := LoadPlatformFile(platformPath)
	if err != nil {
		return exitForLoadError(formatter, err)
	}
	if len(verrs) > 0 {
		return outputValidationErrors(formatter, verrs)
	}
	formatter.VerboseLog("Loaded platform %s from %s", p.Name, platformPath)

	hash, err := ir.PlatformHash(p)
	if err != nil {
		return exitForLoadError(formatter, err)
	}

	result := ValidationResult{
		Valid:        true,
		Platform:     p.Name,
		PlatformHash: hash,
		Qubits:       p.Qubits(),
	}
	for _, r := range p.Resources {
		result.Resources = append(result.Resources, r.Kind)
	}

	if programPath != "" {
		prog, _, verrs, err := LoadProgramFile(programPath, p)
		if err != nil {
			return exitForLoadError(formatter, err)
		}
		if len(verrs) > 0 {
			return outputValidationErrors(formatter, verrs)
		}
		formatter.VerboseLog("Resolved %d gate(s) of program %s", len(prog.Gates), prog.Name)
		result.Program = prog.Name
		result.Gates = len(prog.Gates)
	}

	return outputValidateSuccess(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Platform %s valid: %d qubit(s), resources %v\n",
		result.Platform, result.Qubits, result.Resources)
	if result.Program != "" {
		fmt.Fprintf(formatter.Writer, "✓ Program %s valid: %d gate(s)\n", result.Program, result.Gates)
	}
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:  false,
			Errors: errs,
		}

		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
