package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/roach88/qsched/internal/compiler"
	"github.com/roach88/qsched/internal/ir"
	"github.com/roach88/qsched/internal/store"
)

// Error codes for CLI-level failures. Descriptor validation uses the
// compiler's E2xx codes; oracle usage errors keep their resource codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No scenario files found
	ErrCodeLoadFailed  = "E004" // Descriptor could not be decoded
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeDatabase    = "E008" // Database open/read error
	ErrCodeNoRun       = "E009" // No stored run matches
	ErrCodeSchedule    = "E010" // Scheduler failure without a more specific code
)

// LoadError represents an error that occurred while loading a descriptor.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadPlatformFile loads a platform descriptor.
//
// Validation failures are returned as the second result; everything that
// prevents decoding the file is returned as a *LoadError.
func LoadPlatformFile(path string) (*ir.Platform, []compiler.ValidationError, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("platform not found: %s", path)}
	}
	p, err := compiler.LoadPlatform(path)
	if err != nil {
		return nil, validationErrors(err), toLoadError(err)
	}
	return p, nil, nil
}

// LoadProgramFile loads a program and resolves it against p.
func LoadProgramFile(path string, p *ir.Platform) (*compiler.Program, []ir.Instruction, []compiler.ValidationError, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("program not found: %s", path)}
	}
	prog, instructions, err := compiler.LoadProgram(path, p)
	if err != nil {
		return nil, nil, validationErrors(err), toLoadError(err)
	}
	return prog, instructions, nil, nil
}

// validationErrors returns the validation errors carried by err, if any.
func validationErrors(err error) []compiler.ValidationError {
	var pe *compiler.PlatformError
	if errors.As(err, &pe) {
		return pe.Errors
	}
	return nil
}

// toLoadError converts a decode failure into a *LoadError. Validation
// failures yield nil: callers report them from validationErrors.
func toLoadError(err error) error {
	var pe *compiler.PlatformError
	if errors.As(err, &pe) {
		return nil
	}
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return &LoadError{Code: ErrCodeBuildFailed, Message: ce.Message, Pos: ce.Pos}
	}
	return &LoadError{Code: ErrCodeLoadFailed, Message: err.Error()}
}

// openStore opens the run database or returns a command error.
func openStore(path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// readRun reads the run with the given id, or the latest run when id is empty.
func readRun(ctx context.Context, st *store.Store, id string) (*ir.Schedule, error) {
	var (
		sched *ir.Schedule
		err   error
	)
	if id != "" {
		sched, err = st.ReadRun(ctx, id)
	} else {
		sched, err = st.LatestRun(ctx)
	}
	if errors.Is(err, store.ErrNotFound) {
		if id == "" {
			return nil, &LoadError{Code: ErrCodeNoRun, Message: "database holds no runs"}
		}
		return nil, &LoadError{Code: ErrCodeNoRun, Message: fmt.Sprintf("run %s not found", id)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDatabase, Message: err.Error()}
	}
	return sched, nil
}

// exitForLoadError reports err through the formatter and returns the
// matching command error.
func exitForLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message), nil)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, err.Error(), nil)
}
