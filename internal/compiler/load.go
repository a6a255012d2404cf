package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/qsched/internal/ir"
)

// Format is a descriptor encoding.
type Format string

const (
	FormatCUE  Format = "cue"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the descriptor format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported descriptor extension %q (want .cue, .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// LoadPlatform reads and validates a platform descriptor.
//
// Returns a *CompileError for malformed CUE/JSON, a yaml error for
// malformed YAML, and a *PlatformError wrapping every validation error.
func LoadPlatform(path string) (*ir.Platform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read platform: %w", err)
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	return ParsePlatform(data, path, format)
}

// ParsePlatform compiles descriptor bytes. The filename only labels positions.
func ParsePlatform(data []byte, filename string, format Format) (*ir.Platform, error) {
	var (
		p   *ir.Platform
		err error
	)
	switch format {
	case FormatCUE, FormatJSON:
		var v cue.Value
		if v, err = compileBytes(data, filename); err != nil {
			return nil, err
		}
		p, err = CompilePlatform(v)
	case FormatYAML:
		p = &ir.Platform{}
		if err = decodeYAML(data, p); err == nil {
			normalizeCategories(p)
		}
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("compile platform %s: %w", filename, err)
	}

	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	if errs := Validate(p); len(errs) > 0 {
		return nil, &PlatformError{Path: filename, Errors: errs}
	}
	return p, nil
}

// normalizeCategories maps raw YAML type names ("none", "MW") onto categories.
func normalizeCategories(p *ir.Platform) {
	for name, def := range p.Instructions {
		def.Category = ir.ParseCategory(string(def.Category))
		p.Instructions[name] = def
	}
}

// LoadProgram reads a program file and resolves it against the platform.
func LoadProgram(path string, p *ir.Platform) (*Program, []ir.Instruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read program: %w", err)
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, nil, err
	}

	var prog *Program
	switch format {
	case FormatCUE, FormatJSON:
		var v cue.Value
		if v, err = compileBytes(data, path); err == nil {
			prog, err = CompileProgram(v)
		}
	case FormatYAML:
		prog = &Program{}
		err = decodeYAML(data, prog)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("compile program %s: %w", path, err)
	}
	if prog.Name == "" {
		prog.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	instructions, errs := Resolve(prog, p)
	if len(errs) > 0 {
		return nil, nil, &PlatformError{Path: path, Errors: errs}
	}
	return prog, instructions, nil
}

// PlatformError collects the validation errors of one descriptor file.
type PlatformError struct {
	Path   string
	Errors []ValidationError
}

func (e *PlatformError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d validation error(s)", e.Path, len(e.Errors))
	for _, ve := range e.Errors {
		b.WriteString("\n  ")
		b.WriteString(ve.Error())
	}
	return b.String()
}

// HasCode reports whether err carries a validation error with the given code.
func HasCode(err error, code string) bool {
	var pe *PlatformError
	if !errors.As(err, &pe) {
		return false
	}
	for _, ve := range pe.Errors {
		if ve.Code == code {
			return true
		}
	}
	return false
}

func compileBytes(data []byte, filename string) (cue.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Validate(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return v, nil
}

// decodeYAML decodes strictly: unknown keys are errors.
func decodeYAML(data []byte, out any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty document")
		}
		return err
	}
	return nil
}
