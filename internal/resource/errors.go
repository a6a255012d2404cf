package resource

import (
	"errors"
	"fmt"

	"github.com/roach88/qsched/internal/ir"
)

// ErrorCode categorizes resource errors.
type ErrorCode string

const (
	// ErrCodeUnmodeledResource indicates a platform declares a kind the manager cannot build.
	ErrCodeUnmodeledResource ErrorCode = "UNMODELED_RESOURCE"

	// ErrCodeDuplicateResource indicates a platform declares the same kind twice.
	ErrCodeDuplicateResource ErrorCode = "DUPLICATE_RESOURCE"

	// ErrCodeDuplicateEdge indicates a qubit pair or edge id is defined twice in the topology.
	ErrCodeDuplicateEdge ErrorCode = "DUPLICATE_EDGE"

	// ErrCodeInvalidConnection indicates a connection map or topology references
	// a unit, edge or qubit outside its declared range.
	ErrCodeInvalidConnection ErrorCode = "INVALID_CONNECTION"

	// ErrCodeIllegalEdge indicates a flux instruction on a qubit pair with no coupling edge.
	ErrCodeIllegalEdge ErrorCode = "ILLEGAL_EDGE"

	// ErrCodeInvalidOperand indicates an operand outside the platform's qubits or a
	// wrong operand count for the instruction's category.
	ErrCodeInvalidOperand ErrorCode = "INVALID_OPERAND"
)

// Error is a configuration or usage error raised by the oracle.
//
// Configuration errors are returned by New; usage errors by Available, Reserve
// and Validate. Neither is recoverable for the current scheduling pass.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Resource is the resource kind that raised the error.
	Resource ir.ResourceKind

	// Instruction is the offending instruction name (usage errors only).
	Instruction string

	// Operands are the offending qubits (usage errors only).
	Operands []int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Instruction != "" {
		return fmt.Sprintf("%s: %s (resource=%s, instruction=%s, operands=%v)",
			e.Code, e.Message, e.Resource, e.Instruction, e.Operands)
	}
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s (resource=%s)", e.Code, e.Message, e.Resource)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConfigError returns true if err is a platform configuration error.
// Uses errors.As to handle wrapped errors.
func IsConfigError(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		switch re.Code {
		case ErrCodeUnmodeledResource, ErrCodeDuplicateResource, ErrCodeDuplicateEdge, ErrCodeInvalidConnection:
			return true
		}
	}
	return false
}

// IsUsageError returns true if err was raised by a query or reservation.
func IsUsageError(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeIllegalEdge || re.Code == ErrCodeInvalidOperand
	}
	return false
}

// IsIllegalEdge returns true if err reports a qubit pair with no coupling edge.
func IsIllegalEdge(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeIllegalEdge
	}
	return false
}

// NewUnmodeledResourceError creates an Error for an unknown resource kind.
func NewUnmodeledResourceError(kind ir.ResourceKind) *Error {
	return &Error{
		Code:     ErrCodeUnmodeledResource,
		Message:  fmt.Sprintf("un-modeled resource %q", string(kind)),
		Resource: kind,
	}
}

// NewIllegalEdgeError creates an Error for a flux instruction on an undeclared pair.
func NewIllegalEdgeError(ins ir.Instruction, src, dst int) *Error {
	return &Error{
		Code:        ErrCodeIllegalEdge,
		Message:     fmt.Sprintf("use of illegal edge %d->%d", src, dst),
		Resource:    ir.KindEdges,
		Instruction: ins.Name,
		Operands:    []int{src, dst},
	}
}

func newConnectionError(kind ir.ResourceKind, format string, args ...any) *Error {
	return &Error{
		Code:     ErrCodeInvalidConnection,
		Message:  fmt.Sprintf(format, args...),
		Resource: kind,
	}
}

func newOperandError(kind ir.ResourceKind, ins ir.Instruction, format string, args ...any) *Error {
	return &Error{
		Code:        ErrCodeInvalidOperand,
		Message:     fmt.Sprintf(format, args...),
		Resource:    kind,
		Instruction: ins.Name,
		Operands:    append([]int(nil), ins.Operands...),
	}
}
