package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while scheduling.
//
// Runtime errors include:
//   - Stall limit: an instruction found no free start cycle within the quota
//   - Invalid instruction: the resource manager rejected an instruction
//   - Hash failure: the platform or program could not be content-hashed
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Index is the program position of the offending instruction, or -1.
	Index int

	// Instruction names the offending instruction.
	Instruction string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeStallLimit indicates an instruction could not be placed within the stall quota.
	ErrCodeStallLimit RuntimeErrorCode = "STALL_LIMIT"

	// ErrCodeInvalidInstruction indicates the resource manager rejected an instruction.
	ErrCodeInvalidInstruction RuntimeErrorCode = "INVALID_INSTRUCTION"

	// ErrCodeHash indicates a content hash could not be computed.
	ErrCodeHash RuntimeErrorCode = "HASH_FAILED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Instruction != "" {
		msg = fmt.Sprintf("%s (instruction=%s, index=%d)", msg, e.Instruction, e.Index)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsInvalidInstruction returns true if the error is an invalid instruction error.
// Uses errors.As to handle wrapped errors.
func IsInvalidInstruction(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeInvalidInstruction
	}
	return false
}

// IsStallError returns true if the error is a stall limit error.
// Matches both RuntimeError with ErrCodeStallLimit and StallError.
// Uses errors.As to handle wrapped errors.
func IsStallError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) && re.Code == ErrCodeStallLimit {
		return true
	}
	var se *StallError
	return errors.As(err, &se)
}

func newInvalidInstructionError(index int, name string, err error) *RuntimeError {
	return &RuntimeError{
		Code:        ErrCodeInvalidInstruction,
		Message:     "resource manager rejected instruction",
		Index:       index,
		Instruction: name,
		Err:         err,
	}
}
