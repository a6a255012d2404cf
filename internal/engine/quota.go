package engine

import "fmt"

// DefaultMaxStall is the default number of cycles an instruction may be
// pushed past its earliest data-ready cycle before scheduling gives up.
const DefaultMaxStall int64 = 1 << 20

// StallQuota bounds the start-cycle search for one instruction.
//
// Every busy-until value is finite, so a search always terminates; the quota
// turns a pathological platform (huge durations, tiny cycle time) into an
// error instead of a long loop.
type StallQuota struct {
	maxStall int64
}

// NewStallQuota creates a quota allowing maxStall cycles of delay.
func NewStallQuota(maxStall int64) *StallQuota {
	return &StallQuota{maxStall: maxStall}
}

// Check validates that cycle is within the quota measured from ready.
//
// Returns StallError if the quota is exceeded.
func (q *StallQuota) Check(index int, name string, ready, cycle int64) error {
	if cycle-ready > q.maxStall {
		return &StallError{
			Index:       index,
			Instruction: name,
			Ready:       ready,
			Limit:       q.maxStall,
		}
	}
	return nil
}

// MaxStall returns the quota.
func (q *StallQuota) MaxStall() int64 {
	return q.maxStall
}

// StallError is returned when no conflict-free start cycle exists within the
// stall quota.
type StallError struct {
	Index       int    // Program position of the instruction
	Instruction string // Instruction name
	Ready       int64  // Earliest data-ready cycle
	Limit       int64  // Maximum allowed delay
}

// Error implements the error interface.
func (e *StallError) Error() string {
	return fmt.Sprintf("instruction %s (index %d) found no free cycle within %d cycles of %d",
		e.Instruction, e.Index, e.Limit, e.Ready)
}
