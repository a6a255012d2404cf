package engine

import "sync/atomic"

// Clock is a monotonic logical clock that stamps placements in commit order.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
// It equals the number of sequence numbers handed out so far.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
