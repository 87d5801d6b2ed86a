package engine

import "sync/atomic"

// Sequencer hands out strictly increasing sequence numbers.
// Only the processing line calls Next.
type Sequencer interface {
	Next() int64
}

// Clock is a monotonic logical clock used to stamp snapshots.
//
// Every snapshot gets a strictly increasing Seq from the engine's clock.
// Seq orders snapshots without wall-clock time, so traces are reproducible.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// although only the processing line calls Next.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
