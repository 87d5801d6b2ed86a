package engine

import (
	"errors"
	"fmt"
)

// DefaultMaxCascadeDepth is the default maximum number of steps in one
// cascade. A resolver that always answers with another message would
// otherwise keep the line busy forever and starve every producer.
const DefaultMaxCascadeDepth = 1000

// depthQuota tracks how deep the current cascade has gone.
//
// One quota exists per top-level message; it is created by the driver and
// threaded through the recursion, so it is only ever touched by the line.
type depthQuota struct {
	limit   int // <= 0 disables the bound
	current int
}

func newDepthQuota(limit int) *depthQuota {
	return &depthQuota{limit: limit}
}

// Check counts one more step and validates it against the limit.
func (q *depthQuota) Check(engineID string) error {
	q.current++
	if q.limit > 0 && q.current > q.limit {
		return &CascadeLimitError{
			EngineID: engineID,
			Depth:    q.current,
			Limit:    q.limit,
		}
	}
	return nil
}

// Current returns the number of steps taken so far.
func (q *depthQuota) Current() int {
	return q.current
}

// CascadeLimitError is returned when one cascade exceeds the depth limit.
// The engine wraps it in a RuntimeError with code CASCADE_LIMIT and stops
// the processing line.
type CascadeLimitError struct {
	EngineID string
	Depth    int
	Limit    int
}

// Error implements the error interface.
func (e *CascadeLimitError) Error() string {
	return fmt.Sprintf("engine %s cascade exceeded max depth: %d steps > %d limit",
		e.EngineID, e.Depth, e.Limit)
}

// IsCascadeLimitError returns true if err is a CascadeLimitError.
// Uses errors.As to handle wrapped errors.
func IsCascadeLimitError(err error) bool {
	var ce *CascadeLimitError
	return errors.As(err, &ce)
}
