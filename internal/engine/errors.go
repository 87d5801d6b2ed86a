package engine

import (
	"errors"
	"fmt"
)

// ErrDisposed is matched (via errors.Is) by every error returned from an
// engine whose owning context has been cancelled or which was closed.
var ErrDisposed = errors.New("component already disposed")

// RuntimeError represents a failure of the processing line or of a call
// into a disposed engine.
//
// Runtime errors include:
//   - Initializer failure: no snapshot is produced at all
//   - Resolution failure: a resolver call failed and the line stopped
//   - Disposed: the engine's owning context ended
//   - Cascade limit: a cascade exceeded the configured depth
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// EngineID identifies the affected engine instance.
	EngineID string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeInitFailed indicates the initializer returned an error.
	ErrCodeInitFailed RuntimeErrorCode = "INIT_FAILED"

	// ErrCodeResolutionFailed indicates a resolver call returned an error.
	ErrCodeResolutionFailed RuntimeErrorCode = "RESOLUTION_FAILED"

	// ErrCodeDisposed indicates the engine's owning scope has ended.
	ErrCodeDisposed RuntimeErrorCode = "DISPOSED"

	// ErrCodeCascadeLimit indicates a cascade exceeded its depth limit.
	ErrCodeCascadeLimit RuntimeErrorCode = "CASCADE_LIMIT"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.EngineID != "" {
		msg = fmt.Sprintf("%s (engine=%s)", msg, e.EngineID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Is makes disposed runtime errors match ErrDisposed.
func (e *RuntimeError) Is(target error) bool {
	return target == ErrDisposed && e.Code == ErrCodeDisposed
}

// IsDisposed returns true if err reports a disposed engine.
func IsDisposed(err error) bool {
	return errors.Is(err, ErrDisposed)
}

// IsInitError returns true if err is an initializer failure.
func IsInitError(err error) bool {
	return hasCode(err, ErrCodeInitFailed)
}

// IsCascadeLimit returns true if err is a runtime error with code
// CASCADE_LIMIT. The *CascadeLimitError detail is reachable via errors.As.
func IsCascadeLimit(err error) bool {
	return hasCode(err, ErrCodeCascadeLimit)
}

// IsResolutionError returns true if err is a resolver failure.
func IsResolutionError(err error) bool {
	return hasCode(err, ErrCodeResolutionFailed)
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// NewDisposedError creates a RuntimeError for calls into a disposed engine.
// cause is usually the owning context's error and may be nil.
func NewDisposedError(engineID string, cause error) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeDisposed,
		Message:  "component already disposed",
		EngineID: engineID,
		Err:      cause,
	}
}

// NewInitError wraps an initializer failure.
func NewInitError(engineID string, err error) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeInitFailed,
		Message:  "initializer failed",
		EngineID: engineID,
		Err:      err,
	}
}

// NewResolutionError wraps a resolver failure.
func NewResolutionError(engineID string, err error) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeResolutionFailed,
		Message:  "command resolution failed",
		EngineID: engineID,
		Err:      err,
	}
}

// NewCascadeLimitRuntimeError wraps a *CascadeLimitError that stopped the line.
func NewCascadeLimitRuntimeError(engineID string, err error) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeCascadeLimit,
		Message:  "cascade depth exceeded",
		EngineID: engineID,
		Err:      err,
	}
}
