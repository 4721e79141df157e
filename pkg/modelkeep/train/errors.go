package train

import (
	"fmt"
)

// RoundError reports a failure inside a training round.
type RoundError struct {
	// Round is the 1-based round that failed.
	Round int
	// Err is the error returned by the round function.
	Err error
}

// Error implements the error interface.
func (e *RoundError) Error() string {
	return fmt.Sprintf("round %d: %v", e.Round, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RoundError) Unwrap() error {
	return e.Err
}

// CancellationError reports a run stopped by context cancellation.
// The run's state as of the last completed round is still returned
// alongside the error.
type CancellationError struct {
	// Round is the round that would have executed next.
	Round int
	// Cause is the context's error.
	Cause error
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancelled before round %d: %v", e.Round, e.Cause)
}

// Unwrap returns the cause for errors.Is/As support.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}
