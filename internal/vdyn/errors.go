package vdyn

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidTimestep indicates a non-finite or non-positive dt.
	ErrInvalidTimestep = errors.New("vdyn: invalid timestep (non-finite or non-positive dt)")

	// ErrUnknownModel indicates a registry miss. Recoverable: callers
	// fall back or surface the id to the user.
	ErrUnknownModel = errors.New("vdyn: unknown model")
)

// StepError wraps an error with the tick it occurred on.
type StepError struct {
	Time    float64
	Step    int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
