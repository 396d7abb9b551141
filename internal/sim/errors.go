package sim

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidState indicates the plant state went NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates a state or control of the wrong length.
	ErrDimensionMismatch = errors.New("sim: dimension mismatch between state and model")

	// ErrInvalidStep indicates a non-positive step size.
	ErrInvalidStep = errors.New("sim: step size must be positive")
)

// StepError wraps an error with the simulated time it occurred at.
type StepError struct {
	Step    int
	Time    time.Duration
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%v): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
