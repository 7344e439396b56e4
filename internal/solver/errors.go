package solver

import (
	"errors"
	"fmt"
)

// ErrNonFiniteState indicates NaN or Inf values in the envelope or density
// at commit time. The run cannot continue past this point.
var ErrNonFiniteState = errors.New("solver: non-finite state (NaN or Inf detected)")

// StepError wraps a failure with the propagation step it occurred at.
type StepError struct {
	Step    int
	Z       float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (z=%.4g): %v", e.Step, e.Z, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
