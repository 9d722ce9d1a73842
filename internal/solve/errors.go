package solve

import (
	"errors"
	"fmt"
)

// Solver failures. All abort the requested integration; no partial
// trajectory is returned.
var (
	// ErrNonFinite indicates the derivative or state became NaN/Inf.
	ErrNonFinite = errors.New("solve: non-finite derivative or state")

	// ErrStepUnderflow indicates the adaptive step fell below the
	// configured minimum without meeting the error tolerance.
	ErrStepUnderflow = errors.New("solve: step size underflow")

	// ErrTooManySteps indicates the step budget was exhausted before
	// reaching the end of the span.
	ErrTooManySteps = errors.New("solve: maximum step count exceeded")

	// ErrUnknownMethod indicates an unrecognized method name in the
	// solver options.
	ErrUnknownMethod = errors.New("solve: unknown integration method")
)

// IntegrationError wraps a solver failure with the time and step at
// which it occurred.
type IntegrationError struct {
	Time float64
	Step int
	Err  error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("%v (step %d, t=%.6g)", e.Err, e.Step, e.Time)
}

func (e *IntegrationError) Unwrap() error { return e.Err }
