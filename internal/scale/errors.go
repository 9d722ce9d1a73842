package scale

import (
	"errors"
	"fmt"

	"github.com/san-kum/odescale/internal/expr"
)

// Rescaling failures. A zero or near-zero maximum means the scale
// factor would be infinite; that is a precondition violation, never
// silently absorbed.
var (
	// ErrZeroMaximum indicates a peak of zero (or below the positivity
	// threshold) for a state variable.
	ErrZeroMaximum = errors.New("scale: maximum is zero")

	// ErrBadMaximum indicates a negative or non-finite peak value.
	ErrBadMaximum = errors.New("scale: maximum is negative or non-finite")

	// ErrMissingMaximum indicates no peak was supplied for a state
	// variable.
	ErrMissingMaximum = errors.New("scale: maximum missing for state variable")

	// ErrBadScaleFactor indicates max_scale_factor < 1, which would
	// not shrink the trajectory.
	ErrBadScaleFactor = errors.New("scale: max_scale_factor must be >= 1")

	// ErrShapeMismatch indicates a trajectory whose dimension does not
	// match the model.
	ErrShapeMismatch = errors.New("scale: trajectory does not match model")
)

// ScalingError identifies the symbol and numeric value that made a
// rescale impossible.
type ScalingError struct {
	Symbol expr.Symbol
	Value  float64
	Err    error
}

func (e *ScalingError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("%v (symbol %q, value %v)", e.Err, e.Symbol, e.Value)
	}
	return fmt.Sprintf("%v (value %v)", e.Err, e.Value)
}

func (e *ScalingError) Unwrap() error { return e.Err }
