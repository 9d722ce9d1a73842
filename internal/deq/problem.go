package deq

import (
	"fmt"
	"math"
)

// Span is the integration interval [T0, TF].
type Span struct {
	T0 float64
	TF float64
}

// Length returns TF - T0.
func (s Span) Length() float64 { return s.TF - s.T0 }

func (s Span) validate() error {
	if math.IsNaN(s.T0) || math.IsNaN(s.TF) || math.IsInf(s.T0, 0) || math.IsInf(s.TF, 0) {
		return &ConfigurationError{Err: ErrBadSpan, Detail: "non-finite endpoint"}
	}
	if s.T0 >= s.TF {
		return &ConfigurationError{Err: ErrBadSpan, Detail: fmt.Sprintf("t0 %v >= tf %v", s.T0, s.TF)}
	}
	return nil
}

// Problem is a complete initial-value problem: a model, the interval
// to integrate over, the initial state, solver options, and the
// rescaling safety margin. Problems are value objects; rescaling emits
// a new Problem and leaves the source untouched.
type Problem struct {
	Model *Model
	Span  Span
	Y0    []float64
	Opts  Options

	// MaxScaleFactor is the safety margin multiplied into computed
	// maxima before inverting, pushing rescaled peaks strictly below 1
	// despite sampling error. Must be >= 1; NewProblem defaults the
	// zero value to 1.
	MaxScaleFactor float64
}

// NewProblem validates span and initial-value shape against the model.
func NewProblem(m *Model, span Span, y0 []float64, opts Options, maxScaleFactor float64) (*Problem, error) {
	if err := span.validate(); err != nil {
		return nil, err
	}
	if len(y0) != m.Dim() {
		return nil, &ConfigurationError{
			Err:    ErrCountMismatch,
			Detail: fmt.Sprintf("%d initial values for %d state variables", len(y0), m.Dim()),
		}
	}
	for i, v := range y0 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ConfigurationError{
				Symbol: m.states[i],
				Err:    ErrBadValue,
				Detail: fmt.Sprintf("initial value %v", v),
			}
		}
	}
	if maxScaleFactor == 0 {
		maxScaleFactor = 1
	}
	return &Problem{
		Model:          m,
		Span:           span,
		Y0:             append([]float64(nil), y0...),
		Opts:           opts,
		MaxScaleFactor: maxScaleFactor,
	}, nil
}

// Clone returns a deep copy. Transforms operate on clones so the
// source problem is never mutated.
func (p *Problem) Clone() *Problem {
	return &Problem{
		Model:          p.Model, // immutable, shared
		Span:           p.Span,
		Y0:             append([]float64(nil), p.Y0...),
		Opts:           p.Opts.Clone(),
		MaxScaleFactor: p.MaxScaleFactor,
	}
}
