package scale

import (
	"context"
	"math"

	"github.com/san-kum/odescale/internal/deq"
	"github.com/san-kum/odescale/internal/expr"
)

// ScaleFactorMap holds the multiplicative factor applied to each state
// variable: factor[v] = 1 / (maxima[v] * maxScaleFactor). Every factor
// is finite and strictly positive.
type ScaleFactorMap map[expr.Symbol]float64

// Factors derives scale factors from maxima. maxScaleFactor is the
// safety margin (>= 1) multiplied into each maximum before inverting.
func Factors(m *deq.Model, maxima MaximaMap, maxScaleFactor float64) (ScaleFactorMap, error) {
	if maxScaleFactor < 1 {
		return nil, &ScalingError{Value: maxScaleFactor, Err: ErrBadScaleFactor}
	}

	factors := make(ScaleFactorMap, m.Dim())
	for _, s := range m.States() {
		peak, ok := maxima[s]
		if !ok {
			return nil, &ScalingError{Symbol: s, Err: ErrMissingMaximum}
		}
		if math.IsNaN(peak) || math.IsInf(peak, 0) || peak < 0 {
			return nil, &ScalingError{Symbol: s, Value: peak, Err: ErrBadMaximum}
		}
		f := 1 / (peak * maxScaleFactor)
		if peak == 0 || math.IsInf(f, 0) {
			return nil, &ScalingError{Symbol: s, Value: peak, Err: ErrZeroMaximum}
		}
		factors[s] = f
	}
	return factors, nil
}

// Rescale produces the magnitude-rescaled equivalent of a problem.
//
// If maxima is nil, peaks are computed by integrating the problem over
// its own span from its own initial values. Callers holding maxima
// from an earlier run (or a [Cache]) pass them in to skip the
// integration; supplied maxima need not be the true peaks, in which
// case the rescaled system's peaks come out at true/supplied rather
// than 1.
//
// For each state variable v with factor f = 1/(maxima[v] * k):
//
//   - every occurrence of v in every right-hand side becomes v/f
//     (the new v is the scaled variable, bounded near [-1, 1])
//   - the right-hand side of v is multiplied by f (chain rule:
//     d(f*v)/dt = f * dv/dt)
//   - the initial value becomes f * y0[v]
//
// Span, parameters, solver options, and MaxScaleFactor carry forward
// unchanged, so the result re-instantiates the whole pipeline and can
// be rescaled again. The source problem is not modified.
func Rescale(ctx context.Context, p *deq.Problem, maxima MaximaMap) (*deq.Problem, error) {
	if maxima == nil {
		computed, err := ComputeMaxima(ctx, p)
		if err != nil {
			return nil, err
		}
		maxima = computed
	}

	factors, err := Factors(p.Model, maxima, p.MaxScaleFactor)
	if err != nil {
		return nil, err
	}

	m := p.Model
	states := m.States()

	// v -> v/factor[v], applied symbolically to the expression trees.
	subs := make(map[expr.Symbol]expr.Expr, len(states))
	for _, s := range states {
		subs[s] = expr.Mul(expr.C(1/factors[s]), expr.V(s))
	}

	rhs := m.RHS()
	newRHS := make([]expr.Expr, len(rhs))
	for i, e := range rhs {
		newRHS[i] = expr.Mul(expr.C(factors[states[i]]), e.Substitute(subs))
	}

	newModel, err := deq.NewModel(m.Indep(), states, newRHS, m.Params())
	if err != nil {
		return nil, err
	}

	newY0 := make([]float64, len(p.Y0))
	for i, s := range states {
		newY0[i] = factors[s] * p.Y0[i]
	}

	return deq.NewProblem(newModel, p.Span, newY0, p.Opts.Clone(), p.MaxScaleFactor)
}
