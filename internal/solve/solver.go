package solve

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/odescale/internal/deq"
)

// Integrate solves dy/dt = f(t, y) for the given model over span,
// starting from y0, and returns the sampled trajectory. The method and
// tolerances come from opts (see [deq.Options]); zero-valued fields
// take solver defaults.
//
// The context is checked between steps; canceling it aborts a
// long-running integration without corrupting anything, since models
// are immutable.
func Integrate(ctx context.Context, m *deq.Model, y0 []float64, span deq.Span, opts deq.Options) (*deq.Trajectory, error) {
	if span.T0 >= span.TF || math.IsNaN(span.T0) || math.IsNaN(span.TF) {
		return nil, &deq.ConfigurationError{
			Err:    deq.ErrBadSpan,
			Detail: fmt.Sprintf("(%v, %v)", span.T0, span.TF),
		}
	}
	if len(y0) != m.Dim() {
		return nil, &deq.ConfigurationError{
			Err:    deq.ErrCountMismatch,
			Detail: fmt.Sprintf("%d initial values for %d state variables", len(y0), m.Dim()),
		}
	}

	opts = opts.WithDefaults()
	switch opts.Method {
	case deq.MethodRK45:
		return integrateAdaptive(ctx, m, y0, span, opts)
	case deq.MethodRK4:
		return integrateFixed(ctx, m, y0, span, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, opts.Method)
	}
}

// Solve integrates a problem using its own stored span, initial values
// and options.
func Solve(ctx context.Context, p *deq.Problem) (*deq.Trajectory, error) {
	return Integrate(ctx, p.Model, p.Y0, p.Span, p.Opts)
}

func integrateAdaptive(ctx context.Context, m *deq.Model, y0 []float64, span deq.Span, opts deq.Options) (*deq.Trajectory, error) {
	n := m.Dim()
	stepper := newRK45(m.Func(), n)

	t := span.T0
	y := append([]float64(nil), y0...)
	dt := math.Min(opts.InitialStep, span.Length())

	traj := &deq.Trajectory{
		Times:  []float64{t},
		States: [][]float64{append([]float64(nil), y...)},
	}

	// Stop once the remainder of the span is negligible relative to
	// its length; the last step is clamped to land exactly on TF.
	tiny := 1e-14 * span.Length()

	for attempt := 0; span.TF-t > tiny; attempt++ {
		if attempt >= opts.MaxSteps {
			return nil, &IntegrationError{Time: t, Step: attempt, Err: ErrTooManySteps}
		}
		select {
		case <-ctx.Done():
			return nil, &IntegrationError{Time: t, Step: attempt, Err: ctx.Err()}
		default:
		}

		final := t+dt >= span.TF
		if final {
			dt = span.TF - t
		}

		yNew, errRatio := stepper.step(t, y, dt, opts.Atol, opts.Rtol)
		if !finite(yNew) || math.IsNaN(errRatio) {
			return nil, &IntegrationError{Time: t, Step: attempt, Err: ErrNonFinite}
		}

		if errRatio <= 1 {
			if final {
				t = span.TF
			} else {
				t += dt
			}
			copy(y, yNew)
			traj.Times = append(traj.Times, t)
			traj.States = append(traj.States, append([]float64(nil), y...))
		}

		dt = math.Min(nextStep(dt, errRatio), opts.MaxStep)
		if dt < opts.MinStep {
			return nil, &IntegrationError{Time: t, Step: attempt, Err: ErrStepUnderflow}
		}
	}

	return traj, nil
}

func integrateFixed(ctx context.Context, m *deq.Model, y0 []float64, span deq.Span, opts deq.Options) (*deq.Trajectory, error) {
	n := m.Dim()
	f := m.Func()

	// Snap the step so the final sample lands exactly on TF.
	steps := int(math.Ceil(span.Length() / opts.InitialStep))
	if steps < 1 {
		steps = 1
	}
	if steps > opts.MaxSteps {
		return nil, &IntegrationError{Time: span.T0, Step: 0, Err: ErrTooManySteps}
	}
	dt := span.Length() / float64(steps)

	y := append([]float64(nil), y0...)
	k1 := make([]float64, n)
	k2 := make([]float64, n)
	k3 := make([]float64, n)
	k4 := make([]float64, n)
	stage := make([]float64, n)

	traj := &deq.Trajectory{
		Times:  make([]float64, 0, steps+1),
		States: make([][]float64, 0, steps+1),
	}
	traj.Times = append(traj.Times, span.T0)
	traj.States = append(traj.States, append([]float64(nil), y...))

	for step := 0; step < steps; step++ {
		select {
		case <-ctx.Done():
			return nil, &IntegrationError{Time: traj.Times[len(traj.Times)-1], Step: step, Err: ctx.Err()}
		default:
		}

		t := span.T0 + float64(step)*dt

		f(t, y, k1)
		for i := 0; i < n; i++ {
			stage[i] = y[i] + dt*0.5*k1[i]
		}
		f(t+dt*0.5, stage, k2)
		for i := 0; i < n; i++ {
			stage[i] = y[i] + dt*0.5*k2[i]
		}
		f(t+dt*0.5, stage, k3)
		for i := 0; i < n; i++ {
			stage[i] = y[i] + dt*k3[i]
		}
		f(t+dt, stage, k4)

		dt6 := dt / 6.0
		for i := 0; i < n; i++ {
			y[i] += dt6 * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
		}
		if !finite(y) {
			return nil, &IntegrationError{Time: t + dt, Step: step, Err: ErrNonFinite}
		}

		tNext := span.T0 + float64(step+1)*dt
		if step+1 == steps {
			tNext = span.TF
		}
		traj.Times = append(traj.Times, tNext)
		traj.States = append(traj.States, append([]float64(nil), y...))
	}

	return traj, nil
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
