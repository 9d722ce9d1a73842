package scale

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/odescale/internal/deq"
	"github.com/san-kum/odescale/internal/expr"
	"github.com/san-kum/odescale/internal/solve"
)

// MaximaMap records the peak absolute value observed for each state
// variable over a sampled trajectory. It is exactly the maximum over
// the discrete samples: no interpolation, first occurrence wins on
// ties, so the result is deterministic given a trajectory.
type MaximaMap map[expr.Symbol]float64

// Clone returns an independent copy.
func (mm MaximaMap) Clone() MaximaMap {
	out := make(MaximaMap, len(mm))
	for k, v := range mm {
		out[k] = v
	}
	return out
}

// DetermineMax scans a trajectory and returns one peak absolute value
// per state variable of the model, keyed by symbol.
func DetermineMax(m *deq.Model, traj *deq.Trajectory) (MaximaMap, error) {
	if traj.Len() == 0 || traj.Dim() != m.Dim() {
		return nil, fmt.Errorf("%w: %d samples of dimension %d for a %d-variable model",
			ErrShapeMismatch, traj.Len(), traj.Dim(), m.Dim())
	}

	states := m.States()
	maxima := make(MaximaMap, len(states))
	for i, s := range states {
		peak := 0.0
		for _, sample := range traj.States {
			if v := math.Abs(sample[i]); v > peak {
				peak = v
			}
		}
		maxima[s] = peak
	}
	return maxima, nil
}

// ComputeMaxima runs the full pipeline for a problem: integrate over
// its own span from its own initial values, then reduce to maxima.
func ComputeMaxima(ctx context.Context, p *deq.Problem) (MaximaMap, error) {
	traj, err := solve.Solve(ctx, p)
	if err != nil {
		return nil, err
	}
	return DetermineMax(p.Model, traj)
}
