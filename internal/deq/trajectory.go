package deq

import "math"

// Trajectory is a discretely sampled numeric solution: one state
// vector per accepted solver step, in time order. It is a transient
// product of integration, consumed by the maximum finder.
type Trajectory struct {
	Times  []float64
	States [][]float64
}

// Len returns the number of samples.
func (tr *Trajectory) Len() int { return len(tr.Times) }

// Dim returns the state dimension, 0 for an empty trajectory.
func (tr *Trajectory) Dim() int {
	if len(tr.States) == 0 {
		return 0
	}
	return len(tr.States[0])
}

// Component extracts the time series of the i-th state variable.
func (tr *Trajectory) Component(i int) []float64 {
	out := make([]float64, len(tr.States))
	for k, s := range tr.States {
		out[k] = s[i]
	}
	return out
}

// IsValid reports whether every sample is finite.
func (tr *Trajectory) IsValid() bool {
	for _, s := range tr.States {
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
