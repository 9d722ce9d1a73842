package scale

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/odescale/internal/deq"
	"github.com/san-kum/odescale/internal/expr"
)

func twoVarModel(t *testing.T) *deq.Model {
	t.Helper()
	m, err := deq.NewModel("t",
		[]expr.Symbol{"x", "y"},
		[]expr.Expr{expr.V("y"), expr.Neg(expr.V("x"))},
		nil,
	)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func TestDetermineMax(t *testing.T) {
	m := twoVarModel(t)
	traj := &deq.Trajectory{
		Times: []float64{0, 1, 2, 3},
		States: [][]float64{
			{0.5, -0.1},
			{-2.5, 0.3},
			{1.0, -0.3}, // |y| ties with the previous sample
			{2.5, 0.0},  // |x| ties with sample 1
		},
	}

	maxima, err := DetermineMax(m, traj)
	if err != nil {
		t.Fatalf("DetermineMax: %v", err)
	}

	if len(maxima) != 2 {
		t.Fatalf("expected one entry per state variable, got %d", len(maxima))
	}
	if maxima["x"] != 2.5 {
		t.Errorf("maxima[x] = %v, want 2.5", maxima["x"])
	}
	if maxima["y"] != 0.3 {
		t.Errorf("maxima[y] = %v, want 0.3", maxima["y"])
	}
}

func TestDetermineMaxShapeMismatch(t *testing.T) {
	m := twoVarModel(t)

	tests := []struct {
		name string
		traj *deq.Trajectory
	}{
		{"empty", &deq.Trajectory{}},
		{"wrong dimension", &deq.Trajectory{
			Times:  []float64{0},
			States: [][]float64{{1, 2, 3}},
		}},
	}
	for _, tt := range tests {
		if _, err := DetermineMax(m, tt.traj); !errors.Is(err, ErrShapeMismatch) {
			t.Errorf("%s: err = %v, want ErrShapeMismatch", tt.name, err)
		}
	}
}

func TestFactors(t *testing.T) {
	m := twoVarModel(t)

	factors, err := Factors(m, MaximaMap{"x": 10.0, "y": 0.5}, 1.0)
	if err != nil {
		t.Fatalf("Factors: %v", err)
	}
	if factors["x"] != 0.1 || factors["y"] != 2.0 {
		t.Errorf("factors = %v, want x:0.1 y:2", factors)
	}

	// The safety margin scales every factor down.
	factors, err = Factors(m, MaximaMap{"x": 10.0, "y": 0.5}, 2.0)
	if err != nil {
		t.Fatalf("Factors with margin: %v", err)
	}
	if factors["x"] != 0.05 || factors["y"] != 1.0 {
		t.Errorf("factors with margin = %v, want x:0.05 y:1", factors)
	}
}

func TestFactorsRejectsBadInput(t *testing.T) {
	m := twoVarModel(t)
	good := MaximaMap{"x": 1, "y": 1}

	tests := []struct {
		name   string
		maxima MaximaMap
		k      float64
		want   error
	}{
		{"zero maximum", MaximaMap{"x": 0, "y": 1}, 1, ErrZeroMaximum},
		{"negative maximum", MaximaMap{"x": -2, "y": 1}, 1, ErrBadMaximum},
		{"nan maximum", MaximaMap{"x": math.NaN(), "y": 1}, 1, ErrBadMaximum},
		{"inf maximum", MaximaMap{"x": math.Inf(1), "y": 1}, 1, ErrBadMaximum},
		{"missing entry", MaximaMap{"x": 1}, 1, ErrMissingMaximum},
		{"margin below one", good, 0.5, ErrBadScaleFactor},
	}

	for _, tt := range tests {
		_, err := Factors(m, tt.maxima, tt.k)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
		var sErr *ScalingError
		if !errors.As(err, &sErr) {
			t.Errorf("%s: error is not *ScalingError", tt.name)
		}
	}
}

func TestCacheMemoizes(t *testing.T) {
	m := twoVarModel(t)
	p, err := deq.NewProblem(m, deq.Span{T0: 0, TF: 1}, []float64{1, 0}, deq.Options{}, 1)
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}

	cache := NewCache()
	first, err := cache.Maxima(context.Background(), p)
	if err != nil {
		t.Fatalf("Maxima: %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("cache size = %d, want 1", cache.Len())
	}

	// Corrupting the returned map must not poison the cache.
	first["x"] = -999

	second, err := cache.Maxima(context.Background(), p)
	if err != nil {
		t.Fatalf("Maxima (cached): %v", err)
	}
	if second["x"] == -999 {
		t.Error("cache handed out its internal map")
	}
	if cache.Len() != 1 {
		t.Errorf("cache size after hit = %d, want 1", cache.Len())
	}
}
