package report

import (
	"strings"
	"testing"

	"github.com/san-kum/odescale/internal/deq"
	"github.com/san-kum/odescale/internal/expr"
	"github.com/san-kum/odescale/internal/scale"
)

func sampleProblem(t *testing.T) *deq.Problem {
	t.Helper()
	m, err := deq.NewModel("t",
		[]expr.Symbol{"x", "y"},
		[]expr.Expr{expr.MustParse("-y - a*x"), expr.MustParse("x")},
		map[expr.Symbol]float64{"a": 0.5},
	)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	p, err := deq.NewProblem(m, deq.Span{T0: 0, TF: 10}, []float64{1, 0},
		deq.Options{Method: deq.MethodRK45, Rtol: 1e-6}, 1.01)
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	return p
}

func TestShowProblem(t *testing.T) {
	p := sampleProblem(t)
	var b strings.Builder
	ShowProblem(&b, p)
	out := b.String()

	for _, want := range []string{
		"SYSTEM",
		"-y - a*x", // symbolic form
		"PARAMETERS",
		"WITH PARAMETERS SUBSTITUTED",
		"-y - 0.5*x", // bound form
		"(0, 10)",    // span
		"max scale factor",
		"1.01",
		"SOLVER",
		"rk45",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestShowMaximaFlagsOverflow(t *testing.T) {
	p := sampleProblem(t)
	var b strings.Builder
	ShowMaxima(&b, p, scale.MaximaMap{"x": 2.5, "y": 0.9})
	out := b.String()

	if !strings.Contains(out, "2.5") || !strings.Contains(out, "0.9") {
		t.Errorf("peaks missing from output:\n%s", out)
	}
	if !strings.Contains(out, "exceeds unit range") {
		t.Errorf("overflowing peak not flagged:\n%s", out)
	}
}

func TestPlotTrajectory(t *testing.T) {
	p := sampleProblem(t)

	if err := PlotTrajectory(&strings.Builder{}, p, &deq.Trajectory{}); err == nil {
		t.Error("expected error for empty trajectory")
	}

	traj := &deq.Trajectory{
		Times:  []float64{0, 1, 2},
		States: [][]float64{{0, 0}, {1, 0.5}, {0, 1}},
	}
	var b strings.Builder
	if err := PlotTrajectory(&b, p, traj); err != nil {
		t.Fatalf("PlotTrajectory: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "x over t") || !strings.Contains(out, "y over t") {
		t.Errorf("captions missing:\n%s", out)
	}
}
