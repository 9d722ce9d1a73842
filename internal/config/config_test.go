package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/odescale/internal/expr"
)

const rosslerYAML = `
states: [x, y, z]
equations:
  x: -y - z
  y: x + a*y
  z: b + z*(x - c)
parameters: {a: 0.2, b: 0.2, c: 5.7}
initial: [1, 0, 0]
span: [0, 25]
max_scale_factor: 1.01
solver:
  method: rk45
  rtol: 1e-9
  jitter: 0.5
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(rosslerYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := p.Model.Indep(); got != "t" {
		t.Errorf("independent variable = %q, want default t", got)
	}
	if p.Model.Dim() != 3 {
		t.Fatalf("dimension = %d, want 3", p.Model.Dim())
	}
	if p.Span.T0 != 0 || p.Span.TF != 25 {
		t.Errorf("span = %v, want [0, 25]", p.Span)
	}
	if p.MaxScaleFactor != 1.01 {
		t.Errorf("max_scale_factor = %v, want 1.01", p.MaxScaleFactor)
	}
	if p.Opts.Method != "rk45" || p.Opts.Rtol != 1e-9 {
		t.Errorf("solver options = %+v", p.Opts)
	}
	if p.Opts.Extra["jitter"] != 0.5 {
		t.Errorf("unrecognized solver key not preserved: %v", p.Opts.Extra)
	}

	// Equations parse against the states list order.
	rhs := p.Model.RHS()
	if got := rhs[0].String(); got != "-y - z" {
		t.Errorf("rhs[0] = %q", got)
	}
	dy := make([]float64, 3)
	p.Model.Func()(0, []float64{1, 0, 0}, dy)
	if dy[2] != 0.2+0*(1-5.7) {
		t.Errorf("z' at y0 = %v, want 0.2", dy[2])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing equation",
			"states: [x, y]\nequations: {x: y}\ninitial: [1, 0]\nspan: [0, 1]\n",
			"no equation"},
		{"orphan equation",
			"states: [x]\nequations: {x: x, q: x}\ninitial: [1]\nspan: [0, 1]\n",
			"no matching state"},
		{"bad span",
			"states: [x]\nequations: {x: x}\ninitial: [1]\nspan: [0]\n",
			"span"},
		{"unparseable equation",
			"states: [x]\nequations: {x: 'x +'}\ninitial: [1]\nspan: [0, 1]\n",
			"equation for"},
		{"not yaml",
			"{{{{", "config:"},
	}

	for _, tt := range tests {
		_, err := Parse([]byte(tt.yaml))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %q, want substring %q", tt.name, err, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	p, err := Parse([]byte(rosslerYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	path := filepath.Join(t.TempDir(), "rossler.yaml")
	if err := Save(path, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if back.Model.Fingerprint() != p.Model.Fingerprint() {
		t.Error("model changed across save/load")
	}
	if back.MaxScaleFactor != p.MaxScaleFactor {
		t.Errorf("max_scale_factor = %v, want %v", back.MaxScaleFactor, p.MaxScaleFactor)
	}
	for i := range p.Y0 {
		if back.Y0[i] != p.Y0[i] {
			t.Errorf("initial[%d] = %v, want %v", i, back.Y0[i], p.Y0[i])
		}
	}
	if back.Opts.Extra["jitter"] != 0.5 {
		t.Errorf("extra solver key lost: %v", back.Opts.Extra)
	}
}

func TestPresets(t *testing.T) {
	if len(ListPresets()) == 0 {
		t.Fatal("no built-in systems")
	}
	for name, doc := range Presets {
		p, err := doc.Problem()
		if err != nil {
			t.Errorf("preset %s: %v", name, err)
			continue
		}
		if p.Model.Dim() != len(doc.States) {
			t.Errorf("preset %s: dimension %d, want %d", name, p.Model.Dim(), len(doc.States))
		}
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestDefaultIndependent(t *testing.T) {
	doc := GetPreset("oscillator")
	p, err := doc.Problem()
	if err != nil {
		t.Fatalf("Problem: %v", err)
	}
	if p.Model.Indep() != expr.Symbol("t") {
		t.Errorf("independent = %q, want t", p.Model.Indep())
	}
}
