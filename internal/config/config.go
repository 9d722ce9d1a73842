package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/odescale/internal/deq"
	"github.com/san-kum/odescale/internal/expr"
	"github.com/san-kum/odescale/internal/solve"
)

// Document is the on-disk YAML form of a problem:
//
//	independent: t
//	states: [x, y, z]
//	equations:
//	  x: -y - z
//	  y: x + a*y
//	  z: b + z*(x - c)
//	parameters: {a: 0.2, b: 0.2, c: 5.7}
//	initial: [1, 0, 0]
//	span: [0, 25]
//	max_scale_factor: 1.0
//	solver:
//	  method: rk45
//	  rtol: 1e-9
//
// Equation order follows the states list; equations are keyed by state
// name so files stay readable as systems grow.
type Document struct {
	Independent    string             `yaml:"independent,omitempty"`
	States         []string           `yaml:"states"`
	Equations      map[string]string  `yaml:"equations"`
	Parameters     map[string]float64 `yaml:"parameters,omitempty"`
	Initial        []float64          `yaml:"initial"`
	Span           []float64          `yaml:"span"`
	MaxScaleFactor float64            `yaml:"max_scale_factor,omitempty"`
	Solver         map[string]any     `yaml:"solver,omitempty"`
}

// Load reads and validates a problem file.
func Load(path string) (*deq.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse builds a validated problem from YAML bytes.
func Parse(data []byte) (*deq.Problem, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return doc.Problem()
}

// Problem converts the document into a validated [deq.Problem].
func (doc *Document) Problem() (*deq.Problem, error) {
	if doc.Independent == "" {
		doc.Independent = "t"
	}
	if len(doc.Span) != 2 {
		return nil, fmt.Errorf("config: span must be [t0, tf], got %v", doc.Span)
	}

	states := make([]expr.Symbol, len(doc.States))
	rhs := make([]expr.Expr, len(doc.States))
	for i, name := range doc.States {
		src, ok := doc.Equations[name]
		if !ok {
			return nil, fmt.Errorf("config: no equation for state variable %q", name)
		}
		e, err := expr.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("config: equation for %q: %w", name, err)
		}
		states[i] = expr.Symbol(name)
		rhs[i] = e
	}
	for name := range doc.Equations {
		if !containsName(doc.States, name) {
			return nil, fmt.Errorf("config: equation for %q has no matching state variable", name)
		}
	}

	params := make(map[expr.Symbol]float64, len(doc.Parameters))
	for k, v := range doc.Parameters {
		params[expr.Symbol(k)] = v
	}

	model, err := deq.NewModel(expr.Symbol(doc.Independent), states, rhs, params)
	if err != nil {
		return nil, err
	}

	opts, err := solve.OptionsFromMap(doc.Solver)
	if err != nil {
		return nil, err
	}

	return deq.NewProblem(model,
		deq.Span{T0: doc.Span[0], TF: doc.Span[1]},
		doc.Initial, opts, doc.MaxScaleFactor)
}

// FromProblem renders a problem back into document form, used to write
// out rescaled systems. The resulting document parses back into an
// equivalent problem.
func FromProblem(p *deq.Problem) *Document {
	m := p.Model
	states := m.States()
	rhs := m.RHS()

	doc := &Document{
		Independent:    string(m.Indep()),
		States:         make([]string, len(states)),
		Equations:      make(map[string]string, len(states)),
		Initial:        append([]float64(nil), p.Y0...),
		Span:           []float64{p.Span.T0, p.Span.TF},
		MaxScaleFactor: p.MaxScaleFactor,
	}
	for i, s := range states {
		doc.States[i] = string(s)
		doc.Equations[string(s)] = rhs[i].String()
	}
	if params := m.Params(); len(params) > 0 {
		doc.Parameters = make(map[string]float64, len(params))
		for k, v := range params {
			doc.Parameters[string(k)] = v
		}
	}
	if solver := solve.OptionsToMap(p.Opts); len(solver) > 0 {
		doc.Solver = solver
	}
	return doc
}

// Save writes a problem file.
func Save(path string, p *deq.Problem) error {
	data, err := yaml.Marshal(FromProblem(p))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
