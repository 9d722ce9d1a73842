package deq

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/odescale/internal/expr"
)

// Model is an immutable symbolic ODE system dy/dt = f(t, y).
//
// State variables are ordered; the i-th right-hand side defines the
// derivative of the i-th state variable, and initial-value vectors use
// the same index correspondence.
type Model struct {
	indep  expr.Symbol
	states []expr.Symbol
	rhs    []expr.Expr
	params map[expr.Symbol]float64
	index  map[expr.Symbol]int
}

// NewModel validates and constructs a model. Every symbol referenced
// by a right-hand side must be the independent variable, a state
// variable, or a key of params; violations return a
// *ConfigurationError.
func NewModel(indep expr.Symbol, states []expr.Symbol, rhs []expr.Expr, params map[expr.Symbol]float64) (*Model, error) {
	if len(states) == 0 {
		return nil, &ConfigurationError{Err: ErrEmptySystem}
	}
	if len(states) != len(rhs) {
		return nil, &ConfigurationError{
			Err:    ErrCountMismatch,
			Detail: fmt.Sprintf("%d state variables, %d right-hand sides", len(states), len(rhs)),
		}
	}

	index := make(map[expr.Symbol]int, len(states))
	for i, s := range states {
		if s == indep {
			return nil, &ConfigurationError{Symbol: s, Err: ErrDuplicateSymbol, Detail: "state variable shadows independent variable"}
		}
		if _, dup := index[s]; dup {
			return nil, &ConfigurationError{Symbol: s, Err: ErrDuplicateSymbol, Detail: "state variable listed twice"}
		}
		if _, isParam := params[s]; isParam {
			return nil, &ConfigurationError{Symbol: s, Err: ErrDuplicateSymbol, Detail: "state variable also bound as parameter"}
		}
		index[s] = i
	}
	if _, ok := params[indep]; ok {
		return nil, &ConfigurationError{Symbol: indep, Err: ErrDuplicateSymbol, Detail: "independent variable also bound as parameter"}
	}

	for i, e := range rhs {
		for sym := range expr.FreeSymbols(e) {
			if sym == indep {
				continue
			}
			if _, ok := index[sym]; ok {
				continue
			}
			if _, ok := params[sym]; ok {
				continue
			}
			return nil, &ConfigurationError{
				Symbol: sym,
				Expr:   e.String(),
				Err:    ErrUnboundSymbol,
				Detail: fmt.Sprintf("right-hand side of %s", states[i]),
			}
		}
	}

	m := &Model{
		indep:  indep,
		states: append([]expr.Symbol(nil), states...),
		rhs:    append([]expr.Expr(nil), rhs...),
		params: make(map[expr.Symbol]float64, len(params)),
		index:  index,
	}
	for k, v := range params {
		m.params[k] = v
	}
	return m, nil
}

// Indep returns the independent variable symbol.
func (m *Model) Indep() expr.Symbol { return m.indep }

// States returns the ordered state variables.
func (m *Model) States() []expr.Symbol {
	return append([]expr.Symbol(nil), m.states...)
}

// Dim returns the number of state variables.
func (m *Model) Dim() int { return len(m.states) }

// StateIndex returns the vector index of a state variable, or -1.
func (m *Model) StateIndex(s expr.Symbol) int {
	if i, ok := m.index[s]; ok {
		return i
	}
	return -1
}

// RHS returns the ordered right-hand-side expressions.
func (m *Model) RHS() []expr.Expr {
	return append([]expr.Expr(nil), m.rhs...)
}

// Params returns a copy of the parameter bindings.
func (m *Model) Params() map[expr.Symbol]float64 {
	out := make(map[expr.Symbol]float64, len(m.params))
	for k, v := range m.params {
		out[k] = v
	}
	return out
}

// Bound returns the right-hand sides with parameters substituted by
// their numeric values, leaving expressions only in the independent
// and state variables.
func (m *Model) Bound() []expr.Expr {
	subs := make(map[expr.Symbol]expr.Expr, len(m.params))
	for k, v := range m.params {
		subs[k] = expr.C(v)
	}
	bound := make([]expr.Expr, len(m.rhs))
	for i, e := range m.rhs {
		bound[i] = e.Substitute(subs)
	}
	return bound
}

// Func returns the numeric derivative function f(t, y, dy) used by the
// solver. Parameters are substituted once up front; each call then
// binds only the independent variable and the state vector.
//
// The closure reuses an internal environment and must not be shared
// between goroutines.
func (m *Model) Func() func(t float64, y, dy []float64) {
	bound := m.Bound()
	env := make(expr.Env, len(m.states)+1)
	states := m.states
	indep := m.indep
	return func(t float64, y, dy []float64) {
		env[indep] = t
		for i, s := range states {
			env[s] = y[i]
		}
		for i, e := range bound {
			dy[i] = e.Eval(env)
		}
	}
}

// Eval computes the derivative vector at (t, y). It is the allocating
// convenience form of [Model.Func].
func (m *Model) Eval(t float64, y []float64) []float64 {
	dy := make([]float64, len(m.states))
	m.Func()(t, y, dy)
	return dy
}

// Fingerprint returns a stable hash of the model's full symbolic
// content. Caches of computed maxima key on it, which keeps
// memoization outside the value type itself.
func (m *Model) Fingerprint() string {
	var b strings.Builder
	b.WriteString(string(m.indep))
	b.WriteByte('\n')
	for i, s := range m.states {
		fmt.Fprintf(&b, "%s' = %s\n", s, m.rhs[i])
	}
	names := make([]string, 0, len(m.params))
	for k := range m.params {
		names = append(names, string(k))
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(&b, "%s = %v\n", n, m.params[expr.Symbol(n)])
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
