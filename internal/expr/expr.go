package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Symbol identifies a state variable, parameter, or the independent
// variable. Symbols compare by value and are used as map keys
// throughout the rescaling pipeline.
type Symbol string

// Env binds symbols to numeric values for evaluation.
type Env map[Symbol]float64

// Expr is a node of an immutable symbolic expression tree.
type Expr interface {
	// Eval computes the numeric value of the expression. Symbols
	// missing from env evaluate to NaN; model validation guarantees
	// this never happens for a well-formed system.
	Eval(env Env) float64

	// Substitute returns a new expression with every occurrence of
	// the given symbols replaced. The original tree is unchanged.
	Substitute(subs map[Symbol]Expr) Expr

	// Symbols adds every free symbol of the expression to set.
	Symbols(set map[Symbol]struct{})

	String() string
}

// Const is a numeric literal.
type Const float64

// Var references a symbol.
type Var Symbol

type sum struct{ terms []Expr }

type product struct{ factors []Expr }

type power struct{ base, exp Expr }

type call struct {
	fn  string
	arg Expr
}

// C wraps a float64 as a constant expression.
func C(v float64) Expr { return Const(v) }

// V wraps a name as a symbol reference.
func V(name Symbol) Expr { return Var(name) }

// Add builds a sum. Nested sums are flattened and constant terms are
// folded into a single trailing constant; term order is otherwise
// preserved so printed equations stay readable.
func Add(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	acc := 0.0
	hasConst := false
	for _, t := range terms {
		switch v := t.(type) {
		case Const:
			acc += float64(v)
			hasConst = true
		case *sum:
			for _, inner := range v.terms {
				if c, ok := inner.(Const); ok {
					acc += float64(c)
					hasConst = true
				} else {
					flat = append(flat, inner)
				}
			}
		default:
			flat = append(flat, t)
		}
	}
	if hasConst && acc != 0 {
		flat = append(flat, Const(acc))
	}
	switch len(flat) {
	case 0:
		return Const(0)
	case 1:
		return flat[0]
	}
	return &sum{terms: flat}
}

// Sub builds a - b.
func Sub(a, b Expr) Expr { return Add(a, Neg(b)) }

// Neg builds -a.
func Neg(a Expr) Expr { return Mul(Const(-1), a) }

// Mul builds a product. Nested products are flattened and constant
// factors are folded into a single leading coefficient; a zero
// coefficient collapses the whole product. This folding is what lets
// the chain-rule scale factor distribute cleanly over substituted
// right-hand sides.
func Mul(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	coeff := 1.0
	for _, f := range factors {
		switch v := f.(type) {
		case Const:
			coeff *= float64(v)
		case *product:
			for _, inner := range v.factors {
				if c, ok := inner.(Const); ok {
					coeff *= float64(c)
				} else {
					flat = append(flat, inner)
				}
			}
		default:
			flat = append(flat, f)
		}
	}
	if coeff == 0 {
		return Const(0)
	}
	if len(flat) == 0 {
		return Const(coeff)
	}
	if coeff != 1 {
		flat = append([]Expr{Const(coeff)}, flat...)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &product{factors: flat}
}

// Div builds a / b as a * b^-1.
func Div(a, b Expr) Expr { return Mul(a, Pow(b, Const(-1))) }

// Pow builds base^exp with constant folding for the trivial cases.
func Pow(base, exp Expr) Expr {
	if e, ok := exp.(Const); ok {
		if e == 0 {
			return Const(1)
		}
		if e == 1 {
			return base
		}
		if b, ok := base.(Const); ok {
			return Const(math.Pow(float64(b), float64(e)))
		}
	}
	if b, ok := base.(Const); ok && b == 1 {
		return Const(1)
	}
	return &power{base: base, exp: exp}
}

// Functions supported by Call, each mapped to its math package
// counterpart.
var functions = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"exp":  math.Exp,
	"log":  math.Log,
	"sqrt": math.Sqrt,
	"abs":  math.Abs,
	"sinh": math.Sinh,
	"cosh": math.Cosh,
	"tanh": math.Tanh,
}

// KnownFunction reports whether name is a recognized unary function.
func KnownFunction(name string) bool {
	_, ok := functions[name]
	return ok
}

// Call builds a unary function application, folding constant
// arguments. It panics on unknown names; use [KnownFunction] or the
// parser when the name comes from user input.
func Call(name string, arg Expr) Expr {
	fn, ok := functions[name]
	if !ok {
		panic(fmt.Sprintf("expr: unknown function %q", name))
	}
	if c, ok := arg.(Const); ok {
		return Const(fn(float64(c)))
	}
	return &call{fn: name, arg: arg}
}

func (c Const) Eval(Env) float64                { return float64(c) }
func (c Const) Substitute(map[Symbol]Expr) Expr { return c }
func (c Const) Symbols(map[Symbol]struct{})     {}

func (c Const) String() string {
	return strconv.FormatFloat(float64(c), 'g', -1, 64)
}

func (v Var) Eval(env Env) float64 {
	val, ok := env[Symbol(v)]
	if !ok {
		return math.NaN()
	}
	return val
}

func (v Var) Substitute(subs map[Symbol]Expr) Expr {
	if repl, ok := subs[Symbol(v)]; ok {
		return repl
	}
	return v
}

func (v Var) Symbols(set map[Symbol]struct{}) { set[Symbol(v)] = struct{}{} }
func (v Var) String() string                  { return string(v) }

func (s *sum) Eval(env Env) float64 {
	acc := 0.0
	for _, t := range s.terms {
		acc += t.Eval(env)
	}
	return acc
}

func (s *sum) Substitute(subs map[Symbol]Expr) Expr {
	terms := make([]Expr, len(s.terms))
	for i, t := range s.terms {
		terms[i] = t.Substitute(subs)
	}
	return Add(terms...)
}

func (s *sum) Symbols(set map[Symbol]struct{}) {
	for _, t := range s.terms {
		t.Symbols(set)
	}
}

func (s *sum) String() string {
	var b strings.Builder
	for i, t := range s.terms {
		part := t.String()
		if i == 0 {
			b.WriteString(part)
			continue
		}
		if rest, ok := strings.CutPrefix(part, "-"); ok && !strings.HasPrefix(rest, " ") {
			b.WriteString(" - ")
			b.WriteString(rest)
		} else {
			b.WriteString(" + ")
			b.WriteString(part)
		}
	}
	return b.String()
}

func (p *product) Eval(env Env) float64 {
	acc := 1.0
	for _, f := range p.factors {
		acc *= f.Eval(env)
	}
	return acc
}

func (p *product) Substitute(subs map[Symbol]Expr) Expr {
	factors := make([]Expr, len(p.factors))
	for i, f := range p.factors {
		factors[i] = f.Substitute(subs)
	}
	return Mul(factors...)
}

func (p *product) Symbols(set map[Symbol]struct{}) {
	for _, f := range p.factors {
		f.Symbols(set)
	}
}

func (p *product) String() string {
	parts := make([]string, 0, len(p.factors))
	for i, f := range p.factors {
		// A leading -1 coefficient prints as a sign, not a factor.
		if i == 0 && len(p.factors) > 1 {
			if c, ok := f.(Const); ok && c == -1 {
				parts = append(parts, "-")
				continue
			}
		}
		if _, ok := f.(*sum); ok {
			parts = append(parts, "("+f.String()+")")
		} else {
			parts = append(parts, f.String())
		}
	}
	if parts[0] == "-" {
		return "-" + strings.Join(parts[1:], "*")
	}
	return strings.Join(parts, "*")
}

func (p *power) Eval(env Env) float64 {
	return math.Pow(p.base.Eval(env), p.exp.Eval(env))
}

func (p *power) Substitute(subs map[Symbol]Expr) Expr {
	return Pow(p.base.Substitute(subs), p.exp.Substitute(subs))
}

func (p *power) Symbols(set map[Symbol]struct{}) {
	p.base.Symbols(set)
	p.exp.Symbols(set)
}

func (p *power) String() string {
	base := p.base.String()
	switch p.base.(type) {
	case *sum, *product, *power:
		base = "(" + base + ")"
	}
	exp := p.exp.String()
	switch p.exp.(type) {
	case *sum, *product, *power:
		exp = "(" + exp + ")"
	}
	return base + "^" + exp
}

func (c *call) Eval(env Env) float64 {
	return functions[c.fn](c.arg.Eval(env))
}

func (c *call) Substitute(subs map[Symbol]Expr) Expr {
	return Call(c.fn, c.arg.Substitute(subs))
}

func (c *call) Symbols(set map[Symbol]struct{}) { c.arg.Symbols(set) }

func (c *call) String() string { return c.fn + "(" + c.arg.String() + ")" }

// FreeSymbols collects every symbol referenced by e.
func FreeSymbols(e Expr) map[Symbol]struct{} {
	set := make(map[Symbol]struct{})
	e.Symbols(set)
	return set
}
