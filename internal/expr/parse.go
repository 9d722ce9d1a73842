package expr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parse reads an expression in infix notation: + - * / ^, parentheses,
// unary minus, float literals (including exponent form), identifiers,
// and the unary functions known to [Call]. ^ binds tightest and is
// right-associative.
func Parse(src string) (Expr, error) {
	p := &parser{src: src}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, &ParseError{Input: src, Pos: p.pos, Msg: "unexpected trailing input"}
	}
	return e, nil
}

// MustParse is Parse for expressions known to be valid, mainly tests.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

// ParseError reports where in the input parsing failed.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("expr: parse %q at offset %d: %s", e.Input, e.Pos, e.Msg)
}

type parser struct {
	src string
	pos int
}

func (p *parser) errf(format string, args ...any) error {
	return &ParseError{Input: p.src, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) parseSum() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	terms := []Expr{left}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			t, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			terms = append(terms, t)
		case '-':
			p.pos++
			t, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			terms = append(terms, Neg(t))
		default:
			return Add(terms...), nil
		}
	}
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	factors := []Expr{left}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			f, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			factors = append(factors, f)
		case '/':
			p.pos++
			f, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			factors = append(factors, Pow(f, Const(-1)))
		default:
			return Mul(factors...), nil
		}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	if p.peek() == '-' {
		p.pos++
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Neg(e), nil
	}
	if p.peek() == '+' {
		p.pos++
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.peek() != '^' {
		return base, nil
	}
	p.pos++
	// Right-associative, and the exponent may carry a unary sign.
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return Pow(base, exp), nil
}

func (p *parser) parseAtom() (Expr, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, p.errf("expected ')'")
		}
		p.pos++
		return e, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case isIdentStart(rune(c)):
		return p.parseIdent()
	case c == 0:
		return nil, p.errf("unexpected end of input")
	default:
		return nil, p.errf("unexpected character %q", c)
	}
}

func (p *parser) parseNumber() (Expr, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= '0' && c <= '9' || c == '.' {
			p.pos++
			continue
		}
		// Exponent suffix, with optional sign.
		if (c == 'e' || c == 'E') && p.pos > start {
			next := p.pos + 1
			if next < len(p.src) && (p.src[next] == '+' || p.src[next] == '-') {
				next++
			}
			if next < len(p.src) && p.src[next] >= '0' && p.src[next] <= '9' {
				p.pos = next
				continue
			}
		}
		break
	}
	text := p.src[start:p.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.pos = start
		return nil, p.errf("invalid number %q", text)
	}
	return Const(v), nil
}

func (p *parser) parseIdent() (Expr, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(rune(p.src[p.pos])) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if p.peek() != '(' {
		return Var(name), nil
	}
	if !KnownFunction(strings.ToLower(name)) {
		p.pos = start
		return nil, p.errf("unknown function %q", name)
	}
	p.pos++ // consume '('
	arg, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.peek() != ')' {
		return nil, p.errf("expected ')' after %s argument", name)
	}
	p.pos++
	return Call(strings.ToLower(name), arg), nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
