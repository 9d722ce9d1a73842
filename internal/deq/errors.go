package deq

import (
	"errors"
	"fmt"

	"github.com/san-kum/odescale/internal/expr"
)

// Validation failures for model and problem construction.
var (
	// ErrEmptySystem indicates a system with no state variables.
	ErrEmptySystem = errors.New("deq: system has no state variables")

	// ErrCountMismatch indicates unequal numbers of state variables,
	// right-hand sides, or initial values.
	ErrCountMismatch = errors.New("deq: count mismatch")

	// ErrUnboundSymbol indicates a right-hand side references a symbol
	// that is neither a state variable, a parameter, nor the
	// independent variable.
	ErrUnboundSymbol = errors.New("deq: unbound symbol in right-hand side")

	// ErrDuplicateSymbol indicates a symbol declared more than once.
	ErrDuplicateSymbol = errors.New("deq: duplicate symbol")

	// ErrBadSpan indicates a time span with t0 >= tf or non-finite
	// endpoints.
	ErrBadSpan = errors.New("deq: invalid time span")

	// ErrBadValue indicates a non-finite numeric input such as a NaN
	// initial value.
	ErrBadValue = errors.New("deq: non-finite value")
)

// ConfigurationError describes a malformed model or problem with
// enough context to point at the offending symbol or expression.
type ConfigurationError struct {
	Symbol expr.Symbol // offending symbol, if any
	Expr   string      // offending expression, if any
	Detail string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Symbol != "" {
		msg += fmt.Sprintf(" (symbol %q)", e.Symbol)
	}
	if e.Expr != "" {
		msg += fmt.Sprintf(" (in %q)", e.Expr)
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
