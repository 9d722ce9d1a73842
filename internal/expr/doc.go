// Package expr implements the symbolic expression trees that describe
// the right-hand sides of an ODE system.
//
// An expression is built from constants, symbols, n-ary sums and
// products, powers, and unary function calls:
//
//	rhs := expr.Add(expr.Neg(expr.V("y")), expr.Neg(expr.V("z")))
//
// Expressions are immutable. [Expr.Substitute] rebuilds a tree with
// symbols replaced by arbitrary subexpressions, which is how the
// rescaler injects scale factors into a system without evaluating it.
// [Expr.Eval] computes a numeric value against an environment binding
// every free symbol.
package expr
