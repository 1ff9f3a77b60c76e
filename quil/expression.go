package quil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Expression is a gate parameter or classical value.
type Expression interface {
	fmt.Stringer
	expression()
}

// Number is a complex numeric literal. Real literals have a zero imaginary part.
type Number struct {
	Value complex128
}

// PiConstant is the literal `pi`.
type PiConstant struct{}

// Address references classical memory, e.g. `ro[1]` or a bare `theta`.
type Address struct {
	Name  string
	Index uint64
}

// Variable is a `%name` parameter inside DEFGATE and DEFCIRCUIT bodies.
type Variable struct {
	Name string
}

// FunctionCall applies one of the builtin functions to a single argument.
type FunctionCall struct {
	Func string // sin, cos, sqrt, exp, cis
	Arg  Expression
}

// Infix is a binary arithmetic expression.
type Infix struct {
	Left  Expression
	Op    byte // one of + - * / ^
	Right Expression
}

// Prefix is a unary sign applied to an expression.
type Prefix struct {
	Op   byte // + or -
	Expr Expression
}

func (Number) expression() {}
func (PiConstant) expression() {}
func (Address) expression() {}
func (Variable) expression() {}
func (FunctionCall) expression() {}
func (Infix) expression() {}
func (Prefix) expression() {}

// RealText returns the shortest decimal form of the real part, e.g. "1" for 1.0.
func (n Number) RealText() string {
	return formatReal(real(n.Value))
}

func (n Number) String() string {
	re, im := real(n.Value), imag(n.Value)
	switch {
	case im == 0:
		return formatReal(re)
	case re == 0:
		return formatImaginary(im)
	case im < 0:
		return formatReal(re) + "-" + formatImaginary(-im)
	default:
		return formatReal(re) + "+" + formatImaginary(im)
	}
}

func (PiConstant) String() string { return "pi" }

func (a Address) String() string {
	return fmt.Sprintf("%s[%d]", a.Name, a.Index)
}

func (v Variable) String() string { return "%" + v.Name }

func (f FunctionCall) String() string {
	return fmt.Sprintf("%s(%s)", f.Func, f.Arg)
}

func (i Infix) String() string {
	prec := precedence(i.Op)
	left := i.Left.String()
	if needsParens(i.Left, prec, false) {
		left = "(" + left + ")"
	}
	right := i.Right.String()
	if needsParens(i.Right, prec, i.Op != '+' && i.Op != '*') {
		right = "(" + right + ")"
	}
	return left + string(i.Op) + right
}

func (p Prefix) String() string {
	inner := p.Expr.String()
	if _, ok := p.Expr.(Infix); ok {
		inner = "(" + inner + ")"
	}
	return string(p.Op) + inner
}

// precedence orders the binary operators; higher binds tighter.
func precedence(op byte) int {
	switch op {
	case '+', '-':
		return 1
	case '*', '/':
		return 2
	case '^':
		return 4
	}
	return 0
}

func needsParens(e Expression, parent int, strict bool) bool {
	inner, ok := e.(Infix)
	if !ok {
		return false
	}
	p := precedence(inner.Op)
	if strict {
		return p <= parent
	}
	return p < parent
}

func formatReal(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatImaginary(f float64) string {
	if f == 1 {
		return "i"
	}
	return formatReal(f) + "i"
}

// builtinFunctions are the function names accepted in expressions.
var builtinFunctions = map[string]bool{
	"sin":  true,
	"cos":  true,
	"sqrt": true,
	"exp":  true,
	"cis":  true,
}

// joinExpressions renders a parameter list the way it is written in source.
func joinExpressions(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
