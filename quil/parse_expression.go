package quil

import (
	"strconv"
	"strings"
)

// Expression grammar, loosest first:
//
//	sum     = product { ("+" | "-") product }
//	product = unary { ("*" | "/") unary }
//	unary   = ("-" | "+") unary | power
//	power   = atom [ "^" unary ]
func (p *parser) parseExpression() (Expression, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.isOperator('+', '-') {
		op := p.advance().Text[0]
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = Infix{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) parseProduct() (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOperator('*', '/') {
		op := p.advance().Text[0]
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = Infix{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expression, error) {
	if p.isOperator('-', '+') {
		op := p.advance().Text[0]
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Prefix{Op: op, Expr: inner}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expression, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.isOperator('^') {
		p.advance()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Infix{Left: base, Op: '^', Right: exp}, nil
	}
	return base, nil
}

func (p *parser) isOperator(ops ...byte) bool {
	t := p.peek()
	if t.Kind != TokOperator {
		return false
	}
	for _, op := range ops {
		if t.Text[0] == op {
			return true
		}
	}
	return false
}

func (p *parser) parseAtom() (Expression, error) {
	t := p.advance()
	switch t.Kind {
	case TokInt, TokReal:
		f, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			return nil, p.errorf(t, "invalid number %s", t.Text)
		}
		return Number{Value: complex(f, 0)}, nil
	case TokImaginary:
		f, err := strconv.ParseFloat(strings.TrimSuffix(t.Text, "i"), 64)
		if err != nil {
			return nil, p.errorf(t, "invalid number %s", t.Text)
		}
		return Number{Value: complex(0, f)}, nil
	case TokVariable:
		return Variable{Name: t.Text}, nil
	case TokLParen:
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return e, nil
	case TokIdent:
		return p.parseNamed(t)
	}
	return nil, p.errorf(t, "expected an expression, found %s", describe(t))
}

// parseNamed handles identifiers in expression position: pi, the imaginary
// unit, builtin function calls and memory references.
func (p *parser) parseNamed(t Token) (Expression, error) {
	lower := strings.ToLower(t.Text)
	switch {
	case lower == "pi":
		return PiConstant{}, nil
	case t.Text == "i":
		return Number{Value: complex(0, 1)}, nil
	case builtinFunctions[lower] && p.peek().Kind == TokLParen:
		p.advance()
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return FunctionCall{Func: lower, Arg: arg}, nil
	}

	addr := Address{Name: t.Text}
	if p.peek().Kind == TokLBracket {
		p.advance()
		idx, err := p.expect(TokInt)
		if err != nil {
			return nil, err
		}
		if addr.Index, err = strconv.ParseUint(idx.Text, 10, 64); err != nil {
			return nil, p.errorf(idx, "memory index %s out of range", idx.Text)
		}
		if _, err := p.expect(TokRBracket); err != nil {
			return nil, err
		}
	}
	return addr, nil
}
