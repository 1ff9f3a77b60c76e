// Package quil models Quil programs and parses them from source text.
//
// Only the subset needed to lay out circuit diagrams is modelled in depth:
// gate applications with their modifiers, parameters and qubits. The other
// statements are recognised so that real programs parse, but are carried as
// opaque instructions.
package quil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parse parses Quil source into a Program.
func Parse(src string) (*Program, error) {
	p := &parser{lines: strings.Split(src, "\n")}
	insts, err := p.parseBlock(false)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) && pe.Source == "" && pe.Line > 0 && pe.Line <= len(p.lines) {
			pe.Source = strings.TrimRight(p.lines[pe.Line-1], "\r")
		}
		return nil, err
	}
	return &Program{Instructions: insts}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and fixed programs.
func MustParse(src string) *Program {
	p, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return p
}

type parser struct {
	lines []string
	next  int // index of the next unread line

	// token state for the line being parsed
	toks []Token
	pos  int
	line int
}

func indented(line string) bool {
	return len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
}

func blank(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || strings.HasPrefix(t, "#")
}

// parseBlock reads instructions until input ends or, for a definition body,
// until the first non-indented line.
func (p *parser) parseBlock(body bool) ([]Instruction, error) {
	var insts []Instruction
	for p.next < len(p.lines) {
		raw := p.lines[p.next]
		if blank(raw) {
			p.next++
			continue
		}
		if body && !indented(raw) {
			break
		}
		lineNo := p.next + 1
		p.next++

		toks, err := lexLine(raw, lineNo)
		if err != nil {
			return nil, err
		}
		p.toks, p.pos, p.line = toks, 0, lineNo

		inst, err := p.parseStatement(body)
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
	}
	return insts, nil
}

func (p *parser) peek() Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	col := 1
	if n := len(p.toks); n > 0 {
		last := p.toks[n-1]
		col = last.Col + len(last.Text)
	}
	return Token{Kind: TokEOF, Line: p.line, Col: col}
}

func (p *parser) advance() Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t Token, format string, args ...any) error {
	return &ParseError{Line: t.Line, Column: t.Col, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	t := p.advance()
	if t.Kind != kind {
		return t, p.errorf(t, "expected %s, found %s", kind, describe(t))
	}
	return t, nil
}

func (p *parser) expectEnd() error {
	if t := p.peek(); t.Kind != TokEOF {
		return p.errorf(t, "unexpected %s", describe(t))
	}
	return nil
}

// describe names a token for error messages.
func describe(t Token) string {
	switch t.Kind {
	case TokEOF, TokLParen, TokRParen, TokLBracket, TokRBracket, TokComma, TokColon:
		return t.Kind.String()
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

func (p *parser) parseStatement(inBody bool) (Instruction, error) {
	head, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}

	var inst Instruction
	switch head.Text {
	case "DEFGATE":
		if inBody {
			return nil, p.errorf(head, "DEFGATE is not allowed inside a definition")
		}
		return p.parseGateDefinition()
	case "DEFCIRCUIT":
		if inBody {
			return nil, p.errorf(head, "DEFCIRCUIT is not allowed inside a definition")
		}
		return p.parseCircuitDefinition()
	case "MEASURE":
		inst, err = p.parseMeasurement()
	case "RESET":
		inst, err = p.parseReset()
	case "DECLARE":
		inst, err = p.parseDeclaration()
	case "PRAGMA":
		inst, err = p.parsePragma()
	case "LABEL":
		var t Token
		if t, err = p.expect(TokLabel); err == nil {
			inst = &Label{Name: t.Text}
		}
	case "JUMP":
		inst, err = p.parseJump(Jump)
	case "JUMP-WHEN":
		inst, err = p.parseJump(JumpWhen)
	case "JUMP-UNLESS":
		inst, err = p.parseJump(JumpUnless)
	case "HALT":
		inst = &Halt{}
	case "NOP":
		inst = &Nop{}
	case "WAIT":
		inst = &Wait{}
	default:
		p.pos--
		inst, err = p.parseGate()
	}
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return inst, nil
}

var modifierKeywords = map[string]GateModifier{
	"CONTROLLED": Controlled,
	"DAGGER":     Dagger,
	"FORKED":     Forked,
}

func (p *parser) parseGate() (*Gate, error) {
	g := &Gate{}
	for {
		t := p.peek()
		m, ok := modifierKeywords[t.Text]
		if t.Kind != TokIdent || !ok {
			break
		}
		p.advance()
		g.Modifiers = append(g.Modifiers, m)
	}

	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	g.Name = name.Text

	if p.peek().Kind == TokLParen {
		if g.Parameters, err = p.parseParameterList(); err != nil {
			return nil, err
		}
	}

	for p.peek().Kind != TokEOF {
		q, err := p.parseQubit()
		if err != nil {
			return nil, err
		}
		g.Qubits = append(g.Qubits, q)
	}
	if len(g.Qubits) == 0 {
		return nil, p.errorf(name, "gate %s has no qubit arguments", g.Name)
	}
	return g, nil
}

func (p *parser) parseParameterList() ([]Expression, error) {
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	var params []Expression
	for {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		params = append(params, e)
		t := p.advance()
		if t.Kind == TokRParen {
			return params, nil
		}
		if t.Kind != TokComma {
			return nil, p.errorf(t, "expected ',' or ')', found %s", describe(t))
		}
	}
}

func (p *parser) parseQubit() (Qubit, error) {
	t := p.advance()
	switch t.Kind {
	case TokInt:
		n, err := strconv.ParseUint(t.Text, 10, 64)
		if err != nil {
			return nil, p.errorf(t, "qubit index %s out of range", t.Text)
		}
		return FixedQubit(n), nil
	case TokIdent:
		return VariableQubit(t.Text), nil
	}
	return nil, p.errorf(t, "expected a qubit, found %s", describe(t))
}

func (p *parser) parseAddress() (*Address, error) {
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	addr := &Address{Name: name.Text}
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

func (p *parser) parseMeasurement() (*Measurement, error) {
	q, err := p.parseQubit()
	if err != nil {
		return nil, err
	}
	m := &Measurement{Qubit: q}
	if p.peek().Kind != TokEOF {
		if m.Target, err = p.parseAddress(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (p *parser) parseReset() (*Reset, error) {
	if p.peek().Kind == TokEOF {
		return &Reset{}, nil
	}
	q, err := p.parseQubit()
	if err != nil {
		return nil, err
	}
	return &Reset{Qubit: q}, nil
}

var memoryTypes = map[string]bool{"BIT": true, "INTEGER": true, "REAL": true, "OCTET": true}

func (p *parser) parseDeclaration() (*Declaration, error) {
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	typ, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	if !memoryTypes[typ.Text] {
		return nil, p.errorf(typ, "unknown memory type %s", typ.Text)
	}
	d := &Declaration{Name: name.Text, Type: typ.Text, Length: 1}
	if p.peek().Kind == TokLBracket {
		p.advance()
		n, err := p.expect(TokInt)
		if err != nil {
			return nil, err
		}
		if d.Length, err = strconv.ParseUint(n.Text, 10, 64); err != nil {
			return nil, p.errorf(n, "memory length %s out of range", n.Text)
		}
		if _, err := p.expect(TokRBracket); err != nil {
			return nil, err
		}
	}
	// SHARING clauses are accepted and dropped.
	if t := p.peek(); t.Kind == TokIdent && t.Text == "SHARING" {
		p.pos = len(p.toks)
	}
	return d, nil
}

func (p *parser) parsePragma() (*Pragma, error) {
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	pr := &Pragma{Name: name.Text}
	for {
		t := p.peek()
		switch t.Kind {
		case TokIdent, TokInt:
			p.advance()
			pr.Args = append(pr.Args, t.Text)
			continue
		case TokString:
			p.advance()
			pr.Data = t.Text
		}
		return pr, nil
	}
}

func (p *parser) parseJump(kind JumpKind) (*JumpInstruction, error) {
	target, err := p.expect(TokLabel)
	if err != nil {
		return nil, err
	}
	j := &JumpInstruction{Kind: kind, Target: target.Text}
	if kind != Jump {
		if j.Condition, err = p.parseAddress(); err != nil {
			return nil, err
		}
	}
	return j, nil
}

// parseFormals reads an optional `(%a, %b)` list of definition parameters.
func (p *parser) parseFormals() ([]string, error) {
	if p.peek().Kind != TokLParen {
		return nil, nil
	}
	p.advance()
	var names []string
	for {
		v, err := p.expect(TokVariable)
		if err != nil {
			return nil, err
		}
		names = append(names, v.Text)
		t := p.advance()
		if t.Kind == TokRParen {
			return names, nil
		}
		if t.Kind != TokComma {
			return nil, p.errorf(t, "expected ',' or ')', found %s", describe(t))
		}
	}
}

var gateDefinitionKinds = map[string]bool{"MATRIX": true, "PERMUTATION": true, "PAULI-SUM": true}

func (p *parser) parseGateDefinition() (*GateDefinition, error) {
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	def := &GateDefinition{Name: name.Text, Kind: "MATRIX"}
	if def.Parameters, err = p.parseFormals(); err != nil {
		return nil, err
	}
	// PAULI-SUM definitions list their qubit arguments before AS.
	for t := p.peek(); t.Kind == TokIdent && t.Text != "AS"; t = p.peek() {
		p.advance()
	}
	if t := p.peek(); t.Kind == TokIdent && t.Text == "AS" {
		p.advance()
		kind, err := p.expect(TokIdent)
		if err != nil {
			return nil, err
		}
		if !gateDefinitionKinds[kind.Text] {
			return nil, p.errorf(kind, "unknown gate definition kind %s", kind.Text)
		}
		def.Kind = kind.Text
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}

	for p.next < len(p.lines) {
		raw := p.lines[p.next]
		if blank(raw) {
			p.next++
			continue
		}
		if !indented(raw) {
			break
		}
		def.Matrix = append(def.Matrix, strings.TrimSpace(raw))
		p.next++
	}
	if len(def.Matrix) == 0 {
		return nil, p.errorf(name, "DEFGATE %s has an empty body", def.Name)
	}
	return def, nil
}

func (p *parser) parseCircuitDefinition() (*CircuitDefinition, error) {
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	def := &CircuitDefinition{Name: name.Text}
	if def.Parameters, err = p.parseFormals(); err != nil {
		return nil, err
	}
	for p.peek().Kind == TokIdent {
		def.Qubits = append(def.Qubits, p.advance().Text)
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	if def.Body, err = p.parseBlock(true); err != nil {
		return nil, err
	}
	return def, nil
}
