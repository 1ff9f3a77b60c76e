package quil

import (
	"fmt"
	"strconv"
	"strings"
)

// Qubit is either a fixed index or a named placeholder inside a definition body.
type Qubit interface {
	fmt.Stringer
	qubit()
}

// FixedQubit is a physical qubit index such as `3`.
type FixedQubit uint64

// VariableQubit is a formal qubit argument such as `q` in a DEFCIRCUIT.
type VariableQubit string

func (FixedQubit) qubit() {}
func (VariableQubit) qubit() {}

func (q FixedQubit) String() string { return strconv.FormatUint(uint64(q), 10) }
func (q VariableQubit) String() string { return string(q) }

// GateModifier transforms the gate it prefixes.
type GateModifier int

const (
	Controlled GateModifier = iota
	Dagger
	Forked
)

func (m GateModifier) String() string {
	switch m {
	case Controlled:
		return "CONTROLLED"
	case Dagger:
		return "DAGGER"
	case Forked:
		return "FORKED"
	}
	return fmt.Sprintf("GateModifier(%d)", int(m))
}

// Instruction is one statement of a Quil program.
type Instruction interface {
	fmt.Stringer
	instruction()
}

// Gate applies a named gate, optionally modified, to a list of qubits.
type Gate struct {
	Name       string
	Parameters []Expression
	Qubits     []Qubit
	Modifiers  []GateModifier
}

// Measurement measures a qubit, optionally into a memory reference.
type Measurement struct {
	Qubit  Qubit
	Target *Address
}

// Reset resets one qubit, or every qubit when Qubit is nil.
type Reset struct {
	Qubit Qubit
}

// Declaration reserves classical memory.
type Declaration struct {
	Name   string
	Type   string // BIT, INTEGER, REAL, OCTET
	Length uint64
}

// Pragma carries compiler directives; Data is the optional quoted string.
type Pragma struct {
	Name string
	Args []string
	Data string
}

// GateDefinition is a DEFGATE block. Matrix holds the raw body rows.
type GateDefinition struct {
	Name       string
	Parameters []string
	Kind       string // MATRIX, PERMUTATION, PAULI-SUM
	Matrix     []string
}

// CircuitDefinition is a DEFCIRCUIT block. Its body is parsed but never expanded.
type CircuitDefinition struct {
	Name       string
	Parameters []string
	Qubits     []string
	Body       []Instruction
}

// Label marks a jump target.
type Label struct {
	Name string
}

// JumpKind distinguishes the three jump forms.
type JumpKind int

const (
	Jump JumpKind = iota
	JumpWhen
	JumpUnless
)

// JumpInstruction transfers control, conditionally on Condition for JUMP-WHEN/JUMP-UNLESS.
type JumpInstruction struct {
	Kind      JumpKind
	Target    string
	Condition *Address
}

// Halt ends execution.
type Halt struct{}

// Nop does nothing.
type Nop struct{}

// Wait blocks until an external event.
type Wait struct{}

func (*Gate) instruction() {}
func (*Measurement) instruction() {}
func (*Reset) instruction() {}
func (*Declaration) instruction() {}
func (*Pragma) instruction() {}
func (*GateDefinition) instruction() {}
func (*CircuitDefinition) instruction() {}
func (*Label) instruction() {}
func (*JumpInstruction) instruction() {}
func (*Halt) instruction() {}
func (*Nop) instruction() {}
func (*Wait) instruction() {}

func (g *Gate) String() string {
	var sb strings.Builder
	for _, m := range g.Modifiers {
		sb.WriteString(m.String())
		sb.WriteByte(' ')
	}
	sb.WriteString(g.Name)
	if len(g.Parameters) > 0 {
		fmt.Fprintf(&sb, "(%s)", joinExpressions(g.Parameters))
	}
	for _, q := range g.Qubits {
		sb.WriteByte(' ')
		sb.WriteString(q.String())
	}
	return sb.String()
}

func (m *Measurement) String() string {
	if m.Target == nil {
		return "MEASURE " + m.Qubit.String()
	}
	return fmt.Sprintf("MEASURE %s %s", m.Qubit, m.Target)
}

func (r *Reset) String() string {
	if r.Qubit == nil {
		return "RESET"
	}
	return "RESET " + r.Qubit.String()
}

func (d *Declaration) String() string {
	if d.Length > 1 {
		return fmt.Sprintf("DECLARE %s %s[%d]", d.Name, d.Type, d.Length)
	}
	return fmt.Sprintf("DECLARE %s %s", d.Name, d.Type)
}

func (p *Pragma) String() string {
	var sb strings.Builder
	sb.WriteString("PRAGMA ")
	sb.WriteString(p.Name)
	for _, a := range p.Args {
		sb.WriteByte(' ')
		sb.WriteString(a)
	}
	if p.Data != "" {
		fmt.Fprintf(&sb, " %q", p.Data)
	}
	return sb.String()
}

func (d *GateDefinition) String() string {
	var sb strings.Builder
	sb.WriteString("DEFGATE ")
	sb.WriteString(d.Name)
	if len(d.Parameters) > 0 {
		fmt.Fprintf(&sb, "(%%%s)", strings.Join(d.Parameters, ", %"))
	}
	if d.Kind != "" && d.Kind != "MATRIX" {
		sb.WriteString(" AS ")
		sb.WriteString(d.Kind)
	}
	sb.WriteString(":")
	for _, row := range d.Matrix {
		sb.WriteString("\n    ")
		sb.WriteString(row)
	}
	return sb.String()
}

func (d *CircuitDefinition) String() string {
	var sb strings.Builder
	sb.WriteString("DEFCIRCUIT ")
	sb.WriteString(d.Name)
	if len(d.Parameters) > 0 {
		fmt.Fprintf(&sb, "(%%%s)", strings.Join(d.Parameters, ", %"))
	}
	for _, q := range d.Qubits {
		sb.WriteByte(' ')
		sb.WriteString(q)
	}
	sb.WriteString(":")
	for _, inst := range d.Body {
		sb.WriteString("\n    ")
		sb.WriteString(inst.String())
	}
	return sb.String()
}

func (l *Label) String() string { return "LABEL @" + l.Name }

func (j *JumpInstruction) String() string {
	switch j.Kind {
	case JumpWhen:
		return fmt.Sprintf("JUMP-WHEN @%s %s", j.Target, j.Condition)
	case JumpUnless:
		return fmt.Sprintf("JUMP-UNLESS @%s %s", j.Target, j.Condition)
	}
	return "JUMP @" + j.Target
}

func (*Halt) String() string { return "HALT" }
func (*Nop) String() string { return "NOP" }
func (*Wait) String() string { return "WAIT" }
