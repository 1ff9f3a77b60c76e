package quil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGates(t *testing.T) {
	p, err := Parse(`# bell pair
DECLARE ro BIT[2]
H 0
CNOT 0 1
MEASURE 0 ro[0]
MEASURE 1 ro[1]
`)
	require.NoError(t, err)
	require.Len(t, p.Instructions, 5)

	gates := p.Gates()
	require.Len(t, gates, 2)
	assert.Equal(t, &Gate{Name: "H", Qubits: []Qubit{FixedQubit(0)}}, gates[0])
	assert.Equal(t, &Gate{Name: "CNOT", Qubits: []Qubit{FixedQubit(0), FixedQubit(1)}}, gates[1])

	decl, ok := p.Instructions[0].(*Declaration)
	require.True(t, ok)
	assert.Equal(t, &Declaration{Name: "ro", Type: "BIT", Length: 2}, decl)

	m, ok := p.Instructions[4].(*Measurement)
	require.True(t, ok)
	assert.Equal(t, FixedQubit(1), m.Qubit)
	assert.Equal(t, &Address{Name: "ro", Index: 1}, m.Target)
}

func TestParseModifiers(t *testing.T) {
	p, err := Parse("CONTROLLED DAGGER FORKED RX(pi, theta) 0 1 2")
	require.NoError(t, err)

	g := p.Gates()[0]
	assert.Equal(t, []GateModifier{Controlled, Dagger, Forked}, g.Modifiers)
	assert.Equal(t, "RX", g.Name)
	assert.Equal(t, []Expression{PiConstant{}, Address{Name: "theta"}}, g.Parameters)
	assert.Len(t, g.Qubits, 3)
	assert.Equal(t, "CONTROLLED DAGGER FORKED RX(pi, theta[0]) 0 1 2", g.String())
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"pi/2", "pi/2"},
		{"-pi/4", "-pi/4"},
		{"2*(theta+1)", "2*(theta[0]+1)"},
		{"1.5e3", "1500"},
		{"2i", "2i"},
		{"i", "i"},
		{"%alpha*2", "%alpha*2"},
		{"cos(%t)", "cos(%t)"},
		{"a[3]^2", "a[3]^2"},
		{"1-(2-3)", "1-(2-3)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p, err := Parse("RZ(" + tt.src + ") 0")
			require.NoError(t, err)
			require.Len(t, p.Gates()[0].Parameters, 1)
			assert.Equal(t, tt.want, p.Gates()[0].Parameters[0].String())
		})
	}
}

func TestNumberRealText(t *testing.T) {
	assert.Equal(t, "1", Number{Value: 1}.RealText())
	assert.Equal(t, "0.25", Number{Value: complex(0.25, 3)}.RealText())
	assert.Equal(t, "0", Number{Value: complex(0, 1)}.RealText())
}

func TestParseVariableQubits(t *testing.T) {
	p, err := Parse(`DEFCIRCUIT BELL a b:
    H a
    CNOT a b

BELL 0 1
`)
	require.NoError(t, err)
	require.Len(t, p.Instructions, 2)

	def, ok := p.Instructions[0].(*CircuitDefinition)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, def.Qubits)
	require.Len(t, def.Body, 2)
	assert.Equal(t, []Qubit{VariableQubit("a"), VariableQubit("b")}, def.Body[1].(*Gate).Qubits)

	// Circuit bodies are not top-level gates.
	require.Len(t, p.Gates(), 1)
	assert.Equal(t, "BELL", p.Gates()[0].Name)
}

func TestParseGateDefinition(t *testing.T) {
	p, err := Parse(`DEFGATE SQRTX(%theta):
    0.5+0.5i, 0.5-0.5i
    0.5-0.5i, 0.5+0.5i
SQRTX(pi) 0
`)
	require.NoError(t, err)
	require.Len(t, p.Instructions, 2)

	def := p.Instructions[0].(*GateDefinition)
	assert.Equal(t, "SQRTX", def.Name)
	assert.Equal(t, []string{"theta"}, def.Parameters)
	assert.Equal(t, "MATRIX", def.Kind)
	assert.Len(t, def.Matrix, 2)
}

func TestParseControlFlow(t *testing.T) {
	p, err := Parse(`DECLARE flag BIT
LABEL @start
X 0
MEASURE 0 flag
JUMP-WHEN @end flag[0]
JUMP @start
LABEL @end
PRAGMA INITIAL_REWIRING "NAIVE"
RESET
HALT`)
	require.NoError(t, err)
	require.Len(t, p.Instructions, 10)

	jw := p.Instructions[4].(*JumpInstruction)
	assert.Equal(t, JumpWhen, jw.Kind)
	assert.Equal(t, "end", jw.Target)
	assert.Equal(t, &Address{Name: "flag"}, jw.Condition)

	pr := p.Instructions[7].(*Pragma)
	assert.Equal(t, "INITIAL_REWIRING", pr.Name)
	assert.Equal(t, "NAIVE", pr.Data)

	assert.IsType(t, &Reset{}, p.Instructions[8])
	assert.IsType(t, &Halt{}, p.Instructions[9])
}

func TestUsedQubits(t *testing.T) {
	p := MustParse("CNOT 3 1\nH q\nMEASURE 7\nRESET 5\nX 1")
	assert.Equal(t, []uint64{1, 3, 5, 7}, p.UsedQubits())
	assert.Empty(t, MustParse("").UsedQubits())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		col  int
	}{
		{"no qubits", "H", 1, 1},
		{"bad character", "X 0\nH $", 2, 3},
		{"unclosed params", "RX(pi 0", 1, 7},
		{"bad memory type", "DECLARE ro FLOAT", 1, 12},
		{"empty defgate", "DEFGATE U:\nX 0", 1, 9},
		{"unterminated string", `PRAGMA X "abc`, 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, tt.col, pe.Column)
		})
	}
}

func TestParseErrorSource(t *testing.T) {
	_, err := Parse("H 0\nCNOT 0 )")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "CNOT 0 )", pe.Source)
	assert.Contains(t, pe.Error(), "line 2:8")
}

func TestLexIdentifiers(t *testing.T) {
	toks, err := lexLine("JUMP-WHEN theta-1", 1)
	require.NoError(t, err)

	var kinds []TokenKind
	var texts []string
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, []TokenKind{TokIdent, TokIdent, TokOperator, TokInt}, kinds)
	assert.Equal(t, []string{"JUMP-WHEN", "theta", "-", "1"}, texts)
}
