package quil

import (
	"slices"
	"strings"
)

// Program is an ordered list of Quil instructions.
type Program struct {
	Instructions []Instruction
}

// Gates returns the gate applications in program order.
// Gates inside DEFCIRCUIT bodies are not included.
func (p *Program) Gates() []*Gate {
	var gates []*Gate
	for _, inst := range p.Instructions {
		if g, ok := inst.(*Gate); ok {
			gates = append(gates, g)
		}
	}
	return gates
}

// UsedQubits returns every fixed qubit referenced by a top-level instruction,
// sorted ascending and without duplicates.
func (p *Program) UsedQubits() []uint64 {
	seen := make(map[uint64]bool)
	var qubits []uint64
	add := func(q Qubit) {
		fixed, ok := q.(FixedQubit)
		if !ok || seen[uint64(fixed)] {
			return
		}
		seen[uint64(fixed)] = true
		qubits = append(qubits, uint64(fixed))
	}

	for _, inst := range p.Instructions {
		switch inst := inst.(type) {
		case *Gate:
			for _, q := range inst.Qubits {
				add(q)
			}
		case *Measurement:
			add(inst.Qubit)
		case *Reset:
			if inst.Qubit != nil {
				add(inst.Qubit)
			}
		}
	}

	slices.Sort(qubits)
	return qubits
}

// String renders the program back to Quil source, one instruction per line.
func (p *Program) String() string {
	var sb strings.Builder
	for _, inst := range p.Instructions {
		sb.WriteString(inst.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
