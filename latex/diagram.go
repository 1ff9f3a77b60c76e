package latex

import (
	"fmt"
	"slices"

	"quilcirq/quil"
)

// daggerScript is the superscript added for each DAGGER modifier.
const daggerScript = "dagger"

// Diagram lays a program out as a grid: one row per qubit in ascending order,
// one column per gate instruction. Rows advance together; column is the
// shared cursor.
//
// A Diagram is built by populate, optionally widened by imputeMissingQubits,
// then resolved and frozen. It is not safe for concurrent use.
type Diagram struct {
	settings Settings
	column   int

	// relationships holds, per column, the qubits of one controlled gate in
	// argument order: controls first, target last.
	relationships map[int][]uint64

	circuit map[uint64]*wire
	rows    []uint64 // keys of circuit, ascending
}

func newDiagram(settings Settings) *Diagram {
	return &Diagram{
		settings:      settings,
		relationships: make(map[int][]uint64),
		circuit:       make(map[uint64]*wire),
	}
}

// Columns returns the number of gate columns.
func (d *Diagram) Columns() int { return d.column }

// Qubits returns the row order: every qubit with a wire, ascending.
func (d *Diagram) Qubits() []uint64 { return slices.Clone(d.rows) }

// wireFor returns the wire for qubit, creating it in row order if needed.
func (d *Diagram) wireFor(qubit uint64) *wire {
	if w, ok := d.circuit[qubit]; ok {
		return w
	}
	w := newWire(qubit)
	d.circuit[qubit] = w
	i, _ := slices.BinarySearch(d.rows, qubit)
	d.rows = slices.Insert(d.rows, i, qubit)
	return w
}

// populate walks the gates left to right, placing one column per gate.
// used is every fixed qubit referenced anywhere in the program; each gets a
// wire up front so untouched rows receive fillers and stay aligned.
func (d *Diagram) populate(gates []*quil.Gate, used []uint64) error {
	for _, q := range used {
		d.wireFor(q)
	}

	for _, g := range gates {
		touched := make(map[uint64]bool, len(g.Qubits))
		for _, q := range g.Qubits {
			if fixed, ok := q.(quil.FixedQubit); ok {
				touched[uint64(fixed)] = true
			}
		}
		for _, q := range used {
			if touched[q] {
				continue
			}
			if w, ok := d.circuit[q]; ok {
				w.fill(d.column)
			}
		}

		gate, supers := compose(g)
		var params []Symbol
		if gate.Family == FamilyPhase {
			params = d.parameters(g.Parameters)
		}

		for _, q := range g.Qubits {
			fixed, ok := q.(quil.FixedQubit)
			if !ok {
				continue
			}
			qubit := uint64(fixed)
			d.wireFor(qubit).place(d.column, gate, supers, params)

			if gate.Related() {
				if err := d.relate(qubit, gate.Name); err != nil {
					return err
				}
			}
		}

		d.column++
	}
	return nil
}

// compose builds the display name and superscripts from the gate's modifiers,
// in declaration order. FORKED is not drawn.
func compose(g *quil.Gate) (Gate, []string) {
	name := g.Name
	var supers []string
	for _, m := range g.Modifiers {
		switch m {
		case quil.Controlled:
			name = controlPrefix + name
		case quil.Dagger:
			supers = append(supers, daggerScript)
		}
	}
	return Gate{Name: name, Family: classify(g.Name)}, supers
}

// parameters extracts display symbols for a phase gate's parameters.
func (d *Diagram) parameters(exprs []quil.Expression) []Symbol {
	params := make([]Symbol, 0, len(exprs))
	for _, e := range exprs {
		params = append(params, d.settings.symbol(parameterText(e)))
	}
	return params
}

func parameterText(e quil.Expression) string {
	switch e := e.(type) {
	case quil.Address:
		return e.Name
	case quil.Number:
		return e.RealText()
	}
	return e.String()
}

// relate appends qubit to the relationship group at the current column.
func (d *Diagram) relate(qubit uint64, gate string) error {
	group := d.relationships[d.column]
	if slices.Contains(group, qubit) {
		return &RelationshipError{Qubit: qubit, Column: d.column, Gate: gate}
	}
	d.relationships[d.column] = append(group, qubit)
	return nil
}

// imputeMissingQubits adds a filler-only wire for every qubit index between
// the lowest and highest present qubit that has no wire yet. Spans wider
// than MaxImputeSpan are refused.
func (d *Diagram) imputeMissingQubits() error {
	if len(d.rows) < 2 {
		return nil
	}
	first, last := d.rows[0], d.rows[len(d.rows)-1]
	if last-first > MaxImputeSpan {
		return fmt.Errorf("qubits %d..%d: %w", first, last, ErrImputeSpan)
	}
	for q := first + 1; q < last; q++ {
		if _, ok := d.circuit[q]; ok {
			continue
		}
		w := d.wireFor(q)
		for c := range d.column {
			w.fill(c)
		}
	}
	return nil
}
