package latex

import (
	"strings"
	"unicode/utf8"
)

// CellKind says how one grid position is drawn.
type CellKind int

const (
	CellNone    CellKind = iota // nothing recorded at this column
	CellFiller                  // plain wire
	CellGate                    // boxed gate name
	CellPhase                   // phase dot with parameters
	CellControl                 // control dot linked Distance rows away
	CellTarget                  // controlled-not target
)

// Cell is one classified grid position.
type Cell struct {
	Kind         CellKind
	Name         string   // CellGate: text inside the box
	Superscripts []string // CellGate: modifier scripts, in order
	Params       []Symbol // CellPhase
	Distance     int      // CellControl: signed rows to the target
}

// Row is one qubit's line of cells, Columns() long.
type Row struct {
	Qubit uint64
	Cells []Cell
}

// cell classifies the wire at column. The first matching rule wins:
// control of a relationship; target of a phase gate; target of a NOT gate;
// any other target (last character of the name); a phase gate; a plain gate.
func (w *wire) cell(column int) Cell {
	g, ok := w.gates[column]
	if !ok {
		if _, ok := w.empty[column]; ok {
			return Cell{Kind: CellFiller}
		}
		return Cell{Kind: CellNone}
	}

	if g.Related() {
		if dist, ok := w.ctrl[column]; ok {
			return Cell{Kind: CellControl, Distance: dist}
		}
	}

	supers := w.modifiers[column]
	if w.targ[column] {
		switch g.Family {
		case FamilyPhase:
			return Cell{Kind: CellPhase, Params: w.parameters[column]}
		case FamilyBitflip:
			return Cell{Kind: CellTarget}
		}
		_, size := utf8.DecodeLastRuneInString(g.Name)
		return Cell{Kind: CellGate, Name: g.Name[len(g.Name)-size:], Superscripts: supers}
	}

	if g.Family == FamilyPhase {
		return Cell{Kind: CellPhase, Params: w.parameters[column]}
	}
	return Cell{Kind: CellGate, Name: g.Name, Superscripts: supers}
}

// Markup renders the cell as Quantikz commands.
func (c Cell) Markup() string {
	switch c.Kind {
	case CellFiller:
		return Qw().String()
	case CellControl:
		return Ctrl(c.Distance).String()
	case CellTarget:
		return Targ().String()
	case CellPhase:
		if len(c.Params) == 0 {
			return Phase("").String()
		}
		var sb strings.Builder
		for _, p := range c.Params {
			sb.WriteString(Phase(p.String()).String())
		}
		return sb.String()
	case CellGate:
		var sb strings.Builder
		sb.WriteString(c.Name)
		for _, s := range c.Superscripts {
			sb.WriteString(Super(s).String())
		}
		return GateCmd(sb.String()).String()
	}
	return ""
}

// Rows returns the classified grid, one Row per qubit in ascending order.
func (d *Diagram) Rows() []Row {
	rows := make([]Row, 0, len(d.rows))
	for _, q := range d.rows {
		w := d.circuit[q]
		cells := make([]Cell, d.column)
		for c := range d.column {
			cells[c] = w.cell(c)
		}
		rows = append(rows, Row{Qubit: q, Cells: cells})
	}
	return rows
}

// String returns the document body: one line per row, cells joined by " & ",
// every row but the last ending in a row break.
func (d *Diagram) String() string {
	var sb strings.Builder
	rows := d.Rows()
	for i, r := range rows {
		sb.WriteString(d.settings.label(r.Qubit).String())
		for _, c := range r.Cells {
			if c.Kind == CellNone {
				continue
			}
			sb.WriteString(" & ")
			sb.WriteString(c.Markup())
		}
		for range d.settings.QubitLineOpenWireLength {
			sb.WriteString(" & ")
			sb.WriteString(Qw().String())
		}
		if i < len(rows)-1 {
			sb.WriteString(" ")
			sb.WriteString(Nr().String())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
