package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"quilcirq/latex"
)

// Grid is the terminal view of a laid-out circuit: the same rows and
// classified cells that the LaTeX body is written from.
type Grid struct {
	Rows    []latex.Row
	Columns int

	// spans[c] lists the row ranges joined by a connector in column c.
	spans map[int][]rowSpan
}

type rowSpan struct{ lo, hi int }

// newGrid builds the terminal view of d. Connector spans are derived from
// the signed control distances, so they follow row order exactly as the
// LaTeX output does.
func newGrid(d *latex.Diagram) Grid {
	g := Grid{
		Rows:    d.Rows(),
		Columns: d.Columns(),
		spans:   make(map[int][]rowSpan),
	}
	for r, row := range g.Rows {
		for c, cell := range row.Cells {
			if cell.Kind != latex.CellControl {
				continue
			}
			t := r + cell.Distance
			g.spans[c] = append(g.spans[c], rowSpan{lo: min(r, t), hi: max(r, t)})
		}
	}
	return g
}

// NumQubits returns the number of rows.
func (g Grid) NumQubits() int { return len(g.Rows) }

// getStepWidth returns the cell width needed for the given column.
func (g Grid) getStepWidth(col int) int {
	maxW := minCellW
	for _, row := range g.Rows {
		if col >= len(row.Cells) {
			continue
		}
		cell := row.Cells[col]
		if cell.Kind != latex.CellGate && cell.Kind != latex.CellPhase {
			continue
		}
		maxW = max(maxW, cellWidthForName(cellLabel(cell)))
	}
	return maxW
}

// getStepWidths returns cell widths for columns in [start, start+count).
func (g Grid) getStepWidths(start, count int) []int {
	widths := make([]int, count)
	for i := range count {
		widths[i] = g.getStepWidth(start + i)
	}
	return widths
}

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	cell        latex.Cell
	vertAbove   bool
	vertBelow   bool
	passThrough bool
}

// getCellInfo returns rendering information for the cell at (col, row).
func (g Grid) getCellInfo(col, row int) cellInfo {
	var info cellInfo
	if row < 0 || row >= len(g.Rows) {
		return info
	}
	if cells := g.Rows[row].Cells; col >= 0 && col < len(cells) {
		info.cell = cells[col]
	}

	for _, s := range g.spans[col] {
		if row < s.lo || row > s.hi {
			continue
		}
		if row > s.lo {
			info.vertAbove = true
		}
		if row < s.hi {
			info.vertBelow = true
		}
		if row > s.lo && row < s.hi {
			switch info.cell.Kind {
			case latex.CellNone, latex.CellFiller:
				info.passThrough = true
			}
		}
	}
	return info
}

// cellLabel is the text drawn inside a gate or phase box.
func cellLabel(c latex.Cell) string {
	switch c.Kind {
	case latex.CellGate:
		var sb strings.Builder
		sb.WriteString(c.Name)
		for _, s := range c.Superscripts {
			if s == "dagger" {
				sb.WriteString("†")
				continue
			}
			sb.WriteString("^" + s)
		}
		return sb.String()
	case latex.CellPhase:
		params := make([]string, len(c.Params))
		for i, p := range c.Params {
			params[i] = p.Plain()
		}
		return fmt.Sprintf("P(%s)", strings.Join(params, ","))
	}
	return ""
}

// cellWidthForName returns the cell width needed for a box holding name.
func cellWidthForName(name string) int {
	return runewidth.StringWidth(name) + 2 + 2*gateMarginW
}
