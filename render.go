package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"quilcirq/latex"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres s within the given visual width, truncating if needed.
func padCenter(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "")
	}
	total := width - w
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

// cellSymbol returns the wire glyph for a control or target cell.
func cellSymbol(c latex.Cell) string {
	switch c.Kind {
	case latex.CellControl:
		return "●"
	case latex.CellTarget:
		return "⊕"
	}
	return ""
}

// ──────────────────────────── Cell rendering ────────────────────────────

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
)

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly width visual characters wide.
func renderCell(info cellInfo, width int, hl cellHighlight) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", width)
	halfW := width / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", width-halfW-1)

	top, bot = emptyRow, emptyRow
	if info.vertAbove {
		top = vertRow
	}
	if info.vertBelow {
		bot = vertRow
	}

	dashL := (width - 1) / 2
	dashR := width - dashL - 1

	switch info.cell.Kind {
	case latex.CellControl, latex.CellTarget:
		mid = strings.Repeat("─", dashL) + gateStyle.Render(cellSymbol(info.cell)) + strings.Repeat("─", dashR)

	case latex.CellGate, latex.CellPhase:
		style := gateStyle
		if info.cell.Kind == latex.CellPhase {
			style = phaseStyle
		}
		label := cellLabel(info.cell)
		boxW := runewidth.StringWidth(label)
		margin := (width - boxW - 2) / 2
		rightMargin := width - margin - boxW - 2

		top = strings.Repeat(" ", margin) + style.Render("┌"+strings.Repeat("─", boxW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + style.Render("┤"+label+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + style.Render("└"+strings.Repeat("─", boxW)+"┘") + strings.Repeat(" ", rightMargin)
		if info.vertAbove {
			top = strings.Repeat(" ", margin) + style.Render("┌"+padCenter("┴", boxW)+"┐") + strings.Repeat(" ", rightMargin)
		}
		if info.vertBelow {
			bot = strings.Repeat(" ", margin) + style.Render("└"+padCenter("┬", boxW)+"┘") + strings.Repeat(" ", rightMargin)
		}

	case latex.CellNone:
		mid = emptyRow

	default:
		if info.passThrough {
			mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		} else {
			mid = strings.Repeat("─", width)
		}
	}

	if hl == hlCursor {
		top = cursorBoxStyle.Render("╔" + strings.Repeat("═", width-2) + "╗")
		bot = cursorBoxStyle.Render("╚" + strings.Repeat("═", width-2) + "╝")
	}
	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// visibleSteps returns the first column and the column widths that fit in
// availWidth while keeping the cursor column on screen.
func (m Model) visibleSteps(availWidth int) (int, []int) {
	if m.grid.Columns == 0 {
		return 0, nil
	}
	start := min(m.viewStartStep, m.cursorStep)
	for {
		used, n := 0, 0
		for c := start; c < m.grid.Columns; c++ {
			w := m.grid.getStepWidth(c)
			if n > 0 && used+w > availWidth {
				break
			}
			used += w
			n++
		}
		if m.cursorStep < start+n || start >= m.cursorStep {
			return start, m.grid.getStepWidths(start, n)
		}
		start++
	}
}

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	title := "Circuit"
	if m.focus == focusCircuit {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	if m.grid.NumQubits() == 0 {
		sb.WriteString(dimStyle.Render("  no qubits referenced"))
		return circuitStyle.Width(width).Height(height).Render(sb.String())
	}

	start, widths := m.visibleSteps(width - labelVisualW - 4)
	if start > 0 {
		fmt.Fprintf(&sb, "  ◀ showing columns %d–%d\n", start, start+len(widths)-1)
	}

	// Column number header
	header := strings.Repeat(" ", labelVisualW)
	for i, w := range widths {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", start+i), w))
	}
	sb.WriteString(header + "\n")

	// Render each qubit as 3 lines
	for r, row := range m.grid.Rows {
		topLine := strings.Repeat(" ", labelVisualW)
		label := fmt.Sprintf("q%d", row.Qubit)
		if !m.settings.LabelQubitLines {
			label = ""
		}
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for i, w := range widths {
			col := start + i
			hl := hlNone
			if m.focus == focusCircuit && col == m.cursorStep && r == m.cursorQubit {
				hl = hlCursor
			}
			top, mid, bot := renderCell(m.grid.getCellInfo(col, r), w, hl)
			topLine += top
			midLine += mid
			botLine += bot
		}
		for range m.settings.QubitLineOpenWireLength {
			midLine += "──"
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// Status line
	switch {
	case m.err != nil:
		fmt.Fprintf(&sb, "\n  %s", errorStyle.Render(m.err.Error()))
	default:
		fmt.Fprintf(&sb, "\n  Column %d, Qubit %d", m.cursorStep, m.cursorQubitID())
		if markup := m.cursorMarkup(); markup != "" {
			fmt.Fprintf(&sb, "  │  %s", gateStyle.Render(markup))
		}
		if m.statusMsg != "" {
			fmt.Fprintf(&sb, "  │  %s", activeGateStyle.Render(m.statusMsg))
		}
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderEditorPanel renders the Quil editor panel.
func (m Model) renderEditorPanel(width, height int) string {
	var sb strings.Builder

	title := "Quil Editor"
	if m.focus == focusEditor {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.editor.View())

	return editorStyle.Width(width).Height(height).Render(sb.String())
}

// renderLatexPanel renders the tail of the generated document body.
func (m Model) renderLatexPanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("LaTeX"))
	sb.WriteString("\n")

	lines := strings.Split(strings.TrimRight(m.body, "\n"), "\n")
	if keep := max(height-1, 1); len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	for _, line := range lines {
		sb.WriteString(runewidth.Truncate(line, max(width-4, 1), "…"))
		sb.WriteString("\n")
	}
	return latexStyle.Width(width).Height(height).Render(strings.TrimRight(sb.String(), "\n"))
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Move qubit  ←→/hl Move column")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("o"))
	sb.WriteString(" Settings\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("Tab Switch focus  ^S Save " + m.outputPath() + "  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}
