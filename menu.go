package main

import (
	"fmt"
	"strings"

	"quilcirq/latex"
)

// menuItem is one adjustable render setting.
type menuItem struct {
	name  string
	hint  string
	value func(latex.Settings) string
	// apply nudges the setting; delta is -1 or +1. Booleans flip either way.
	apply func(s *latex.Settings, delta int)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// settingsMenu lists the settings the previewer can change.
var settingsMenu = []menuItem{
	{
		name:  "Texify constants",
		hint:  "pi → \\pi",
		value: func(s latex.Settings) string { return onOff(s.TexifyNumericalConstants) },
		apply: func(s *latex.Settings, _ int) { s.TexifyNumericalConstants = !s.TexifyNumericalConstants },
	},
	{
		name:  "Impute qubits",
		hint:  "fill gaps",
		value: func(s latex.Settings) string { return onOff(s.ImputeMissingQubits) },
		apply: func(s *latex.Settings, _ int) { s.ImputeMissingQubits = !s.ImputeMissingQubits },
	},
	{
		name:  "Label lines",
		hint:  "|q⟩",
		value: func(s latex.Settings) string { return onOff(s.LabelQubitLines) },
		apply: func(s *latex.Settings, _ int) { s.LabelQubitLines = !s.LabelQubitLines },
	},
	{
		name:  "Open wire",
		hint:  "trailing \\qw",
		value: func(s latex.Settings) string { return fmt.Sprintf("%d", s.QubitLineOpenWireLength) },
		apply: func(s *latex.Settings, delta int) {
			switch {
			case delta < 0 && s.QubitLineOpenWireLength > 0:
				s.QubitLineOpenWireLength--
			case delta > 0 && s.QubitLineOpenWireLength < maxOpenWire:
				s.QubitLineOpenWireLength++
			}
		},
	},
}

// renderMenu renders the settings panel.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Settings"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 34)))
	sb.WriteString("\n")

	for i, item := range settingsMenu {
		val := fmt.Sprintf("%-4s", item.value(m.settings))
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(gateStyle.Render(val))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(dimStyle.Render(val))
		}
		sb.WriteString(dimStyle.Render(" " + item.hint))
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Change  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
