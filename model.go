package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"quilcirq/latex"
	"quilcirq/quil"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusEditor
	focusMenu
)

// Model represents the previewer state. The editor text is the single
// source of truth; the grid and LaTeX body are rebuilt from it.
type Model struct {
	editor     textarea.Model
	settings   latex.Settings
	grid       Grid
	body       string // document body of the last good build
	err        error  // parse or layout error for the current text
	lastSource string

	path string // file the source was loaded from, "" for scratch

	cursorQubit   int // row index, not qubit id
	cursorStep    int
	viewStartStep int
	width         int
	height        int
	focus         focus
	statusMsg     string // transient status message (e.g. save confirmation)

	menuItem int
}

func initialModel(src, path string, settings latex.Settings) Model {
	ta := textarea.New()
	ta.Placeholder = "Write Quil here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)
	ta.SetValue(src)

	m := Model{
		editor:   ta,
		settings: settings,
		path:     path,
		focus:    focusCircuit,
	}
	m.rebuild()
	return m
}

// rebuild parses the editor text and lays it out again. On failure the
// previous grid stays on screen and err describes the problem.
func (m *Model) rebuild() {
	src := m.editor.Value()
	m.lastSource = src

	p, err := quil.Parse(src)
	if err != nil {
		m.err = err
		return
	}
	d, err := latex.Build(p, m.settings)
	if err != nil {
		m.err = err
		return
	}

	m.err = nil
	m.grid = newGrid(d)
	m.body = d.String()
	m.cursorQubit = min(m.cursorQubit, max(m.grid.NumQubits()-1, 0))
	m.cursorStep = min(m.cursorStep, max(m.grid.Columns-1, 0))
	m.viewStartStep = min(m.viewStartStep, m.cursorStep)
}

// document returns the full LaTeX file for the last good build.
func (m Model) document() string {
	return latex.NewDocument(m.body).String()
}

// outputPath is where ctrl+s writes the document.
func (m Model) outputPath() string {
	if m.path == "" {
		return "circuit.tex"
	}
	return strings.TrimSuffix(m.path, filepath.Ext(m.path)) + ".tex"
}

func (m Model) cursorQubitID() uint64 {
	if m.cursorQubit < len(m.grid.Rows) {
		return m.grid.Rows[m.cursorQubit].Qubit
	}
	return 0
}

// cursorMarkup returns the LaTeX for the cell under the cursor.
func (m Model) cursorMarkup() string {
	if m.cursorQubit >= len(m.grid.Rows) {
		return ""
	}
	cells := m.grid.Rows[m.cursorQubit].Cells
	if m.cursorStep >= len(cells) {
		return ""
	}
	return cells[m.cursorStep].Markup()
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		editorW := max(msg.Width/3-6, 20)
		m.editor.SetWidth(editorW)
		ctrlH := 6
		circH := msg.Height - ctrlH - 4
		editorH := max(circH-8, 4)
		m.editor.SetHeight(editorH)

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}
		if key == "ctrl+s" {
			m.save()
			return m, nil
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusEditor
				cmds = append(cmds, m.editor.Focus())
			case "o":
				m.focus = focusMenu
				m.menuItem = 0
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.grid.NumQubits()-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
					if m.cursorStep < m.viewStartStep {
						m.viewStartStep = m.cursorStep
					}
				}
			case "right", "l":
				if m.cursorStep < m.grid.Columns-1 {
					m.cursorStep++
				}
			}

		case focusMenu:
			switch key {
			case "esc", "o", "q":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(settingsMenu)-1 {
					m.menuItem++
				}
			case "left", "h", "-":
				settingsMenu[m.menuItem].apply(&m.settings, -1)
				m.rebuild()
			case "right", "l", "+", "=", "enter", " ":
				settingsMenu[m.menuItem].apply(&m.settings, 1)
				m.rebuild()
			}

		case focusEditor:
			switch key {
			case "tab", "esc":
				m.focus = focusCircuit
				m.editor.Blur()
			default:
				var cmd tea.Cmd
				m.editor, cmd = m.editor.Update(msg)
				cmds = append(cmds, cmd)
				if m.editor.Value() != m.lastSource {
					m.rebuild()
				}
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// save writes the current document next to the source file.
func (m *Model) save() {
	if m.err != nil {
		m.statusMsg = "Not saved: fix the error first"
		return
	}
	out := m.outputPath()
	if err := os.WriteFile(out, []byte(m.document()), 0o644); err != nil {
		m.statusMsg = fmt.Sprintf("Save error: %v", err)
		return
	}
	m.statusMsg = "Saved " + out
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sideWidth := m.width / 3
	circuitWidth := m.width - sideWidth - 4
	controlsHeight := 6
	topHeight := max(m.height-controlsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, topHeight)

	// The settings menu takes the LaTeX panel's place while open.
	latexHeight := max(topHeight/3, 4)
	lower := m.renderLatexPanel(sideWidth, latexHeight)
	if m.focus == focusMenu {
		lower = m.renderMenu()
	}
	editorPanel := m.renderEditorPanel(sideWidth, max(topHeight-lipgloss.Height(lower), 6))
	side := lipgloss.JoinVertical(lipgloss.Left, editorPanel, lower)

	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, side)
	return lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)
}
