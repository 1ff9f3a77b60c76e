package latex

import "strings"

// controlPrefix is prepended once per CONTROLLED modifier. A composed name
// starting with it marks a multi-qubit relationship.
const controlPrefix = "C"

// Family is the rendering class of a gate, decided once from its name.
type Family int

const (
	FamilyGeneric Family = iota
	FamilyPhase          // PHASE, CPHASE, ...: drawn as \phase{param}
	FamilyBitflip        // NOT, CNOT, CCNOT, ...: target drawn as \targ{}
)

func classify(name string) Family {
	switch {
	case strings.Contains(name, "PHASE"):
		return FamilyPhase
	case strings.Contains(name, "NOT"):
		return FamilyBitflip
	}
	return FamilyGeneric
}

// Gate is the gate placed on a wire at one column.
type Gate struct {
	Name   string // composed with one controlPrefix per CONTROLLED modifier
	Family Family
}

// Related reports whether the gate takes part in a control/target relationship.
func (g Gate) Related() bool {
	return strings.HasPrefix(g.Name, controlPrefix)
}

// wire is everything placed on one qubit's row, keyed by column. A column has
// either a gate or a filler, never both; ctrl and targ only exist where a
// gate does.
type wire struct {
	qubit      uint64
	gates      map[int]Gate
	modifiers  map[int][]string
	parameters map[int][]Symbol
	ctrl       map[int]int
	targ       map[int]bool
	empty      map[int]Command
}

func newWire(qubit uint64) *wire {
	return &wire{
		qubit:      qubit,
		gates:      make(map[int]Gate),
		modifiers:  make(map[int][]string),
		parameters: make(map[int][]Symbol),
		ctrl:       make(map[int]int),
		targ:       make(map[int]bool),
		empty:      make(map[int]Command),
	}
}

// place records a gate at column along with its superscripts and parameters.
func (w *wire) place(column int, g Gate, supers []string, params []Symbol) {
	w.gates[column] = g
	delete(w.empty, column)
	if len(supers) > 0 {
		w.modifiers[column] = append([]string(nil), supers...)
	}
	if len(params) > 0 {
		w.parameters[column] = params
	}
}

// fill marks column as an empty stretch of wire unless a gate sits there.
func (w *wire) fill(column int) {
	if _, ok := w.gates[column]; ok {
		return
	}
	w.empty[column] = Qw()
}
