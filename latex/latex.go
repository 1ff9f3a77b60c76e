// Package latex draws Quil programs as Quantikz circuit diagrams.
//
// A program becomes a grid with one row per qubit and one column per gate.
// Controlled gates are linked by a signed row distance from each control to
// its target, computed after every row is known. The grid is then written
// out as a standalone LaTeX document using the TikZ quantikz library.
//
// # Supported gates and modifiers
//
//   - Pauli gates: I, X, Y, Z
//   - Hadamard: H
//   - Phase gates: PHASE, S, T
//   - Controlled phase: CZ, CPHASE
//   - Controlled X: CNOT, CCNOT
//   - User-defined gates from DEFGATE
//   - Modifiers: CONTROLLED, DAGGER
//
// Anything else is drawn as a plain gate box. Unknown parameter names are
// written as text and FORKED is ignored.
package latex

import "quilcirq/quil"

// Build lays out p and resolves every control/target pair. The returned
// Diagram is frozen.
func Build(p *quil.Program, settings Settings) (*Diagram, error) {
	d := newDiagram(settings)
	if err := d.populate(p.Gates(), p.UsedQubits()); err != nil {
		return nil, err
	}
	if settings.ImputeMissingQubits {
		if err := d.imputeMissingQubits(); err != nil {
			return nil, err
		}
	}
	if len(d.relationships) > 0 {
		d.resolveRelationships()
	}
	return d, nil
}

// Render returns p as a complete LaTeX document.
//
// Errors wrap ErrDuplicateQubit (as a *RelationshipError) or ErrImputeSpan.
func Render(p *quil.Program, settings Settings) (string, error) {
	d, err := Build(p, settings)
	if err != nil {
		return "", err
	}
	return NewDocument(d.String()).String(), nil
}
