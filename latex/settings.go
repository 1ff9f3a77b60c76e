package latex

// Settings controls how a circuit is rendered. The zero value is not the
// default; start from DefaultSettings.
type Settings struct {
	// Map recognised parameter names (pi, alpha, ...) to symbols instead of literal text.
	TexifyNumericalConstants bool `toml:"texify_numerical_constants" yaml:"texify_numerical_constants"`
	// Add wires for unreferenced qubits between the lowest and highest used qubit,
	// so `CNOT 0 2` draws lines 0, 1 and 2.
	ImputeMissingQubits bool `toml:"impute_missing_qubits" yaml:"impute_missing_qubits"`
	// Start each row with a ket label instead of a bare wire.
	LabelQubitLines bool `toml:"label_qubit_lines" yaml:"label_qubit_lines"`
	// Reserved: write controlled rotations compactly, RX(pi) as X_{\pi}.
	AbbreviateControlledRotations bool `toml:"abbreviate_controlled_rotations" yaml:"abbreviate_controlled_rotations"`
	// Number of open wire cells appended to the right of every row.
	QubitLineOpenWireLength uint32 `toml:"qubit_line_open_wire_length" yaml:"qubit_line_open_wire_length"`
	// Reserved: align trailing measurements in the last column.
	RightAlignTerminalMeasurements bool `toml:"right_align_terminal_measurements" yaml:"right_align_terminal_measurements"`
}

// DefaultSettings returns the settings used when the caller has no preference.
func DefaultSettings() Settings {
	return Settings{
		TexifyNumericalConstants:       true,
		ImputeMissingQubits:            false,
		LabelQubitLines:                true,
		AbbreviateControlledRotations:  false,
		QubitLineOpenWireLength:        1,
		RightAlignTerminalMeasurements: true,
	}
}

// label returns the command that opens a row for qubit.
func (s Settings) label(qubit uint64) Command {
	if s.LabelQubitLines {
		return Lstick(qubit)
	}
	return Qw()
}

// symbol converts parameter text to a Symbol according to TexifyNumericalConstants.
func (s Settings) symbol(text string) Symbol {
	if s.TexifyNumericalConstants {
		return ResolveSymbol(text)
	}
	return LiteralSymbol(text)
}
