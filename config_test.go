package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"quilcirq/latex"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSettingsDefault(t *testing.T) {
	s, err := loadSettings("")
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if s != latex.DefaultSettings() {
		t.Errorf("got %+v, want defaults", s)
	}
}

func TestLoadSettingsFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    func(latex.Settings) latex.Settings
	}{
		{
			name: "toml",
			file: "quilcirq.toml",
			content: `impute_missing_qubits = true
qubit_line_open_wire_length = 3
`,
			want: func(s latex.Settings) latex.Settings {
				s.ImputeMissingQubits = true
				s.QubitLineOpenWireLength = 3
				return s
			},
		},
		{
			name:    "yaml",
			file:    "quilcirq.yaml",
			content: "texify_numerical_constants: false\nlabel_qubit_lines: false\n",
			want: func(s latex.Settings) latex.Settings {
				s.TexifyNumericalConstants = false
				s.LabelQubitLines = false
				return s
			},
		},
		{
			name:    "empty yml",
			file:    "quilcirq.yml",
			content: "",
			want:    func(s latex.Settings) latex.Settings { return s },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loadSettings(writeConfig(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("loadSettings: %v", err)
			}
			if want := tt.want(latex.DefaultSettings()); got != want {
				t.Errorf("got %+v, want %+v", got, want)
			}
		})
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown toml key", "a.toml", "colour = true\n"},
		{"unknown yaml key", "a.yaml", "colour: true\n"},
		{"bad toml", "a.toml", "impute_missing_qubits = \n"},
		{"wrong type", "a.yaml", "label_qubit_lines: sometimes\n"},
		{"open wire too long", "a.toml", "qubit_line_open_wire_length = 1000\n"},
		{"unsupported extension", "a.json", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadSettings(writeConfig(t, tt.file, tt.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}

	if _, err := loadSettings(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestSettingsFlagsOverrideFile(t *testing.T) {
	cfg := writeConfig(t, "c.toml", "impute_missing_qubits = true\nlabel_qubit_lines = true\n")

	var f settingsFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.register(fs)
	if err := fs.Parse([]string{"--config", cfg, "--labels=false", "--open-wire", "2"}); err != nil {
		t.Fatal(err)
	}

	s, err := f.resolve(fs)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !s.ImputeMissingQubits {
		t.Error("impute from the file was lost")
	}
	if s.LabelQubitLines {
		t.Error("--labels=false did not override the file")
	}
	if s.QubitLineOpenWireLength != 2 {
		t.Errorf("open wire = %d, want 2", s.QubitLineOpenWireLength)
	}
	if !s.TexifyNumericalConstants {
		t.Error("unset --texify should keep the default")
	}
}

func TestSettingsFlagsRejectNegativeOpenWire(t *testing.T) {
	var f settingsFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.register(fs)
	if err := fs.Parse([]string{"--open-wire=-1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.resolve(fs); err == nil {
		t.Error("expected an error for a negative --open-wire")
	}
}
