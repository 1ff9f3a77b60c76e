package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"quilcirq/latex"
)

// maxOpenWire bounds QubitLineOpenWireLength from flags, files and requests.
const maxOpenWire = 64

// loadSettings reads render settings from a .toml, .yaml or .yml file.
// Keys missing from the file keep their defaults.
func loadSettings(path string) (latex.Settings, error) {
	s := latex.DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&s)
		if err != nil {
			return s, fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return s, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return s, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return s, fmt.Errorf("config %s: unsupported extension %q (want .toml, .yaml or .yml)", path, ext)
	}

	if s.QubitLineOpenWireLength > maxOpenWire {
		return s, fmt.Errorf("config %s: qubit_line_open_wire_length %d exceeds %d", path, s.QubitLineOpenWireLength, maxOpenWire)
	}
	return s, nil
}

// settingsFlags are the command-line overrides for render settings.
type settingsFlags struct {
	config   string
	texify   bool
	impute   bool
	labels   bool
	openWire int
}

func (f *settingsFlags) register(fs *pflag.FlagSet) {
	def := latex.DefaultSettings()
	fs.StringVar(&f.config, "config", "", "settings file (.toml, .yaml)")
	fs.BoolVar(&f.texify, "texify", def.TexifyNumericalConstants, "write known constants (pi, alpha, ...) as symbols")
	fs.BoolVar(&f.impute, "impute", def.ImputeMissingQubits, "draw unused qubits between the lowest and highest used one")
	fs.BoolVar(&f.labels, "labels", def.LabelQubitLines, "label each qubit line with its ket")
	fs.IntVar(&f.openWire, "open-wire", int(def.QubitLineOpenWireLength), "trailing wire cells per row")
}

// resolve loads the config file and applies the flags that were set
// explicitly, so a flag always wins over the file.
func (f *settingsFlags) resolve(fs *pflag.FlagSet) (latex.Settings, error) {
	s, err := loadSettings(f.config)
	if err != nil {
		return s, err
	}

	if fs.Changed("texify") {
		s.TexifyNumericalConstants = f.texify
	}
	if fs.Changed("impute") {
		s.ImputeMissingQubits = f.impute
	}
	if fs.Changed("labels") {
		s.LabelQubitLines = f.labels
	}
	if fs.Changed("open-wire") {
		n, err := safecast.Conv[uint32](f.openWire)
		if err != nil || n > maxOpenWire {
			return s, fmt.Errorf("--open-wire must be between 0 and %d, got %d", maxOpenWire, f.openWire)
		}
		s.QubitLineOpenWireLength = n
	}
	return s, nil
}
