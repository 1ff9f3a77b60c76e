package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"quilcirq/quil"
)

func TestReportParseError(t *testing.T) {
	color.NoColor = true

	_, perr := quil.Parse("H 0\nCNOT 0 )")
	if perr == nil {
		t.Fatal("expected a parse error")
	}

	var buf bytes.Buffer
	err := reportError(&buf, "bell.quil", perr)
	if !errors.Is(err, errReported) {
		t.Errorf("err = %v, want errReported", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "bell.quil:2:8: error: ") {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != " 2 | CNOT 0 )" {
		t.Errorf("source line = %q", lines[1])
	}
	if lines[2] != "   |        ^" {
		t.Errorf("caret line = %q", lines[2])
	}
}

func TestReportOtherError(t *testing.T) {
	plain := errors.New("boom")
	err := reportError(&bytes.Buffer{}, "", plain)
	if errors.Is(err, errReported) || !errors.Is(err, plain) {
		t.Errorf("err = %v", err)
	}
	if !strings.HasPrefix(err.Error(), "<stdin>: ") {
		t.Errorf("err = %q, want <stdin> prefix", err)
	}
}

func TestCaretIndent(t *testing.T) {
	tests := []struct {
		src  string
		col  int
		want string
	}{
		{"CNOT 0 )", 1, ""},
		{"CNOT 0 )", 8, "       "},
		{"\tX )", 4, "\t  "},
		{"X", 9, " "},
	}
	for _, tt := range tests {
		if got := caretIndent(tt.src, tt.col); got != tt.want {
			t.Errorf("caretIndent(%q, %d) = %q, want %q", tt.src, tt.col, got, tt.want)
		}
	}
}
