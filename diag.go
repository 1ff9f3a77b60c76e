package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"quilcirq/latex"
	"quilcirq/quil"
)

// errReported marks an error whose diagnostic was already written.
var errReported = errors.New("error reported")

var (
	diagErrorColor = color.New(color.FgRed, color.Bold)
	diagPathColor  = color.New(color.Bold)
	diagCaretColor = color.New(color.FgGreen, color.Bold)
	diagGutter     = color.New(color.FgBlue)
)

// reportError writes a compiler-style diagnostic for err:
//
//	bell.quil:3:8: error: expected a qubit, found ')'
//	   3 | CNOT 0 )
//	     |        ^
//
// It returns an error wrapping errReported so callers can exit non-zero
// without printing the message twice.
func reportError(w io.Writer, path string, err error) error {
	if path == "" {
		path = "<stdin>"
	}

	var pe *quil.ParseError
	if errors.As(err, &pe) {
		fmt.Fprintf(w, "%s %s %s\n",
			diagPathColor.Sprintf("%s:%d:%d:", path, pe.Line, pe.Column),
			diagErrorColor.Sprint("error:"),
			pe.Message)
		if pe.Source != "" {
			num := fmt.Sprintf("%d", pe.Line)
			pad := strings.Repeat(" ", len(num))
			fmt.Fprintf(w, " %s %s %s\n", diagGutter.Sprint(num), diagGutter.Sprint("|"), pe.Source)
			fmt.Fprintf(w, " %s %s %s%s\n", pad, diagGutter.Sprint("|"), caretIndent(pe.Source, pe.Column), diagCaretColor.Sprint("^"))
		}
		return fmt.Errorf("%s: %w", path, errReported)
	}

	var re *latex.RelationshipError
	if errors.As(err, &re) {
		fmt.Fprintf(w, "%s %s %s\n",
			diagPathColor.Sprintf("%s:", path),
			diagErrorColor.Sprint("error:"),
			re.Error())
		return fmt.Errorf("%s: %w", path, errReported)
	}

	return fmt.Errorf("%s: %w", path, err)
}

// caretIndent returns the whitespace placing a caret under column col,
// keeping tabs so the caret lines up with the echoed source.
func caretIndent(src string, col int) string {
	var sb strings.Builder
	for i := 0; i < col-1 && i < len(src); i++ {
		if src[i] == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
