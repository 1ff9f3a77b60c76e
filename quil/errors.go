package quil

import "fmt"

// ParseError reports malformed Quil source at a 1-based line and column.
type ParseError struct {
	Line    int
	Column  int
	Message string
	Source  string // the offending line, when known
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message)
}
