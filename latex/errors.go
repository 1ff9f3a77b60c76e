package latex

import (
	"errors"
	"fmt"
)

// ErrDuplicateQubit means a controlled gate lists the same qubit twice, so
// some control has no distinct target. The program has to be fixed; the
// diagram cannot be drawn.
var ErrDuplicateQubit = errors.New("controlled gate uses a qubit more than once")

// MaxImputeSpan is the widest qubit range imputation will fill.
const MaxImputeSpan = 1024

// ErrImputeSpan means imputation would add more than MaxImputeSpan rows.
var ErrImputeSpan = errors.New("qubit range too wide to impute")

// RelationshipError locates an ErrDuplicateQubit.
type RelationshipError struct {
	Qubit  uint64
	Column int
	Gate   string
}

func (e *RelationshipError) Error() string {
	return fmt.Sprintf("%s: qubit %d repeated in %s at column %d", ErrDuplicateQubit, e.Qubit, e.Gate, e.Column)
}

func (e *RelationshipError) Unwrap() error { return ErrDuplicateQubit }
