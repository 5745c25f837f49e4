package lr1constraint

import (
	"errors"
	"fmt"
)

// Sentinel errors for LR1Constraint construction and out-of-band misuse.
var (
	// ErrInvalidConfig is wrapped by the ConfigError values Config.Validate
	// returns for out-of-range fields.
	ErrInvalidConfig = errors.New("lr1constraint: invalid config")
)

// CompileError wraps a failure to assemble a constraint from its table,
// lexer, and vocabulary.
type CompileError struct {
	Err error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("lr1constraint: %v", e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// panicOutOfRange is the out-of-range vocab index failure Next documents
// as a programmer error, distinct from the sticky invalid flag that
// covers language-level failure.
func panicOutOfRange(index uint32) {
	panic(fmt.Sprintf("lr1constraint: vocab index %d out of range", index))
}
