package regexconstraint

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by the ConfigError values Config.Validate
	// returns for out-of-range fields.
	ErrInvalidConfig = errors.New("regexconstraint: invalid config")
)

// CompileError wraps a failure to compile a pattern into a RegexConstraint.
type CompileError struct {
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("regexconstraint: compiling %q: %v", e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// panicOutOfRange is the out-of-range vocab index failure Next
// documents as a programmer error, distinct from the sticky invalid
// flag that covers language-level failure.
func panicOutOfRange(index uint32) {
	panic(fmt.Sprintf("regexconstraint: vocab index %d out of range", index))
}
