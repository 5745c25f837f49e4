package lrtab

import (
	"errors"
	"fmt"
)

// Sentinel errors for LR(1) table construction.
var (
	// ErrNoProductions is returned by Build when zero productions were
	// registered: there would be nothing to reduce to.
	ErrNoProductions = errors.New("lrtab: no productions declared")

	// ErrNotLR1 is returned by Build when the same (state, terminal)
	// cell was assigned two conflicting actions: the underlying grammar
	// this table was generated from is not LR(1).
	ErrNotLR1 = errors.New("lrtab: grammar is not LR(1)")
)

// CompileError wraps a failure to assemble a well-formed LR(1) table.
type CompileError struct {
	State    StateID
	Terminal TerminalID
	Err      error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("lrtab: state %d, terminal %d: %v", e.State, e.Terminal, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }
