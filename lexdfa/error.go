package lexdfa

import (
	"errors"
	"fmt"
)

// Sentinel errors for lexer DFA construction.
var (
	// ErrNoTokens is returned by Build when a lexer has zero declared
	// token kinds: there would be nothing to tokenize against.
	ErrNoTokens = errors.New("lexdfa: no token kinds declared")

	// ErrUnsupportedAssertion mirrors regexdfa's: a token pattern that
	// requires a look-around assertion has no meaning for a byte
	// continuation automaton that never knows "end of input" mid-stream.
	ErrUnsupportedAssertion = errors.New("lexdfa: token pattern uses an unsupported look-around assertion")
)

// CompileError wraps a failure to compile one token kind's pattern into
// the combined lexer automaton.
type CompileError struct {
	TokenName string
	Pattern   string
	Err       error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("lexdfa: compiling token %q (pattern %q): %v", e.TokenName, e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }
