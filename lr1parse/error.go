package lr1parse

import (
	"errors"
	"fmt"

	"github.com/coregx/constrain/lrtab"
)

// Sentinel errors returned by Parse/PrefixParse.
var (
	// ErrIncomplete is returned by Parse (never PrefixParse) when
	// the input lexes and parses cleanly but ends before the table
	// reaches ActionAccept.
	ErrIncomplete = errors.New("lr1parse: input ended before accept")
)

// LexError reports that the lexer reached Dead with no prior accept at
// position pos: the input cannot be tokenized starting there.
type LexError struct {
	Pos int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lr1parse: lex error at byte %d", e.Pos)
}

// SyntaxError reports that the parser table's action for the current
// state and lookahead is ActionError.
type SyntaxError struct {
	Pos       int
	Lookahead lrtab.TerminalID
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("lr1parse: syntax error at byte %d (lookahead terminal %d)", e.Pos, e.Lookahead)
}
