// Package lr1parse drives a lexdfa.DFA and an lrtab.Table over a byte
// stream to produce a parsetree.Node, in both full-string and prefix
// modes.
//
// Token kind identity is shared by convention between the two input
// tables: lexdfa.TokenKind(i) and lrtab.TerminalID(i) name the same
// grammar terminal, the way a real lexer-generator/parser-generator
// pair would agree on a single enumeration of token kinds. Nothing in
// this package enforces that beyond numeric equality, since doing more
// would mean authoring the grammar/lexer-source cross-reference that
// belongs to an external table generator.
package lr1parse

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coregx/constrain/lexdfa"
	"github.com/coregx/constrain/lrtab"
	"github.com/coregx/constrain/parsetree"
)

// PartialNonterm and PartialProduction tag the synthetic wrapper node
// PrefixParse returns when, at the point parsing stops, the stack holds
// more than one unreduced symbol: there is no real grammar production
// for "everything shifted/reduced so far, not yet combined," so the
// wrapper is marked with these sentinel ids rather than a real
// production id.
const (
	PartialNonterm    lrtab.NonterminalID = ^lrtab.NonterminalID(0)
	PartialProduction lrtab.ProductionID  = ^lrtab.ProductionID(0)
)

// Parser drives lexdfa + lrtab over byte input.
type Parser struct {
	table *lrtab.Table
	lexer *lexdfa.DFA
	log   *zap.Logger
	id    uuid.UUID
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithLogger attaches a zap logger for load-time diagnostics. Never
// used on the parse hot path.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) { p.log = l }
}

// NewParser builds a Parser over an already-compiled table and lexer.
func NewParser(table *lrtab.Table, lexer *lexdfa.DFA, opts ...Option) *Parser {
	p := &Parser{table: table, lexer: lexer, log: zap.NewNop(), id: uuid.New()}
	for _, opt := range opts {
		opt(p)
	}
	p.log.Debug("lr1parse parser constructed",
		zap.Stringer("id", p.id),
		zap.Int("states", table.NumStates()),
		zap.Int("tokens", lexer.NumTokens()))
	return p
}

// ID returns this instance's debug correlation id.
func (p *Parser) ID() uuid.UUID {
	return p.id
}

type stackEntry struct {
	state lrtab.StateID
	node  *parsetree.Node
}

// Parse tokenizes and parses the entirety of input, returning a single
// tree rooted at the grammar's start symbol.
//
// Errors: a lexer dead-state with no prior accept yields *LexError; a
// table action of ActionError on a real lookahead yields *SyntaxError;
// reaching end-of-input with a defined-but-non-accepting state yields
// ErrIncomplete.
func (p *Parser) Parse(input []byte, skipEmpty, collapseSingle bool) (*parsetree.Node, error) {
	stack := []stackEntry{{state: p.table.Start()}}
	pos := 0

	for {
		kind, term, tokLen, atEOF, err := p.nextLookahead(input, pos)
		if err != nil {
			return nil, err
		}

		action := p.table.Action(stack[len(stack)-1].state, term)
		switch action.Type {
		case lrtab.ActionShift:
			if atEOF {
				// Table asked to shift on EOF: malformed table, treated
				// as a syntax error rather than a panic.
				return nil, &SyntaxError{Pos: pos, Lookahead: term}
			}
			leaf := parsetree.NewLeaf(kind, pos, pos+tokLen)
			stack = append(stack, stackEntry{state: action.Target, node: leaf})
			pos += tokLen

		case lrtab.ActionReduce:
			prod := p.table.Production(action.Production)
			n := len(prod.RHS)
			children := make([]*parsetree.Node, n)
			for i := n - 1; i >= 0; i-- {
				children[i] = stack[len(stack)-1].node
				stack = stack[:len(stack)-1]
			}
			gotoState, ok := p.table.Goto(stack[len(stack)-1].state, prod.LHS)
			if !ok {
				return nil, &SyntaxError{Pos: pos, Lookahead: term}
			}
			node := parsetree.NewInternal(prod.LHS, action.Production, children, pos)
			stack = append(stack, stackEntry{state: gotoState, node: node})

		case lrtab.ActionAccept:
			root := stack[len(stack)-1].node
			return applyPruning(root, skipEmpty, collapseSingle), nil

		default: // ActionError
			if atEOF {
				return nil, ErrIncomplete
			}
			return nil, &SyntaxError{Pos: pos, Lookahead: term}
		}
	}
}

// PrefixParse parses as much of input as forms complete, committed
// lexemes, stopping cleanly at the boundary of the final lexeme if it
// has not yet been confirmed (the lexer reached end of input still live,
// meaning more bytes could still extend or change the winning token).
//
// The returned suffix is always input[len(tree-consumed bytes):], i.e.
// everything after the last committed lexeme. When the stack holds more
// than one unreduced symbol at the stopping point, the returned tree is
// wrapped in a synthetic node tagged PartialNonterm/PartialProduction
// (see their doc comment); when exactly one symbol remains, that node
// is returned directly, matching what Parse would have produced for the
// same prefix had it been a complete, accepted input.
func (p *Parser) PrefixParse(input []byte, skipEmpty, collapseSingle bool) (*parsetree.Node, []byte, error) {
	stack := []stackEntry{{state: p.table.Start()}}
	pos := 0

	for pos < len(input) {
		kind, term, tokLen, sawDead, ok := p.nextDefiniteToken(input, pos)
		if !ok {
			if sawDead {
				return nil, nil, &LexError{Pos: pos}
			}
			// Lexeme in progress at end of input, not yet committed.
			break
		}

		action := p.table.Action(stack[len(stack)-1].state, term)
		switch action.Type {
		case lrtab.ActionShift:
			leaf := parsetree.NewLeaf(kind, pos, pos+tokLen)
			stack = append(stack, stackEntry{state: action.Target, node: leaf})
			pos += tokLen

		case lrtab.ActionReduce:
			prod := p.table.Production(action.Production)
			n := len(prod.RHS)
			children := make([]*parsetree.Node, n)
			for i := n - 1; i >= 0; i-- {
				children[i] = stack[len(stack)-1].node
				stack = stack[:len(stack)-1]
			}
			gotoState, ok := p.table.Goto(stack[len(stack)-1].state, prod.LHS)
			if !ok {
				return nil, nil, &SyntaxError{Pos: pos, Lookahead: term}
			}
			node := parsetree.NewInternal(prod.LHS, action.Production, children, pos)
			stack = append(stack, stackEntry{state: gotoState, node: node})

		case lrtab.ActionAccept:
			root := stack[len(stack)-1].node
			return applyPruning(root, skipEmpty, collapseSingle), input[pos:], nil

		default:
			return nil, nil, &SyntaxError{Pos: pos, Lookahead: term}
		}
	}

	if root, ok := p.tryAcceptEOF(stack); ok {
		return applyPruning(root, skipEmpty, collapseSingle), input[pos:], nil
	}
	root := buildPartialRoot(stack, pos)
	return applyPruning(root, skipEmpty, collapseSingle), input[pos:], nil
}

// tryAcceptEOF drives the reduce chain for an EOF lookahead on a copy
// of stack. If the chain reaches ActionAccept, the fully-reduced root
// is returned with ok=true; any other outcome leaves the caller's stack
// meaningful and returns ok=false.
func (p *Parser) tryAcceptEOF(stack []stackEntry) (*parsetree.Node, bool) {
	stack = append([]stackEntry(nil), stack...)
	for {
		action := p.table.Action(stack[len(stack)-1].state, lrtab.EOF)
		switch action.Type {
		case lrtab.ActionReduce:
			prod := p.table.Production(action.Production)
			n := len(prod.RHS)
			if n >= len(stack) {
				return nil, false
			}
			children := make([]*parsetree.Node, n)
			for i := n - 1; i >= 0; i-- {
				children[i] = stack[len(stack)-1].node
				stack = stack[:len(stack)-1]
			}
			gotoState, ok := p.table.Goto(stack[len(stack)-1].state, prod.LHS)
			if !ok {
				return nil, false
			}
			pos := 0
			if len(children) > 0 {
				pos = children[len(children)-1].End
			}
			node := parsetree.NewInternal(prod.LHS, action.Production, children, pos)
			stack = append(stack, stackEntry{state: gotoState, node: node})
		case lrtab.ActionAccept:
			return stack[len(stack)-1].node, true
		default:
			return nil, false
		}
	}
}

// buildPartialRoot collapses everything on stack below the bottom
// sentinel entry into a single tree, wrapping in a PartialNonterm node
// if more than one symbol remains unreduced.
func buildPartialRoot(stack []stackEntry, pos int) *parsetree.Node {
	children := make([]*parsetree.Node, 0, len(stack)-1)
	for _, e := range stack[1:] {
		children = append(children, e.node)
	}
	if len(children) == 1 {
		return children[0]
	}
	return parsetree.NewInternal(PartialNonterm, PartialProduction, children, pos)
}

// nextLookahead scans for the next token at pos, or reports EOF when
// pos has reached the end of input.
func (p *Parser) nextLookahead(input []byte, pos int) (kind lexdfa.TokenKind, term lrtab.TerminalID, tokLen int, atEOF bool, err error) {
	if pos >= len(input) {
		return 0, lrtab.EOF, 0, true, nil
	}
	res, ok := p.lexer.Scan(input, pos)
	if !ok {
		return 0, 0, 0, false, &LexError{Pos: pos}
	}
	return res.Kind, lrtab.TerminalID(res.Kind), res.Len, false, nil
}

// nextDefiniteToken scans for the next token at pos the way
// nextLookahead does, but additionally reports whether the lexer's DFA
// reached Dead during the scan (sawDead): if the scan ran off the end of
// input while the DFA could still grow the lexeme, the token is not yet
// confirmed and ok is false with sawDead false. An accept that covers
// the whole remaining input from a state with no live extension is
// definite — no future byte can change the longest match — and is
// committed even though the input ended.
func (p *Parser) nextDefiniteToken(input []byte, pos int) (kind lexdfa.TokenKind, term lrtab.TerminalID, tokLen int, sawDead bool, ok bool) {
	q := lexdfa.Start
	bestLen := -1
	var bestKind lexdfa.TokenKind

	i := pos
	for ; i < len(input); i++ {
		q = p.lexer.Step(q, input[i])
		if q == lexdfa.Dead {
			sawDead = true
			break
		}
		if k, isAccept := p.lexer.Accept(q); isAccept {
			bestLen = i - pos + 1
			bestKind = k
		}
	}

	if bestLen < 0 {
		return 0, 0, 0, sawDead, false
	}
	if !sawDead {
		if bestLen < len(input)-pos || p.lexer.CanExtend(q) {
			// The accept might not be the longest match once more
			// bytes arrive.
			return 0, 0, 0, false, false
		}
	}
	return bestKind, lrtab.TerminalID(bestKind), bestLen, sawDead, true
}

func applyPruning(n *parsetree.Node, skipEmpty, collapseSingle bool) *parsetree.Node {
	if skipEmpty {
		n = parsetree.SkipEmpty(n)
	}
	if collapseSingle {
		n = parsetree.CollapseSingle(n)
	}
	return n
}
