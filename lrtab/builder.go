package lrtab

// Builder incrementally assembles an LR(1) action/goto table, playing
// the same role Table's doc comment describes for the package: a
// consumer of already-computed item-set data (as an external
// parser-generator would emit), not a generator itself. Every SetAction/
// SetGoto/AddProduction call is O(1); Build does a single validation
// pass and returns an immutable Table.
type Builder struct {
	numStates    int
	numTerminals int
	numNonterms  int
	start        StateID
	action       map[uint64]Action
	goTo         map[uint64]StateID
	productions  []Production
	err          error
}

// NewBuilder returns a Builder for a table with the given number of
// states, terminals, and nonterminals, starting at start.
func NewBuilder(numStates, numTerminals, numNonterms int, start StateID) *Builder {
	return &Builder{
		numStates:    numStates,
		numTerminals: numTerminals,
		numNonterms:  numNonterms,
		start:        start,
		action:       make(map[uint64]Action),
		goTo:         make(map[uint64]StateID),
	}
}

// SetAction registers the action for (state, terminal). A second,
// conflicting SetAction call for the same cell records a CompileError
// that Build will return: this is exactly how a non-LR(1) grammar
// manifests (a genuine LR(1) item-set construction never produces two
// different actions for the same state/lookahead pair).
func (b *Builder) SetAction(state StateID, terminal TerminalID, a Action) *Builder {
	if b.err != nil {
		return b
	}
	key := actionKey(state, terminal)
	if existing, ok := b.action[key]; ok && existing != a {
		b.err = &CompileError{State: state, Terminal: terminal, Err: ErrNotLR1}
		return b
	}
	b.action[key] = a
	return b
}

// SetGoto registers the goto transition for (state, nonterm).
func (b *Builder) SetGoto(state StateID, nonterm NonterminalID, target StateID) *Builder {
	if b.err != nil {
		return b
	}
	b.goTo[gotoKey(state, nonterm)] = target
	return b
}

// AddProduction registers a production and returns its assigned id.
func (b *Builder) AddProduction(p Production) ProductionID {
	id := ProductionID(len(b.productions))
	b.productions = append(b.productions, p)
	return id
}

// Build validates and returns the assembled Table.
func (b *Builder) Build() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.productions) == 0 {
		return nil, ErrNoProductions
	}
	return &Table{
		numStates:    b.numStates,
		numTerminals: b.numTerminals,
		numNonterms:  b.numNonterms,
		action:       b.action,
		goTo:         b.goTo,
		productions:  b.productions,
		start:        b.start,
	}, nil
}
