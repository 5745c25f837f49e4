// Package lexdfa builds a single combined byte-level automaton out of a
// set of named token patterns and implements longest-match tokenization
// over it.
//
// It is the lexing half of the constraint interfaces' "drive a DFA +
// parser table" pipeline (see lrtab and lr1parse): where regexdfa answers
// "does this byte sequence match one pattern", a lexdfa.DFA answers
// "which token kind, if any, is the longest prefix of the remaining input
// that matches some declared token pattern." Subset construction here
// tracks the simultaneous progress of every token's Thompson NFA at once,
// the same epsilonClosure/move technique regexdfa.DFA uses,
// generalized across multiple programs instead of one.
//
// As with regexdfa, lexer authoring syntax lives elsewhere: callers
// declare token kinds as (name, byte regex, priority) triples via
// Builder rather than a textual lexer-source file, standing in for
// whatever an external parser-generator would emit.
package lexdfa

import (
	"fmt"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/coregx/constrain/internal/sparse"
	"github.com/coregx/constrain/nfa"
)

// StateID identifies a state of a DFA.
type StateID uint32

// TokenKind identifies a declared token kind by its position in the
// Builder's AddToken call sequence, which also doubles as declaration
// order for longest-match tie-breaking.
type TokenKind uint32

const (
	// Start is always the initial state of a freshly built DFA.
	Start StateID = 0

	// Dead is the sink state: no further bytes can extend the current
	// lexeme once reached.
	Dead StateID = 0xFFFFFFFF
)

// TokenSpec declares one token kind: a name, a byte-level regular
// expression, and a priority used to break ties against other token
// kinds whose patterns match the same bytes. Declaration order (the
// index at which a TokenSpec is added to a Builder) is the secondary
// tie-break, applied when priorities are also equal.
type TokenSpec struct {
	Name     string
	Pattern  string
	Priority int
}

type tokenProg struct {
	kind      TokenKind
	name      string
	priority  int
	declOrder int
	prog      *nfa.NFA
}

// progState names a single NFA state within one token's program; a
// combined DFA state is a set of these across every live program.
type progState struct {
	prog  int
	state nfa.StateID
}

type dfaState struct {
	set      []progState
	trans    map[byte]StateID
	accept   TokenKind
	isAccept bool
}

// DFA is the combined, lazily-determinized automaton over every declared
// token kind's patterns.
type DFA struct {
	progs  []tokenProg
	mu     sync.Mutex
	states []*dfaState
	byKey  map[uint64][]StateID
	live   map[progState]bool
}

// Builder incrementally assembles a set of token declarations before
// compiling them into a DFA, accepting already-known structure in place
// of parsing a textual lexer-source file.
type Builder struct {
	specs []TokenSpec
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddToken declares one token kind. Tokens are compiled in the order
// they are added; that order is the declaration-order tie-break used by
// longest-match scanning when priorities are equal.
func (b *Builder) AddToken(name, pattern string, priority int) *Builder {
	b.specs = append(b.specs, TokenSpec{Name: name, Pattern: pattern, Priority: priority})
	return b
}

// Build compiles every declared token kind and combines them into a
// single DFA.
func (b *Builder) Build() (*DFA, error) {
	return Compile(b.specs)
}

// Compile builds a combined lexer DFA directly from a list of token
// specs, without the incremental Builder.
func Compile(specs []TokenSpec) (*DFA, error) {
	if len(specs) == 0 {
		return nil, ErrNoTokens
	}

	d := &DFA{
		byKey: make(map[uint64][]StateID),
	}

	seeds := make([]progState, 0, len(specs))
	for i, spec := range specs {
		compiler := nfa.NewCompiler(nfa.CompilerConfig{UTF8: true, Anchored: true})
		prog, err := compiler.Compile(spec.Pattern)
		if err != nil {
			return nil, &CompileError{TokenName: spec.Name, Pattern: spec.Pattern, Err: err}
		}
		if err := rejectAssertions(prog); err != nil {
			return nil, &CompileError{TokenName: spec.Name, Pattern: spec.Pattern, Err: err}
		}
		d.progs = append(d.progs, tokenProg{
			kind:      TokenKind(i),
			name:      spec.Name,
			priority:  spec.Priority,
			declOrder: i,
			prog:      prog,
		})
		closure, err := epsilonClosure(prog, i, []nfa.StateID{prog.StartAnchored()})
		if err != nil {
			return nil, &CompileError{TokenName: spec.Name, Pattern: spec.Pattern, Err: err}
		}
		seeds = append(seeds, closure...)
	}

	d.live = computeLiveness(d.progs)
	d.internState(seeds) // registers Start (id 0)

	return d, nil
}

// Step consumes a single byte from state q, returning the resulting
// state or Dead if no declared token pattern can still extend the
// current lexeme with b appended.
func (d *DFA) Step(q StateID, b byte) StateID {
	if q == Dead {
		return Dead
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	st := d.states[q]
	if next, ok := st.trans[b]; ok {
		return next
	}

	var targets []progState
	for _, ps := range st.set {
		prog := d.progs[ps.prog].prog
		s := prog.State(ps.state)
		if s == nil {
			continue
		}
		switch s.Kind() {
		case nfa.StateByteRange:
			lo, hi, next := s.ByteRange()
			if b >= lo && b <= hi {
				targets = append(targets, progState{ps.prog, next})
			}
		case nfa.StateSparse:
			for _, tr := range s.Transitions() {
				if b >= tr.Lo && b <= tr.Hi {
					targets = append(targets, progState{ps.prog, tr.Next})
				}
			}
		}
	}
	if len(targets) == 0 {
		st.trans[b] = Dead
		return Dead
	}

	closure, err := closeMany(d.progs, targets)
	if err != nil || len(closure) == 0 {
		st.trans[b] = Dead
		return Dead
	}
	next := d.internState(closure)
	st.trans[b] = next
	return next
}

// Accept reports the winning token kind at q, if q is an accepting
// state for at least one token pattern. When more than one pattern
// accepts at q, the winner is the one with the highest Priority, then
// (on a further tie) the earliest declaration order.
func (d *DFA) Accept(q StateID) (TokenKind, bool) {
	if q == Dead {
		return 0, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.states[q]
	return st.accept, st.isAccept
}

// Live reports whether some byte sequence (possibly empty) fed to q can
// still reach an accepting state of any token pattern.
func (d *DFA) Live(q StateID) bool {
	if q == Dead {
		return false
	}
	d.mu.Lock()
	st := d.states[q]
	d.mu.Unlock()
	if st.isAccept {
		return true
	}
	for _, ps := range st.set {
		if d.live[ps] {
			return true
		}
	}
	return false
}

// CanExtend reports whether some single byte fed to q does not lead to
// Dead, i.e. whether the current lexeme can genuinely grow by at least
// one more byte. This is Live minus its "q is already accepting"
// shortcut: a state that only qualifies as Live because it is itself a
// match — and has no outgoing transition that leads anywhere but Dead,
// true of most fixed-literal tokens once matched — reports false here,
// which matters to a caller that needs to tell "this lexeme could still
// grow into something else" apart from "this lexeme is already
// complete, take it or leave it."
func (d *DFA) CanExtend(q StateID) bool {
	if q == Dead {
		return false
	}
	for b := 0; b < 256; b++ {
		if d.Step(q, byte(b)) != Dead {
			return true
		}
	}
	return false
}

// TokenName returns the declared name of kind, for diagnostics.
func (d *DFA) TokenName(kind TokenKind) string {
	return d.progs[kind].name
}

// NumTokens returns the number of declared token kinds.
func (d *DFA) NumTokens() int {
	return len(d.progs)
}

// ScanResult describes one longest-match lexeme found by Scan.
type ScanResult struct {
	Kind TokenKind
	Len  int
}

// Scan performs longest-match tokenization of buf starting at offset
// start: it walks forward remembering the last accepting state visited,
// and on reaching Dead (or end of input) emits the token kind of that
// last accept, with the read position unwound to just past it.
//
// If no accept was visited before Dead (or input ends with no active
// lexeme ever accepting), ok is false: tokenization fails at start.
func (d *DFA) Scan(buf []byte, start int) (result ScanResult, ok bool) {
	q := Start
	bestLen := -1
	var bestKind TokenKind

	for i := start; i < len(buf); i++ {
		q = d.Step(q, buf[i])
		if q == Dead {
			break
		}
		if kind, isAccept := d.Accept(q); isAccept {
			bestLen = i - start + 1
			bestKind = kind
		}
	}

	if bestLen < 0 {
		return ScanResult{}, false
	}
	return ScanResult{Kind: bestKind, Len: bestLen}, true
}

func (d *DFA) internState(set []progState) StateID {
	set = dedupeSort(set)
	key := progSetKey(set)
	for _, id := range d.byKey[key] {
		if progSetEqual(d.states[id].set, set) {
			return id
		}
	}

	kind, isAccept := d.winningAccept(set)
	id := StateID(len(d.states))
	d.states = append(d.states, &dfaState{
		set:      set,
		trans:    make(map[byte]StateID, 8),
		accept:   kind,
		isAccept: isAccept,
	})
	d.byKey[key] = append(d.byKey[key], id)
	return id
}

// winningAccept picks the highest-priority, earliest-declared token kind
// among the programs that are in a match state within set.
func (d *DFA) winningAccept(set []progState) (TokenKind, bool) {
	found := false
	var winner tokenProg
	for _, ps := range set {
		tp := d.progs[ps.prog]
		if !tp.prog.IsMatch(ps.state) {
			continue
		}
		if !found {
			winner = tp
			found = true
			continue
		}
		if tp.priority > winner.priority ||
			(tp.priority == winner.priority && tp.declOrder < winner.declOrder) {
			winner = tp
		}
	}
	return winner.kind, found
}

func dedupeSort(set []progState) []progState {
	sort.Slice(set, func(i, j int) bool {
		if set[i].prog != set[j].prog {
			return set[i].prog < set[j].prog
		}
		return set[i].state < set[j].state
	})
	out := set[:0]
	var last progState
	haveLast := false
	for _, ps := range set {
		if haveLast && ps == last {
			continue
		}
		out = append(out, ps)
		last = ps
		haveLast = true
	}
	return out
}

func progSetKey(set []progState) uint64 {
	h := fnv.New64a()
	for _, ps := range set {
		_, _ = h.Write([]byte{
			byte(ps.prog), byte(ps.prog >> 8),
			byte(ps.state), byte(ps.state >> 8), byte(ps.state >> 16), byte(ps.state >> 24),
		})
	}
	return h.Sum64()
}

func progSetEqual(a, b []progState) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// rejectAssertions mirrors regexdfa's: a token pattern with a
// look-around assertion has no meaning for a pure byte-continuation
// automaton.
func rejectAssertions(prog *nfa.NFA) error {
	it := prog.Iter()
	for it.HasNext() {
		if it.Next().Kind() == nfa.StateLook {
			return ErrUnsupportedAssertion
		}
	}
	return nil
}

// epsilonClosure expands seeds within a single program, tagging the
// result with progIdx so it can be merged into a cross-program set.
func epsilonClosure(prog *nfa.NFA, progIdx int, seeds []nfa.StateID) ([]progState, error) {
	seen := sparse.NewSparseSet(uint32(prog.States()))
	stack := make([]nfa.StateID, 0, len(seeds))
	for _, s := range seeds {
		if !seen.Contains(uint32(s)) {
			seen.Insert(uint32(s))
			stack = append(stack, s)
		}
	}

	push := func(id nfa.StateID) {
		if id == nfa.InvalidState {
			return
		}
		if !seen.Contains(uint32(id)) {
			seen.Insert(uint32(id))
			stack = append(stack, id)
		}
	}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := prog.State(cur)
		if s == nil {
			continue
		}
		switch s.Kind() {
		case nfa.StateEpsilon:
			push(s.Epsilon())
		case nfa.StateSplit:
			l, r := s.Split()
			push(l)
			push(r)
		case nfa.StateCapture:
			_, _, next := s.Capture()
			push(next)
		case nfa.StateLook:
			return nil, ErrUnsupportedAssertion
		}
	}

	out := make([]progState, 0, seen.Size())
	for _, v := range seen.Values() {
		out = append(out, progState{prog: progIdx, state: nfa.StateID(v)})
	}
	return out, nil
}

// closeMany groups targets by program and takes each program's epsilon
// closure independently, then merges the results.
func closeMany(progs []tokenProg, targets []progState) ([]progState, error) {
	byProg := make(map[int][]nfa.StateID)
	for _, ps := range targets {
		byProg[ps.prog] = append(byProg[ps.prog], ps.state)
	}
	var out []progState
	for progIdx, states := range byProg {
		closure, err := epsilonClosure(progs[progIdx].prog, progIdx, states)
		if err != nil {
			return nil, err
		}
		out = append(out, closure...)
	}
	return out, nil
}

// computeLiveness runs a reverse-reachability BFS from every match state
// within every token program independently (programs never share
// states, so there is nothing to merge across programs here).
func computeLiveness(progs []tokenProg) map[progState]bool {
	live := make(map[progState]bool)
	for progIdx, tp := range progs {
		reverse := make(map[nfa.StateID][]nfa.StateID)
		addEdge := func(from, to nfa.StateID) {
			if to == nfa.InvalidState {
				return
			}
			reverse[to] = append(reverse[to], from)
		}

		it := tp.prog.Iter()
		for it.HasNext() {
			s := it.Next()
			switch s.Kind() {
			case nfa.StateByteRange:
				_, _, next := s.ByteRange()
				addEdge(s.ID(), next)
			case nfa.StateSparse:
				for _, tr := range s.Transitions() {
					addEdge(s.ID(), tr.Next)
				}
			case nfa.StateSplit:
				l, r := s.Split()
				addEdge(s.ID(), l)
				addEdge(s.ID(), r)
			case nfa.StateEpsilon:
				addEdge(s.ID(), s.Epsilon())
			case nfa.StateCapture:
				_, _, next := s.Capture()
				addEdge(s.ID(), next)
			}
		}

		var queue []nfa.StateID
		it = tp.prog.Iter()
		for it.HasNext() {
			s := it.Next()
			if s.IsMatch() {
				live[progState{progIdx, s.ID()}] = true
				queue = append(queue, s.ID())
			}
		}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, from := range reverse[cur] {
				ps := progState{progIdx, from}
				if !live[ps] {
					live[ps] = true
					queue = append(queue, from)
				}
			}
		}
	}
	return live
}

// String returns a short debug description, useful in log fields of
// packages built on top of this one.
func (d *DFA) String() string {
	return fmt.Sprintf("lexdfa.DFA(tokens=%d, states=%d)", len(d.progs), len(d.states))
}
