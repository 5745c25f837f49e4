// Package regexdfa builds a byte-level deterministic automaton from a
// regular expression and exposes it as a steppable state machine rather
// than a string-search engine.
//
// It sits directly on top of the nfa package's Thompson construction
// (github.com/coregx/constrain/nfa): a pattern is compiled once to an NFA,
// and DFA states are discovered lazily by subset construction the first
// time a byte transition is taken, stripped down to whole-string,
// anchored membership matching with no word-boundary machinery.
//
// A RegexDFA never backtracks and never allocates once its transition
// table is warm: Step is an O(1) map lookup on the cache-hit path.
package regexdfa

import (
	"fmt"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/coregx/constrain/internal/sparse"
	"github.com/coregx/constrain/nfa"
)

// StateID identifies a state of a RegexDFA.
type StateID uint32

const (
	// Start is always the initial state of a freshly compiled DFA.
	Start StateID = 0

	// Dead is the sink state: once reached, no further bytes can lead to
	// a match and every subsequent Step stays at Dead.
	Dead StateID = 0xFFFFFFFF
)

type state struct {
	nfaSet  []nfa.StateID
	isMatch bool
	trans   map[byte]StateID
}

// DFA is a lazily-determinized, byte-level automaton recognizing the
// language of a single regular expression.
//
// States are discovered on demand: compiling a pattern only builds the
// start state, and every other state is materialized the first time Step
// walks a new transition. Once materialized, a state's transitions are
// cached for the lifetime of the DFA.
type DFA struct {
	pattern string
	prog    *nfa.NFA
	mu      sync.Mutex // guards states/byKey; Step may discover new states concurrently
	states  []*state
	byKey   map[uint64][]StateID // hash bucket, collisions resolved by set equality
	live    map[nfa.StateID]bool
}

// Compile parses and compiles pattern into a RegexDFA.
//
// The pattern is compiled with anchored, byte-oriented semantics: Step
// advances strictly left to right from Start, and IsMatch reports whether
// the bytes consumed so far form a complete match of the whole pattern,
// the same semantics a constrained decoding loop needs when it asks "is
// this candidate continuation still a legal prefix of the language."
//
// Patterns that require a look-around assertion (^, $, \b, \B, \A, \z)
// fail to compile with ErrUnsupportedAssertion wrapped in a CompileError;
// see that error's doc comment for the rationale.
func Compile(pattern string) (*DFA, error) {
	compiler := nfa.NewCompiler(nfa.CompilerConfig{
		UTF8:     true,
		Anchored: true,
	})
	prog, err := compiler.Compile(pattern)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	if err := rejectAssertions(prog); err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	d := &DFA{
		pattern: pattern,
		prog:    prog,
		byKey:   make(map[uint64][]StateID),
	}
	d.live = computeLiveness(prog)

	seeds, err := epsilonClosure(prog, []nfa.StateID{prog.StartAnchored()})
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	d.internState(seeds) // registers Start (id 0)

	return d, nil
}

// Step consumes a single byte from state q and returns the resulting
// state, or Dead if no continuation of the input consumed so far can ever
// match with b appended.
//
// Step(Dead, b) == Dead for any b: Dead is absorbing. Step is safe to call
// concurrently from multiple goroutines (a continuation-table
// precomputation walk does exactly that); newly discovered states are
// serialized behind an internal lock.
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

	targets := move(d.prog, st.nfaSet, b)
	if len(targets) == 0 {
		st.trans[b] = Dead
		return Dead
	}
	closure, err := epsilonClosure(d.prog, targets)
	if err != nil || len(closure) == 0 {
		st.trans[b] = Dead
		return Dead
	}
	next := d.internState(closure)
	st.trans[b] = next
	return next
}

// Run steps through every byte of buf starting from q and returns the
// final state, short-circuiting to Dead the moment the run can no longer
// match.
func (d *DFA) Run(q StateID, buf []byte) StateID {
	for _, b := range buf {
		q = d.Step(q, b)
		if q == Dead {
			return Dead
		}
	}
	return q
}

// IsMatch reports whether q is an accepting state, i.e. whether the bytes
// consumed to reach q form a complete match of the pattern.
func (d *DFA) IsMatch(q StateID) bool {
	if q == Dead {
		return false
	}
	d.mu.Lock()
	st := d.states[q]
	d.mu.Unlock()
	return st.isMatch
}

// Live reports whether any byte sequence (possibly empty) exists that,
// fed to q, reaches a match state. A state for which Live returns false
// can be treated exactly like Dead by a caller: nothing it can still
// consume will ever complete a match.
//
// The underlying per-NFA-state liveness bits are computed once at Compile
// time by a reverse-reachability walk from match states (see
// computeLiveness), so Live itself is O(|nfaSet|) with no further graph
// traversal.
func (d *DFA) Live(q StateID) bool {
	if q == Dead {
		return false
	}
	d.mu.Lock()
	st := d.states[q]
	d.mu.Unlock()
	if st.isMatch {
		return true
	}
	for _, nid := range st.nfaSet {
		if d.live[nid] {
			return true
		}
	}
	return false
}

// Pattern returns the source pattern this DFA was compiled from.
func (d *DFA) Pattern() string {
	return d.pattern
}

// internState returns the StateID for nfaSet, creating and registering a
// new state the first time this exact set (independent of element order)
// is seen.
func (d *DFA) internState(nfaSet []nfa.StateID) StateID {
	sort.Slice(nfaSet, func(i, j int) bool { return nfaSet[i] < nfaSet[j] })
	key := stateSetKey(nfaSet)
	for _, id := range d.byKey[key] {
		if stateSetEqual(d.states[id].nfaSet, nfaSet) {
			return id
		}
	}

	id := StateID(len(d.states))
	d.states = append(d.states, &state{
		nfaSet:  nfaSet,
		isMatch: containsMatch(d.prog, nfaSet),
		trans:   make(map[byte]StateID, 8),
	})
	d.byKey[key] = append(d.byKey[key], id)
	return id
}

func stateSetKey(states []nfa.StateID) uint64 {
	h := fnv.New64a()
	for _, sid := range states {
		_, _ = h.Write([]byte{byte(sid), byte(sid >> 8), byte(sid >> 16), byte(sid >> 24)})
	}
	return h.Sum64()
}

func stateSetEqual(a, b []nfa.StateID) bool {
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

func containsMatch(prog *nfa.NFA, states []nfa.StateID) bool {
	for _, sid := range states {
		if prog.IsMatch(sid) {
			return true
		}
	}
	return false
}

// rejectAssertions walks every state of prog and fails if any is a
// look-around assertion. See ErrUnsupportedAssertion.
func rejectAssertions(prog *nfa.NFA) error {
	it := prog.Iter()
	for it.HasNext() {
		s := it.Next()
		if s.Kind() == nfa.StateLook {
			return ErrUnsupportedAssertion
		}
	}
	return nil
}

// epsilonClosure expands seeds across epsilon, split, capture and
// quantifier-split states, stopping at byte-consuming or match states.
// No word-boundary resolution: look-around states are rejected at
// compile time rather than conditionally followed.
func epsilonClosure(prog *nfa.NFA, seeds []nfa.StateID) ([]nfa.StateID, error) {
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

	out := make([]nfa.StateID, 0, seen.Size())
	for _, v := range seen.Values() {
		out = append(out, nfa.StateID(v))
	}
	return out, nil
}

// move computes the set of NFA states directly reachable from states by
// consuming byte b, without taking the resulting epsilon closure.
func move(prog *nfa.NFA, states []nfa.StateID, b byte) []nfa.StateID {
	var out []nfa.StateID
	seen := make(map[nfa.StateID]struct{})
	add := func(id nfa.StateID) {
		if id == nfa.InvalidState {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, sid := range states {
		s := prog.State(sid)
		if s == nil {
			continue
		}
		switch s.Kind() {
		case nfa.StateByteRange:
			lo, hi, next := s.ByteRange()
			if b >= lo && b <= hi {
				add(next)
			}
		case nfa.StateSparse:
			for _, tr := range s.Transitions() {
				if b >= tr.Lo && b <= tr.Hi {
					add(tr.Next)
				}
			}
		}
	}
	return out
}

// computeLiveness determines, for every NFA state, whether some byte
// string (possibly empty) drives it to a match state. It walks the
// reverse graph of consuming, split, epsilon and capture edges starting
// from every match state, mirroring a standard reverse-reachability BFS;
// the forward edges it reverses are the same ones move/epsilonClosure
// follow.
func computeLiveness(prog *nfa.NFA) map[nfa.StateID]bool {
	reverse := make(map[nfa.StateID][]nfa.StateID)
	addEdge := func(from, to nfa.StateID) {
		if to == nfa.InvalidState {
			return
		}
		reverse[to] = append(reverse[to], from)
	}

	it := prog.Iter()
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

	live := make(map[nfa.StateID]bool)
	var queue []nfa.StateID
	it = prog.Iter()
	for it.HasNext() {
		s := it.Next()
		if s.IsMatch() {
			live[s.ID()] = true
			queue = append(queue, s.ID())
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, from := range reverse[cur] {
			if !live[from] {
				live[from] = true
				queue = append(queue, from)
			}
		}
	}
	return live
}

// String returns a short debug description of the DFA's discovered state
// count, useful for logging alongside Config.PrecomputeWorkers diagnostics
// in packages built on top of this one.
func (d *DFA) String() string {
	return fmt.Sprintf("regexdfa.DFA(pattern=%q, states=%d)", d.pattern, len(d.states))
}
