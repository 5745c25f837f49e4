// Package regexconstraint implements the regex constraint engine: a
// regexdfa.DFA plus a precomputed per-state continuation table mapping
// each reachable state to the sorted set of vocabulary indices
// admissible from it.
//
// Continuation sets are computed by a depth-first walk of the
// vocabulary's byte trie carrying the current DFA state, emitting a
// token's id at a trie leaf iff the resulting state is
// regexdfa.DFA.Live — cutting the naive
// O(states * sum(token length)) precomputation down to work linear in
// the trie's edges. Because regexdfa.DFA is itself a lazily-determinized
// automaton (states are discovered on demand, not enumerated up front),
// this package precomputes eagerly only for Start and every state one
// byte away from Start — fanned out across Config.PrecomputeWorkers
// worker goroutines, since per-state walks are independent of each
// other — and falls back to computing (and memoizing)
// any other state's continuation set lazily the first time Get needs it.
package regexconstraint

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coregx/constrain/regexdfa"
	"github.com/coregx/constrain/vocab"
)

// contCache is the continuation-table cache, shared by pointer across a
// Constraint and every Clone of it: continuation sets are immutable
// once computed, so sharing the map and the lock that guards it
// across instances is always safe and avoids recomputing a state's set
// once any sibling instance already has.
type contCache struct {
	mu   sync.RWMutex
	sets map[regexdfa.StateID][]vocab.TokenID
}

// Constraint is the regex constraint engine runtime.
type Constraint struct {
	dfa  *regexdfa.DFA
	v    *vocab.ByteVocab
	cfg  Config
	log  *zap.Logger
	id   uuid.UUID
	cont *contCache

	cur     regexdfa.StateID
	invalid bool
}

// Option configures a Constraint at construction time.
type Option func(*options)

type options struct {
	config Config
	logger *zap.Logger
}

// WithConfig overrides the default Config.
func WithConfig(c Config) Option {
	return func(o *options) { o.config = c }
}

// WithLogger attaches a zap logger for compile-time and precomputation
// diagnostics. Never used on the reset/get/next hot path.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New compiles pattern into a RegexDFA over v's alphabet and eagerly
// warms the continuation table for Start and its immediate neighbors.
func New(pattern string, v *vocab.ByteVocab, opts ...Option) (*Constraint, error) {
	o := options{config: DefaultConfig(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.config.Validate(); err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	dfa, err := regexdfa.Compile(pattern)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	c := &Constraint{
		dfa:  dfa,
		v:    v,
		cfg:  o.config,
		log:  o.logger,
		id:   id,
		cont: &contCache{sets: make(map[regexdfa.StateID][]vocab.TokenID)},
		cur:  regexdfa.Start,
	}
	c.warmStart()
	return c, nil
}

// warmStart precomputes the continuation set for Start and every
// state reachable from Start by a single byte, fanning the per-state
// trie walks out across c.cfg.PrecomputeWorkers goroutines.
func (c *Constraint) warmStart() {
	seeds := map[regexdfa.StateID]struct{}{regexdfa.Start: {}}
	for b := 0; b < 256; b++ {
		next := c.dfa.Step(regexdfa.Start, byte(b))
		if next != regexdfa.Dead {
			seeds[next] = struct{}{}
		}
	}

	states := make([]regexdfa.StateID, 0, len(seeds))
	for q := range seeds {
		states = append(states, q)
	}

	work := make(chan regexdfa.StateID, len(states))
	for _, q := range states {
		work <- q
	}
	close(work)

	var wg sync.WaitGroup
	workers := c.cfg.PrecomputeWorkers
	if workers > len(states) {
		workers = len(states)
	}
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := range work {
				c.computeAndStore(q)
			}
		}()
	}
	wg.Wait()

	c.log.Debug("regexconstraint continuation table warmed",
		zap.Int("states", len(states)), zap.Int("workers", workers))
}

// continuation returns the memoized continuation set for q, computing
// (and storing) it on first request.
func (c *Constraint) continuation(q regexdfa.StateID) []vocab.TokenID {
	c.cont.mu.RLock()
	set, ok := c.cont.sets[q]
	c.cont.mu.RUnlock()
	if ok {
		return set
	}
	return c.computeAndStore(q)
}

func (c *Constraint) computeAndStore(q regexdfa.StateID) []vocab.TokenID {
	set := c.computeContinuation(q)

	c.cont.mu.Lock()
	if len(c.cont.sets) < c.cfg.MaxContinuationCacheStates {
		c.cont.sets[q] = set
	}
	c.cont.mu.Unlock()
	return set
}

// computeContinuation runs the trie-driven precomputation for
// a single state: a DFS over the vocabulary trie carrying q, emitting a
// token id at a trie leaf iff the resulting DFA state is Live.
func (c *Constraint) computeContinuation(q regexdfa.StateID) []vocab.TokenID {
	if q == regexdfa.Dead {
		return nil
	}
	var out []vocab.TokenID
	var walk func(node *vocab.TrieNode, state regexdfa.StateID)
	walk = func(node *vocab.TrieNode, state regexdfa.StateID) {
		if id, isToken := node.Token(); isToken && c.dfa.Live(state) {
			out = append(out, id)
		}
		node.Each(func(b byte, child *vocab.TrieNode) {
			next := c.dfa.Step(state, b)
			if next == regexdfa.Dead || !c.dfa.Live(next) {
				return
			}
			walk(child, next)
		})
	}
	walk(c.v.Root(), q)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Reset drives the DFA from Start over prefix, marking Invalid if it
// dies.
func (c *Constraint) Reset(prefix []byte) {
	c.cur = c.dfa.Run(regexdfa.Start, prefix)
	c.invalid = c.cur == regexdfa.Dead
}

// Get returns the sorted vocab token ids admissible from the current
// state, or nil if the constraint is Invalid.
func (c *Constraint) Get() []vocab.TokenID {
	if c.invalid {
		return nil
	}
	return c.continuation(c.cur)
}

// Next advances the DFA by vocab token index's bytes, marking Invalid
// if it dies. Panics if index is out of range.
func (c *Constraint) Next(index uint32) {
	if c.invalid {
		return
	}
	bytes, err := c.v.Bytes(vocab.TokenID(index))
	if err != nil {
		panicOutOfRange(index)
	}
	c.cur = c.dfa.Run(c.cur, bytes)
	c.invalid = c.cur == regexdfa.Dead
}

// IsMatch reports whether the current state is an accepting state.
func (c *Constraint) IsMatch() bool {
	return !c.invalid && c.dfa.IsMatch(c.cur)
}

// IsInvalid reports the sticky invalid flag.
func (c *Constraint) IsInvalid() bool {
	return c.invalid
}

// ID returns this instance's debug correlation id.
func (c *Constraint) ID() uuid.UUID {
	return c.id
}

// Clone returns an independent constraint sharing the same DFA,
// vocabulary, and continuation-table cache (continuation sets are
// immutable once computed and safe to share across instances),
// but with its own runtime state and a new debug id.
func (c *Constraint) Clone() *Constraint {
	id, err := uuid.NewRandom()
	if err != nil {
		id = c.id
	}
	return &Constraint{
		dfa:     c.dfa,
		v:       c.v,
		cfg:     c.cfg,
		log:     c.log,
		id:      id,
		cont:    c.cont, // shared cache, guarded by its own lock
		cur:     c.cur,
		invalid: c.invalid,
	}
}
