// Package lr1constraint implements the LR(1) constraint engine: it pairs
// a lexdfa.DFA and an lrtab.Table with a parser-stack representation and
// a pda-state cache to answer, for every vocabulary token, whether
// driving the combined lexer+parser through that token's bytes can still
// lead to an accepted string.
//
// Constraint operations never return an error for a language-level
// failure: reset/next set the sticky Invalid flag instead. Only
// construction can fail, and only when Config.Validate rejects the
// config or a debug id cannot be generated; the table, lexer and
// vocabulary are taken as given.
package lr1constraint

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coregx/constrain/lexdfa"
	"github.com/coregx/constrain/lrtab"
	"github.com/coregx/constrain/vocab"
)

// Constraint is the LR(1) constraint engine runtime. It owns a single
// pdaConfig and is not safe for concurrent reset/get/next calls from
// multiple goroutines; Clone produces an independent copy sharing
// the same immutable tables.
type Constraint struct {
	table *lrtab.Table
	lexer *lexdfa.DFA
	vocab *vocab.ByteVocab
	cfg   Config
	log   *zap.Logger
	id    uuid.UUID

	drv     *driver
	cur     pdaConfig
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

// WithLogger attaches a zap logger for pda-cache eviction diagnostics.
// The eviction line is logged from within Reset, Get and Next, whenever
// a step's cache insert evicts older entries.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds an LR1Constraint over an already-compiled table, lexer, and
// vocabulary.
func New(table *lrtab.Table, lexer *lexdfa.DFA, v *vocab.ByteVocab, opts ...Option) (*Constraint, error) {
	o := options{config: DefaultConfig(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.config.Validate(); err != nil {
		return nil, &CompileError{Err: err}
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, &CompileError{Err: err}
	}

	c := &Constraint{
		table: table,
		lexer: lexer,
		vocab: v,
		cfg:   o.config,
		log:   o.logger,
		id:    id,
	}
	c.drv = newDriver(table, lexer, o.config, o.logger)
	c.cur = newPDAConfig(table.Start())
	return c, nil
}

// Reset drives the constraint from a fresh start state over prefix,
// marking Invalid if the prefix does not lex and parse cleanly. A
// trailing, in-progress lexeme is fine and is retained as pending
// bytes/lexer state.
func (c *Constraint) Reset(prefix []byte) {
	c.cur = newPDAConfig(c.table.Start())
	c.invalid = false
	for _, b := range prefix {
		if !c.drv.step(&c.cur, b) {
			c.invalid = true
			return
		}
	}
}

// Get returns the sorted vocab token ids admissible from the current
// configuration, or nil if the constraint is Invalid.
//
// Admissibility is decided in one trie-driven batch: a DFS over vocab.Root(),
// threading a speculative clone of the current config through each
// trie edge via driver.step, pruning a branch the instant step fails,
// and emitting a leaf's token id iff the walk to reach it never failed
// and the resulting config is driver.viable.
func (c *Constraint) Get() []vocab.TokenID {
	if c.invalid {
		return nil
	}

	var out []vocab.TokenID
	var walk func(node *vocab.TrieNode, cfg pdaConfig)
	walk = func(node *vocab.TrieNode, cfg pdaConfig) {
		if id, isToken := node.Token(); isToken {
			if c.drv.viable(&cfg) {
				out = append(out, id)
			}
		}
		node.Each(func(b byte, child *vocab.TrieNode) {
			next := cfg.clone()
			if c.drv.step(&next, b) {
				walk(child, next)
			}
		})
	}
	walk(c.vocab.Root(), c.cur)

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Next commits to vocab token index, driving the real configuration
// through its bytes. Marks Invalid if any byte fails to produce an
// admissible configuration, or if the resulting configuration has no
// admissible continuation at all (every byte lexed, but the grammar
// can no longer reach an accepted string — a token Get would not have
// returned). Panics if index is out of range: an out-of-range vocab
// index is a programmer error, not a language-level one.
func (c *Constraint) Next(index uint32) {
	if c.invalid {
		return
	}
	bytes, err := c.vocab.Bytes(vocab.TokenID(index))
	if err != nil {
		panicOutOfRange(index)
	}
	for _, b := range bytes {
		if !c.drv.step(&c.cur, b) {
			c.invalid = true
			return
		}
	}
	if !c.drv.viable(&c.cur) {
		c.invalid = true
	}
}

// IsMatch reports whether the current configuration, with no further
// input, reaches the grammar's accept action.
func (c *Constraint) IsMatch() bool {
	if c.invalid {
		return false
	}
	return c.drv.isMatch(&c.cur)
}

// IsInvalid reports the sticky invalid flag.
func (c *Constraint) IsInvalid() bool {
	return c.invalid
}

// ID returns this instance's debug correlation id.
func (c *Constraint) ID() uuid.UUID {
	return c.id
}

// Clone returns an independent constraint sharing the same immutable
// table/lexer/vocab and cache configuration (a fresh cache, since
// caches are per-instance), but with its own copy of the current
// runtime state and a new debug id.
func (c *Constraint) Clone() *Constraint {
	id, err := uuid.NewRandom()
	if err != nil {
		id = c.id
	}
	clone := &Constraint{
		table:   c.table,
		lexer:   c.lexer,
		vocab:   c.vocab,
		cfg:     c.cfg,
		log:     c.log,
		id:      id,
		cur:     c.cur.clone(),
		invalid: c.invalid,
	}
	clone.drv = newDriver(c.table, c.lexer, c.cfg, c.log)
	return clone
}
