package lr1constraint

import (
	"hash/fnv"

	"github.com/coregx/constrain/lexdfa"
	"github.com/coregx/constrain/lrtab"
)

// pdaConfig is the LR(1) constraint's runtime configuration: the lexer
// state, the pending (uncommitted) lexeme bytes, and the parser stack
// signature, plus bookkeeping
// for the longest accept seen so far within the current pending lexeme
// (lastAcceptLen/lastAcceptKind), needed to commit a lexeme once the
// lexer dies mid-scan without having to replay pending from scratch.
type pdaConfig struct {
	lexerState     lexdfa.StateID
	pending        []byte
	stack          []lrtab.StateID
	lastAcceptLen  int // -1 if no accept seen yet within pending
	lastAcceptKind lexdfa.TokenKind
}

func newPDAConfig(start lrtab.StateID) pdaConfig {
	return pdaConfig{
		lexerState:    lexdfa.Start,
		stack:         []lrtab.StateID{start},
		lastAcceptLen: -1,
	}
}

// clone returns a deep copy of cfg: the stack and pending slices are
// independent, so mutating the clone (as a speculative trie-walk branch
// does) never affects cfg itself. Stacks stay shallow for realistic
// grammars, so plain copies beat a persistent copy-on-write structure
// here.
func (cfg pdaConfig) clone() pdaConfig {
	out := cfg
	out.pending = append([]byte(nil), cfg.pending...)
	out.stack = append([]lrtab.StateID(nil), cfg.stack...)
	return out
}

func (cfg *pdaConfig) top() lrtab.StateID {
	return cfg.stack[len(cfg.stack)-1]
}

// key computes the cache fingerprint for cfg: the full configuration
// tuple (lexer state, parser stack signature, pending bytes), hashed.
// Hashing the whole stack signature rather than a bounded top fragment
// keeps the key sound for arbitrarily deep reduction chains.
func (cfg *pdaConfig) key() configKey {
	h := fnv.New64a()
	for _, s := range cfg.stack {
		_, _ = h.Write([]byte{byte(s), byte(s >> 8), byte(s >> 16), byte(s >> 24)})
	}
	stackHash := h.Sum64()

	h2 := fnv.New64a()
	_, _ = h2.Write(cfg.pending)
	pendingHash := h2.Sum64()

	return configKey{
		lexerState:  cfg.lexerState,
		stackHash:   stackHash,
		pendingHash: pendingHash,
	}
}

// configKey is the hashable cache key derived from a pdaConfig.
type configKey struct {
	lexerState  lexdfa.StateID
	stackHash   uint64
	pendingHash uint64
}

// stepKey additionally incorporates the byte being stepped, the unit a
// single cache entry answers for.
type stepKey struct {
	configKey
	b byte
}
