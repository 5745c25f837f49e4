// Package vocab models a fixed, closed vocabulary of byte strings (the
// decoding vocabulary of a language model) as both a flat id-indexed table
// and a byte trie, the two views constraint engines need to precompute and
// then serve per-state token admissibility.
package vocab

import (
	"github.com/coregx/ahocorasick"
	"go.uber.org/zap"
)

// TokenID indexes a single vocabulary entry.
type TokenID uint32

// ByteVocab is an immutable, closed vocabulary: a fixed list of byte
// strings indexed by TokenID, plus a trie over those strings so that
// constraint engines can walk all tokens sharing a prefix in one pass.
type ByteVocab struct {
	tokens [][]byte
	root   *TrieNode
	log    *zap.Logger
}

// Option configures a ByteVocab at construction time.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger attaches a zap logger used to report vocabulary construction
// diagnostics (the token count). Defaults to zap.NewNop() when omitted.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds a ByteVocab from tokens, indexed by position: tokens[i] has
// TokenID(i). Each entry is copied, so callers can reuse or mutate the
// slice they passed in afterward.
func New(tokens [][]byte, opts ...Option) (*ByteVocab, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyVocab
	}

	cfg := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	v := &ByteVocab{
		tokens: make([][]byte, len(tokens)),
		root:   newTrieNode(),
		log:    cfg.logger,
	}

	seen := make(map[string]TokenID, len(tokens))
	for i, t := range tokens {
		id := TokenID(i)
		cp := make([]byte, len(t))
		copy(cp, t)
		v.tokens[i] = cp

		if _, dup := seen[string(cp)]; dup {
			return nil, &BuildError{TokenID: id, Err: ErrDuplicateToken}
		}
		seen[string(cp)] = id

		v.root.insert(cp, id)
	}

	v.log.Debug("vocab built", zap.Int("tokens", len(v.tokens)))
	return v, nil
}

// Size returns the number of tokens in the vocabulary.
func (v *ByteVocab) Size() int {
	return len(v.tokens)
}

// Bytes returns the byte string for id.
func (v *ByteVocab) Bytes(id TokenID) ([]byte, error) {
	if int(id) >= len(v.tokens) {
		return nil, ErrUnknownToken
	}
	return v.tokens[id], nil
}

// Root returns the root of the vocabulary's byte trie, the entry point
// for a prefix-synchronized walk against an automaton.
func (v *ByteVocab) Root() *TrieNode {
	return v.root
}

// Encode greedily tokenizes s into the longest matching vocabulary tokens
// at each position, left to right, walking the trie built in New. Bytes
// that match no token anywhere in the vocabulary cause an error: a closed
// vocabulary has no "unknown token" fallback the way a subword tokenizer
// does.
func (v *ByteVocab) Encode(s []byte) ([]TokenID, error) {
	var out []TokenID
	pos := 0
	for pos < len(s) {
		id, n, ok := v.longestMatchAt(s, pos)
		if !ok {
			return nil, &BuildError{Err: ErrUnknownToken}
		}
		out = append(out, id)
		pos += n
	}
	return out, nil
}

// longestMatchAt walks the trie from s[pos:], returning the longest
// vocabulary token that is a prefix of s[pos:], if any.
func (v *ByteVocab) longestMatchAt(s []byte, pos int) (id TokenID, n int, ok bool) {
	cur := v.root
	for i := pos; i < len(s); i++ {
		cur = cur.Child(s[i])
		if cur == nil {
			break
		}
		if t, isToken := cur.Token(); isToken {
			id, n, ok = t, i-pos+1, true
		}
	}
	return id, n, ok
}

// StopScanner reports, for a growing output buffer, whether any of a
// fixed set of stop tokens has appeared, using a single Aho-Corasick
// automaton over the stop set's byte strings rather than re-scanning with
// each token individually. This is the "large literal alternation" case
// the rest of the corpus reaches for Aho-Corasick to handle: the vocab
// trie is the wrong tool here because the scan is over generated output
// bytes, not over vocabulary token boundaries.
type StopScanner struct {
	auto *ahocorasick.Automaton
}

// NewStopScanner builds a scanner for the given stop token ids.
func NewStopScanner(v *ByteVocab, stopTokens []TokenID) (*StopScanner, error) {
	builder := ahocorasick.NewBuilder()
	for _, id := range stopTokens {
		b, err := v.Bytes(id)
		if err != nil {
			return nil, err
		}
		builder.AddPattern(b)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &StopScanner{auto: auto}, nil
}

// Hit reports whether any stop token occurs anywhere in buf.
func (s *StopScanner) Hit(buf []byte) bool {
	return s.auto.IsMatch(buf)
}
