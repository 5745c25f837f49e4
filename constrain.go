// Package constrain answers, for byte prefixes checked against a
// formal language, which tokens of a fixed byte-level vocabulary can
// still extend the prefix into a member of the language.
//
// Two engines implement the same operation set: regexconstraint for
// regular languages and lr1constraint for deterministic context-free
// languages described by an LR(1) table plus a lexer DFA. The lr1parse
// package additionally produces parse trees (including trees of
// prefixes) over the same tables.
//
// Example:
//
//	v, _ := vocab.New(tokens)
//	c, _ := regexconstraint.New(`true|false`, v)
//	c.Reset(prefix)
//	for !c.IsMatch() && !c.IsInvalid() {
//		ids := c.Get() // admissible vocab indices, sorted
//		c.Next(uint32(pick(ids)))
//	}
package constrain

import (
	"github.com/coregx/constrain/lr1constraint"
	"github.com/coregx/constrain/regexconstraint"
	"github.com/coregx/constrain/vocab"
)

// Constraint is the operation set shared by both engines. Callers that
// don't care which language class they are constraining against can
// hold either engine behind this interface; Clone stays on the
// concrete types, since each returns its own kind.
//
// Implementations are single-caller: Reset, Get, and Next must not be
// interleaved across goroutines on one instance. The tables behind an
// instance are immutable and shared freely.
type Constraint interface {
	// Reset re-runs the engine from its start state over prefix; the
	// engine becomes invalid if prefix has left the language.
	Reset(prefix []byte)

	// Get returns the vocab token ids admissible from the current
	// state, sorted ascending; nil once invalid.
	Get() []vocab.TokenID

	// Next advances by vocab token index, marking the engine invalid
	// if the token has no admissible continuation. Panics on an
	// out-of-range index.
	Next(index uint32)

	// IsMatch reports whether the bytes consumed so far form a
	// complete member of the language.
	IsMatch() bool

	// IsInvalid reports the sticky invalid flag.
	IsInvalid() bool
}

var (
	_ Constraint = (*regexconstraint.Constraint)(nil)
	_ Constraint = (*lr1constraint.Constraint)(nil)
)
