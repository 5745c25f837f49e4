// Package parsetree models the in-memory result of an LR(1) parse: a
// tree of internal (nonterminal) nodes over leaf (lexeme) nodes, plus
// pure pruning transforms that simplify the tree without disturbing its
// left-to-right leaf order.
package parsetree

import (
	"github.com/alecthomas/repr"

	"github.com/coregx/constrain/lexdfa"
	"github.com/coregx/constrain/lrtab"
)

// Node is either an internal node (a reduction) or a leaf (a lexeme).
// Exactly one of the two shapes applies to a given Node: IsLeaf
// discriminates them.
type Node struct {
	IsLeaf bool

	// Internal node fields.
	Nonterm    lrtab.NonterminalID
	Production lrtab.ProductionID
	Children   []*Node

	// Leaf node fields.
	Kind lexdfa.TokenKind

	// Start and End are byte offsets into the original input, valid for
	// both leaves (the lexeme's span) and internal nodes (the span of
	// the leaves beneath it, i.e. Start == first child's Start and
	// End == last child's End; zero-width when Children is empty).
	Start, End int
}

// NewLeaf constructs a leaf node spanning input[start:end] and tagged
// with kind.
func NewLeaf(kind lexdfa.TokenKind, start, end int) *Node {
	return &Node{IsLeaf: true, Kind: kind, Start: start, End: end}
}

// NewInternal constructs an internal node for a reduction by prod to
// nonterm, over children. Start/End are derived from the children's
// span; an empty-RHS reduction produces a zero-width node at the
// position the reduction occurred.
func NewInternal(nonterm lrtab.NonterminalID, prod lrtab.ProductionID, children []*Node, pos int) *Node {
	n := &Node{
		IsLeaf:     false,
		Nonterm:    nonterm,
		Production: prod,
		Children:   children,
		Start:      pos,
		End:        pos,
	}
	if len(children) > 0 {
		n.Start = children[0].Start
		n.End = children[len(children)-1].End
	}
	return n
}

// IsEmpty reports whether n spans zero bytes, i.e. it is an internal
// node with no children (the result of a reduction with an empty
// right-hand side).
func (n *Node) IsEmpty() bool {
	return !n.IsLeaf && len(n.Children) == 0
}

// Leaves returns every leaf beneath n, in left-to-right order.
func (n *Node) Leaves() []*Node {
	if n == nil {
		return nil
	}
	if n.IsLeaf {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// SkipEmpty returns a copy of the tree with every zero-width internal
// subtree removed from its parent's children, applied bottom-up. A leaf
// is never removed, even if it happens to span zero bytes (an empty
// lexeme is a lexer-level concern, not a tree-shape one); only empty
// internal nodes are pruned. Leaf order is preserved, since removing a
// node with no leaves beneath it cannot change the remaining leaf
// sequence.
func SkipEmpty(n *Node) *Node {
	if n == nil || n.IsLeaf {
		return n
	}
	var kept []*Node
	for _, c := range n.Children {
		pruned := SkipEmpty(c)
		if pruned == nil {
			continue
		}
		if pruned.IsEmpty() {
			continue
		}
		kept = append(kept, pruned)
	}
	out := *n
	out.Children = kept
	return &out
}

// CollapseSingle returns a copy of the tree where every internal node
// with exactly one child is replaced by that child, applied bottom-up
// until fixpoint (so a chain of single-child reductions collapses to
// its innermost surviving node in one call). Leaf order is unaffected:
// a single-child internal node and its sole child have identical leaf
// sequences by construction.
func CollapseSingle(n *Node) *Node {
	if n == nil || n.IsLeaf {
		return n
	}
	children := make([]*Node, len(n.Children))
	for i, c := range n.Children {
		children[i] = CollapseSingle(c)
	}
	if len(children) == 1 {
		return children[0]
	}
	out := *n
	out.Children = children
	return &out
}

// Repr returns a debug pretty-print of the tree, built on
// github.com/alecthomas/repr, used by tests and the constrainctl CLI's
// --debug-tree flag.
func (n *Node) Repr() string {
	return repr.String(n, repr.Indent("  "))
}
