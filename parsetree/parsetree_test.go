package parsetree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coregx/constrain/lrtab"
)

func TestNewLeaf_Span(t *testing.T) {
	assert := assert.New(t)

	n := NewLeaf(3, 5, 9)
	assert.True(n.IsLeaf)
	assert.Equal(5, n.Start)
	assert.Equal(9, n.End)
}

func TestNewInternal_SpanFromChildren(t *testing.T) {
	assert := assert.New(t)

	a := NewLeaf(0, 0, 2)
	b := NewLeaf(1, 2, 5)
	n := NewInternal(0, 0, []*Node{a, b}, 0)

	assert.False(n.IsLeaf)
	assert.Equal(0, n.Start)
	assert.Equal(5, n.End)
	assert.False(n.IsEmpty())
}

func TestNewInternal_ZeroWidthWhenNoChildren(t *testing.T) {
	assert := assert.New(t)

	n := NewInternal(0, 0, nil, 7)
	assert.True(n.IsEmpty())
	assert.Equal(7, n.Start)
	assert.Equal(7, n.End)
}

func TestLeaves_InOrder(t *testing.T) {
	assert := assert.New(t)

	a := NewLeaf(0, 0, 1)
	b := NewLeaf(1, 1, 2)
	c := NewLeaf(2, 2, 3)
	inner := NewInternal(0, 0, []*Node{b, c}, 0)
	root := NewInternal(1, 1, []*Node{a, inner}, 0)

	leaves := root.Leaves()
	assert.Len(leaves, 3)
	assert.Equal(a, leaves[0])
	assert.Equal(b, leaves[1])
	assert.Equal(c, leaves[2])
}

func TestSkipEmpty_PrunesEmptyInternalSubtrees(t *testing.T) {
	assert := assert.New(t)

	leaf := NewLeaf(0, 0, 1)
	empty := NewInternal(0, 0, nil, 1)
	root := NewInternal(1, 1, []*Node{leaf, empty}, 0)

	pruned := SkipEmpty(root)
	assert.Len(pruned.Children, 1)
	assert.Equal(leaf, pruned.Children[0])
}

func TestSkipEmpty_NeverPrunesLeaves(t *testing.T) {
	assert := assert.New(t)

	zeroWidthLeaf := NewLeaf(0, 3, 3)
	root := NewInternal(1, 1, []*Node{zeroWidthLeaf}, 0)

	pruned := SkipEmpty(root)
	assert.Len(pruned.Children, 1)
	assert.True(pruned.Children[0].IsLeaf)
}

func TestCollapseSingle_CollapsesChainToFixpoint(t *testing.T) {
	assert := assert.New(t)

	leaf := NewLeaf(0, 0, 1)
	inner1 := NewInternal(0, 0, []*Node{leaf}, 0)
	inner2 := NewInternal(1, 1, []*Node{inner1}, 0)
	inner3 := NewInternal(2, 2, []*Node{inner2}, 0)

	collapsed := CollapseSingle(inner3)
	assert.True(collapsed.IsLeaf)
	assert.Equal(leaf, collapsed)
}

func TestCollapseSingle_LeavesMultiChildNodesAlone(t *testing.T) {
	assert := assert.New(t)

	a := NewLeaf(0, 0, 1)
	b := NewLeaf(1, 1, 2)
	root := NewInternal(0, 0, []*Node{a, b}, 0)

	collapsed := CollapseSingle(root)
	assert.False(collapsed.IsLeaf)
	assert.Len(collapsed.Children, 2)
}

func TestRepr_DoesNotPanic(t *testing.T) {
	assert := assert.New(t)

	n := NewInternal(lrtab.NonterminalID(0), lrtab.ProductionID(0), []*Node{NewLeaf(0, 0, 1)}, 0)
	assert.NotEmpty(n.Repr())
}
