package lr1parse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coregx/constrain/internal/fixture"
	"github.com/coregx/constrain/lr1parse"
)

func jsonParser(t *testing.T) *lr1parse.Parser {
	t.Helper()
	table, err := fixture.JSONGrammar()
	assert.NoError(t, err)
	lexer, err := fixture.JSONLexer()
	assert.NoError(t, err)
	return lr1parse.NewParser(table, lexer)
}

// Token kind numbering, matching fixture.json's declaration order:
// LBRACE=0 RBRACE=1 LBRACKET=2 RBRACKET=3 COMMA=4 COLON=5 STRING=6 NUMBER=7
const (
	kLBrace   = 0
	kRBrace   = 1
	kLBracket = 2
	kRBracket = 3
	kComma    = 4
	kColon    = 5
	kString   = 6
	kNumber   = 7
)

// Production ids, matching fixture.jsonProductions declaration order.
const (
	pObject     = 4
	pMembersOne = 5
	pPair       = 7
	pArray      = 8
	pItemsMany  = 10
)

func TestParser_Parse_NestedObjectWithArray(t *testing.T) {
	assert := assert.New(t)
	p := jsonParser(t)

	root, err := p.Parse([]byte(`{"k":[1,2]}`), true, true)
	assert.NoError(err)
	assert.NotNil(root)

	assert.False(root.IsLeaf)
	assert.EqualValues(pObject, root.Production)
	assert.Len(root.Children, 3)
	assert.True(root.Children[0].IsLeaf)
	assert.EqualValues(kLBrace, root.Children[0].Kind)
	assert.True(root.Children[2].IsLeaf)
	assert.EqualValues(kRBrace, root.Children[2].Kind)

	pair := root.Children[1]
	assert.False(pair.IsLeaf)
	assert.EqualValues(pPair, pair.Production)
	assert.Len(pair.Children, 3)
	assert.True(pair.Children[0].IsLeaf)
	assert.EqualValues(kString, pair.Children[0].Kind)
	assert.True(pair.Children[1].IsLeaf)
	assert.EqualValues(kColon, pair.Children[1].Kind)

	array := pair.Children[2]
	assert.False(array.IsLeaf)
	assert.EqualValues(pArray, array.Production)
	assert.Len(array.Children, 3)
	assert.True(array.Children[0].IsLeaf)
	assert.EqualValues(kLBracket, array.Children[0].Kind)
	assert.True(array.Children[2].IsLeaf)
	assert.EqualValues(kRBracket, array.Children[2].Kind)

	items := array.Children[1]
	assert.False(items.IsLeaf)
	assert.EqualValues(pItemsMany, items.Production)
	assert.Len(items.Children, 3)
	assert.True(items.Children[0].IsLeaf)
	assert.EqualValues(kNumber, items.Children[0].Kind)
	assert.True(items.Children[1].IsLeaf)
	assert.EqualValues(kComma, items.Children[1].Kind)
	assert.True(items.Children[2].IsLeaf)
	assert.EqualValues(kNumber, items.Children[2].Kind)

	assert.Len(root.Leaves(), 9)
}

func TestParser_Parse_SingleObjectMember(t *testing.T) {
	assert := assert.New(t)
	p := jsonParser(t)

	root, err := p.Parse([]byte(`{"a":1}`), true, true)
	assert.NoError(err)
	assert.EqualValues(pObject, root.Production)
	pair := root.Children[1]
	assert.EqualValues(pPair, pair.Production)
	assert.True(pair.Children[2].IsLeaf)
	assert.EqualValues(kNumber, pair.Children[2].Kind)
}

func TestParser_Parse_SyntaxError(t *testing.T) {
	assert := assert.New(t)
	p := jsonParser(t)

	_, err := p.Parse([]byte(`{"a":}`), true, true)
	assert.Error(err)
	var se *lr1parse.SyntaxError
	assert.ErrorAs(err, &se)
}

func TestParser_Parse_Incomplete(t *testing.T) {
	assert := assert.New(t)
	p := jsonParser(t)

	_, err := p.Parse([]byte(`{"a":1`), true, true)
	assert.ErrorIs(err, lr1parse.ErrIncomplete)
}

func TestParser_PrefixParse_StopsAtInProgressLexeme(t *testing.T) {
	assert := assert.New(t)
	p := jsonParser(t)

	root, suffix, err := p.PrefixParse([]byte(`{"key`), true, true)
	assert.NoError(err)
	assert.True(root.IsLeaf)
	assert.EqualValues(kLBrace, root.Kind)
	assert.Equal([]byte(`"key`), suffix)
}

func TestParser_PrefixParse_RetainsCommittedLexemes(t *testing.T) {
	assert := assert.New(t)
	p := jsonParser(t)

	root, suffix, err := p.PrefixParse([]byte(`{"k"`), true, true)
	assert.NoError(err)
	assert.False(root.IsLeaf)
	assert.EqualValues(lr1parse.PartialProduction, root.Production)
	assert.Len(root.Children, 2)
	assert.EqualValues(kLBrace, root.Children[0].Kind)
	assert.EqualValues(kString, root.Children[1].Kind)
	assert.Empty(suffix)
}

func TestParser_PrefixParse_CompleteInputAccepts(t *testing.T) {
	assert := assert.New(t)
	p := jsonParser(t)

	root, suffix, err := p.PrefixParse([]byte(`{"a":1}`), true, true)
	assert.NoError(err)
	assert.Empty(suffix)
	assert.EqualValues(pObject, root.Production)
}
