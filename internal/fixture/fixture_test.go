package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coregx/constrain/lrtab"
)

func TestJSONGrammar_Builds(t *testing.T) {
	assert := assert.New(t)

	table, err := JSONGrammar()
	assert.NoError(err)
	assert.NotNil(table)
	assert.Greater(table.NumStates(), 0)
	assert.Equal(lrtab.StateID(0), table.Start())
}

func TestJSONLexer_Builds(t *testing.T) {
	assert := assert.New(t)

	lexer, err := JSONLexer()
	assert.NoError(err)
	assert.NotNil(lexer)
	assert.Equal(8, lexer.NumTokens())
}

func TestJSONVocab_Builds(t *testing.T) {
	assert := assert.New(t)

	v, err := JSONVocab()
	assert.NoError(err)
	assert.NotNil(v)
	assert.Greater(v.Size(), 0)
}

func TestBooleanLiteralVocab_Builds(t *testing.T) {
	assert := assert.New(t)

	v, err := BooleanLiteralVocab()
	assert.NoError(err)
	assert.Equal(5, v.Size())
}
