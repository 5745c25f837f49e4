package lr1constraint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coregx/constrain/internal/fixture"
	"github.com/coregx/constrain/lr1constraint"
	"github.com/coregx/constrain/vocab"
)

func jsonConstraint(t *testing.T) (*lr1constraint.Constraint, *vocab.ByteVocab) {
	t.Helper()
	table, err := fixture.JSONGrammar()
	assert.NoError(t, err)
	lexer, err := fixture.JSONLexer()
	assert.NoError(t, err)
	v, err := fixture.JSONVocab()
	assert.NoError(t, err)

	c, err := lr1constraint.New(table, lexer, v)
	assert.NoError(t, err)
	return c, v
}

func tokenNamed(t *testing.T, v *vocab.ByteVocab, ids []vocab.TokenID, want string) bool {
	t.Helper()
	for _, id := range ids {
		b, err := v.Bytes(id)
		assert.NoError(t, err)
		if string(b) == want {
			return true
		}
	}
	return false
}

func TestConstraint_Get_AfterOpenStringKey_OnlyColonAdmissible(t *testing.T) {
	assert := assert.New(t)
	c, v := jsonConstraint(t)

	c.Reset([]byte(`{"key"`))
	assert.False(c.IsInvalid())

	got := c.Get()
	assert.True(tokenNamed(t, v, got, ":"))
	assert.False(tokenNamed(t, v, got, "}"))
	assert.False(tokenNamed(t, v, got, ","))
}

func TestConstraint_Get_AfterPairValue_CommaOrCloseAdmissible(t *testing.T) {
	assert := assert.New(t)
	c, v := jsonConstraint(t)

	c.Reset([]byte(`{"a":1`))
	assert.False(c.IsInvalid())

	got := c.Get()
	assert.True(tokenNamed(t, v, got, ","))
	assert.True(tokenNamed(t, v, got, "}"))
	assert.True(tokenNamed(t, v, got, "2"))
	assert.False(tokenNamed(t, v, got, ":"))
}

func TestConstraint_Reset_InvalidOnBadByte(t *testing.T) {
	assert := assert.New(t)
	c, _ := jsonConstraint(t)

	c.Reset([]byte(`@`))
	assert.True(c.IsInvalid())
	assert.Nil(c.Get())
}

func TestConstraint_IsMatch_CompleteObject(t *testing.T) {
	assert := assert.New(t)
	c, _ := jsonConstraint(t)

	c.Reset([]byte(`{"a":1}`))
	assert.False(c.IsInvalid())
	assert.True(c.IsMatch())
}

func TestConstraint_IsMatch_FalseWhenIncomplete(t *testing.T) {
	assert := assert.New(t)
	c, _ := jsonConstraint(t)

	c.Reset([]byte(`{"a":1`))
	assert.False(c.IsMatch())
}

func TestConstraint_Next_InadmissibleTokenInvalidates(t *testing.T) {
	assert := assert.New(t)
	c, v := jsonConstraint(t)

	c.Reset([]byte(`{"key"`))
	var closeID vocab.TokenID
	found := false
	for i := 0; i < v.Size(); i++ {
		b, err := v.Bytes(vocab.TokenID(i))
		assert.NoError(err)
		if string(b) == "}" {
			closeID = vocab.TokenID(i)
			found = true
		}
	}
	assert.True(found)

	// "}" lexes fine here but the grammar can never recover: a pair
	// needs ":" after its key.
	c.Next(uint32(closeID))
	assert.True(c.IsInvalid())
	assert.Nil(c.Get())
}

func TestConstraint_Next_AdmissibleTokenStaysValid(t *testing.T) {
	assert := assert.New(t)
	c, v := jsonConstraint(t)

	c.Reset([]byte(`{"key"`))
	for _, id := range c.Get() {
		clone := c.Clone()
		clone.Next(uint32(id))
		b, _ := v.Bytes(id)
		assert.False(clone.IsInvalid(), "token %q", b)
	}
}

func TestConstraint_Clone_IndependentState(t *testing.T) {
	assert := assert.New(t)
	c, _ := jsonConstraint(t)

	c.Reset([]byte(`{"a":1`))
	clone := c.Clone()
	assert.NotEqual(c.ID(), clone.ID())

	clone.Reset([]byte(`@`))
	assert.True(clone.IsInvalid())
	assert.False(c.IsInvalid()) // original unaffected
}

func TestConstraint_Next_PanicsOnOutOfRangeIndex(t *testing.T) {
	c, v := jsonConstraint(t)
	c.Reset(nil)
	assert.Panics(t, func() {
		c.Next(uint32(v.Size()) + 100)
	})
}
