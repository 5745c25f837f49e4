package regexconstraint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coregx/constrain/internal/fixture"
	"github.com/coregx/constrain/regexconstraint"
	"github.com/coregx/constrain/vocab"
)

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

func booleanConstraint(t *testing.T) (*regexconstraint.Constraint, *vocab.ByteVocab) {
	t.Helper()
	v, err := fixture.BooleanLiteralVocab()
	assert.NoError(t, err)
	c, err := regexconstraint.New(fixture.BooleanLiteralPattern, v)
	assert.NoError(t, err)
	return c, v
}

func TestConstraint_BooleanLiteral_WalksThroughTrue(t *testing.T) {
	assert := assert.New(t)
	c, v := booleanConstraint(t)

	c.Reset([]byte("tr"))
	assert.False(c.IsInvalid())
	got := c.Get()
	assert.True(tokenNamed(t, v, got, "u"))
	assert.False(tokenNamed(t, v, got, "e"))
	assert.False(tokenNamed(t, v, got, "tr"))
	assert.False(tokenNamed(t, v, got, "fa"))
	assert.False(tokenNamed(t, v, got, "lse"))

	var uID vocab.TokenID
	for _, id := range got {
		b, _ := v.Bytes(id)
		if string(b) == "u" {
			uID = id
		}
	}
	c.Next(uint32(uID))
	assert.False(c.IsInvalid())
	assert.False(c.IsMatch())

	got = c.Get()
	assert.True(tokenNamed(t, v, got, "e"))
	assert.Equal(1, len(got))

	var eID vocab.TokenID
	for _, id := range got {
		if b, _ := v.Bytes(id); string(b) == "e" {
			eID = id
		}
	}
	c.Next(uint32(eID))
	assert.True(c.IsMatch())
	assert.False(c.IsInvalid())
}

func TestConstraint_BooleanLiteral_FalseBranch(t *testing.T) {
	assert := assert.New(t)
	c, v := booleanConstraint(t)

	c.Reset([]byte("fa"))
	got := c.Get()
	assert.True(tokenNamed(t, v, got, "lse"))
	assert.False(tokenNamed(t, v, got, "u"))
	assert.False(tokenNamed(t, v, got, "e"))
}

func TestConstraint_Reset_InvalidOnMismatch(t *testing.T) {
	assert := assert.New(t)
	c, _ := booleanConstraint(t)

	c.Reset([]byte("tx"))
	assert.True(c.IsInvalid())
	assert.Nil(c.Get())
	assert.False(c.IsMatch())
}

func TestConstraint_Next_PanicsOnOutOfRangeIndex(t *testing.T) {
	c, v := booleanConstraint(t)
	c.Reset(nil)
	assert.Panics(t, func() {
		c.Next(uint32(v.Size()) + 1)
	})
}

func TestConstraint_Clone_SharesWarmedCache(t *testing.T) {
	assert := assert.New(t)
	c, _ := booleanConstraint(t)

	clone := c.Clone()
	assert.NotEqual(c.ID(), clone.ID())

	clone.Reset([]byte("fa"))
	assert.False(c.IsInvalid())
	assert.False(clone.IsInvalid())
}

func TestNew_RejectsBadPattern(t *testing.T) {
	assert := assert.New(t)
	v, err := fixture.BooleanLiteralVocab()
	assert.NoError(err)

	_, err = regexconstraint.New("(unclosed", v)
	assert.Error(err)
}
