package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_RejectsEmpty(t *testing.T) {
	assert := assert.New(t)

	_, err := New(nil)
	assert.ErrorIs(err, ErrEmptyVocab)
}

func TestNew_RejectsDuplicate(t *testing.T) {
	assert := assert.New(t)

	_, err := New([][]byte{[]byte("a"), []byte("b"), []byte("a")})
	assert.Error(err)
	var be *BuildError
	assert.ErrorAs(err, &be)
	assert.ErrorIs(be.Err, ErrDuplicateToken)
}

func TestByteVocab_BytesAndSize(t *testing.T) {
	assert := assert.New(t)

	v, err := New([][]byte{[]byte("true"), []byte("false")})
	assert.NoError(err)
	assert.Equal(2, v.Size())

	b, err := v.Bytes(0)
	assert.NoError(err)
	assert.Equal("true", string(b))

	_, err = v.Bytes(2)
	assert.ErrorIs(err, ErrUnknownToken)
}

func TestByteVocab_Encode_LongestMatch(t *testing.T) {
	assert := assert.New(t)

	v, err := New([][]byte{[]byte("a"), []byte("ab"), []byte("c")})
	assert.NoError(err)

	ids, err := v.Encode([]byte("abc"))
	assert.NoError(err)
	assert.Equal([]TokenID{1, 2}, ids) // "ab" beats "a" at position 0

	_, err = v.Encode([]byte("abz"))
	assert.Error(err)
}

func TestByteVocab_RootTrie_SharesPrefixes(t *testing.T) {
	assert := assert.New(t)

	v, err := New([][]byte{[]byte("if"), []byte("iffy")})
	assert.NoError(err)

	root := v.Root()
	n := root.Child('i')
	assert.NotNil(n)
	n = n.Child('f')
	assert.NotNil(n)
	id, isToken := n.Token()
	assert.True(isToken)
	assert.Equal(TokenID(0), id)
	assert.False(n.IsLeaf()) // "iffy" still extends past "if"
}

func TestStopScanner_Hit(t *testing.T) {
	assert := assert.New(t)

	v, err := New([][]byte{[]byte("STOP"), []byte("x")})
	assert.NoError(err)

	s, err := NewStopScanner(v, []TokenID{0})
	assert.NoError(err)

	assert.True(s.Hit([]byte("please STOP now")))
	assert.False(s.Hit([]byte("keep going")))
}
