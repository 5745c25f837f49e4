package lexdfa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompile_RejectsEmpty(t *testing.T) {
	assert := assert.New(t)

	_, err := Compile(nil)
	assert.ErrorIs(err, ErrNoTokens)
}

func TestCompile_RejectsAssertion(t *testing.T) {
	assert := assert.New(t)

	_, err := Compile([]TokenSpec{{Name: "word", Pattern: `\bfoo\b`, Priority: 0}})
	assert.Error(err)
	var ce *CompileError
	assert.ErrorAs(err, &ce)
	assert.ErrorIs(ce.Err, ErrUnsupportedAssertion)
}

func jsonLikeDFA(t *testing.T) *DFA {
	t.Helper()
	d, err := NewBuilder().
		AddToken("LBRACE", `\{`, 0).
		AddToken("RBRACE", `\}`, 0).
		AddToken("COMMA", `,`, 0).
		AddToken("COLON", `:`, 0).
		AddToken("STRING", `"[^"]*"`, 0).
		AddToken("NUMBER", `-?[0-9]+`, 0).
		Build()
	assert.NoError(t, err)
	return d
}

func TestDFA_Scan_LongestMatch(t *testing.T) {
	assert := assert.New(t)
	d := jsonLikeDFA(t)

	res, ok := d.Scan([]byte(`123,`), 0)
	assert.True(ok)
	assert.Equal(3, res.Len)
	assert.Equal("NUMBER", d.TokenName(res.Kind))

	res, ok = d.Scan([]byte(`"key":1`), 0)
	assert.True(ok)
	assert.Equal(5, res.Len)
	assert.Equal("STRING", d.TokenName(res.Kind))
}

func TestDFA_Scan_NoMatch(t *testing.T) {
	assert := assert.New(t)
	d := jsonLikeDFA(t)

	_, ok := d.Scan([]byte(`@@@`), 0)
	assert.False(ok)
}

func TestDFA_Step_DeadStaysDead(t *testing.T) {
	assert := assert.New(t)
	d := jsonLikeDFA(t)

	q := d.Step(Start, '@')
	assert.Equal(Dead, q)
	assert.Equal(Dead, d.Step(q, 'x'))
	assert.False(d.Live(Dead))
}

func TestDFA_Priority_BreaksTie(t *testing.T) {
	assert := assert.New(t)

	// Two token kinds that can both match "true": KEYWORD wins on
	// priority even though IDENT is declared first.
	d, err := NewBuilder().
		AddToken("IDENT", `[a-z]+`, 0).
		AddToken("KEYWORD", `true`, 10).
		Build()
	assert.NoError(err)

	res, ok := d.Scan([]byte("true"), 0)
	assert.True(ok)
	assert.Equal("KEYWORD", d.TokenName(res.Kind))
}

func TestDFA_DeclarationOrder_BreaksTie_WhenPriorityEqual(t *testing.T) {
	assert := assert.New(t)

	d, err := NewBuilder().
		AddToken("FIRST", `true`, 0).
		AddToken("SECOND", `true`, 0).
		Build()
	assert.NoError(err)

	res, ok := d.Scan([]byte("true"), 0)
	assert.True(ok)
	assert.Equal("FIRST", d.TokenName(res.Kind))
}
