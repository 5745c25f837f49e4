package regexdfa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompile_BadPattern(t *testing.T) {
	assert := assert.New(t)

	_, err := Compile(`[unclosed`)
	assert.Error(err)
	var ce *CompileError
	assert.ErrorAs(err, &ce)
	assert.Equal(`[unclosed`, ce.Pattern)
}

func TestCompile_RejectsAssertion(t *testing.T) {
	assert := assert.New(t)

	for _, pattern := range []string{`\bfoo`, `foo$`, `^foo`} {
		_, err := Compile(pattern)
		assert.ErrorIs(err, ErrUnsupportedAssertion, "pattern %q", pattern)
	}
}

func TestDFA_RunAndIsMatch(t *testing.T) {
	assert := assert.New(t)

	d, err := Compile(`true|false`)
	assert.NoError(err)

	tests := []struct {
		input string
		match bool
	}{
		{"true", true},
		{"false", true},
		{"", false},
		{"tru", false},
		{"truee", false},
		{"fals", false},
	}
	for _, tt := range tests {
		q := d.Run(Start, []byte(tt.input))
		got := q != Dead && d.IsMatch(q)
		assert.Equal(tt.match, got, "input %q", tt.input)
	}
}

func TestDFA_DeadIsAbsorbing(t *testing.T) {
	assert := assert.New(t)

	d, err := Compile(`abc`)
	assert.NoError(err)

	q := d.Run(Start, []byte("ax"))
	assert.Equal(Dead, q)
	assert.Equal(Dead, d.Step(q, 'b'))
	assert.False(d.IsMatch(Dead))
	assert.False(d.Live(Dead))
}

func TestDFA_Live(t *testing.T) {
	assert := assert.New(t)

	d, err := Compile(`true|false`)
	assert.NoError(err)

	// Mid-pattern: not a match yet, but extendable to one.
	q := d.Run(Start, []byte("tr"))
	assert.NotEqual(Dead, q)
	assert.False(d.IsMatch(q))
	assert.True(d.Live(q))

	// A full match with no extensions is still live (empty continuation).
	q = d.Run(Start, []byte("true"))
	assert.True(d.IsMatch(q))
	assert.True(d.Live(q))
}

func TestDFA_RunShortCircuits(t *testing.T) {
	assert := assert.New(t)

	d, err := Compile(`[0-9]+`)
	assert.NoError(err)

	assert.Equal(Dead, d.Run(Start, []byte("12x34")))

	q := d.Run(Start, []byte("12345"))
	assert.NotEqual(Dead, q)
	assert.True(d.IsMatch(q))

	// More digits keep the state accepting: + admits any length.
	q = d.Step(q, '6')
	assert.True(d.IsMatch(q))
}

func TestDFA_StateInterning(t *testing.T) {
	assert := assert.New(t)

	d, err := Compile(`(ab)*`)
	assert.NoError(err)

	// The loop revisits the same subset: both full iterations land on
	// the same interned state.
	one := d.Run(Start, []byte("ab"))
	two := d.Run(Start, []byte("abab"))
	assert.Equal(one, two)
}

func TestDFA_PatternAndString(t *testing.T) {
	assert := assert.New(t)

	d, err := Compile(`a+`)
	assert.NoError(err)
	assert.Equal(`a+`, d.Pattern())
	assert.Contains(d.String(), `a+`)
}
