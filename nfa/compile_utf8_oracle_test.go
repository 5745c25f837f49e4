package nfa_test

import (
	"testing"

	"github.com/coregx/constrain/regexdfa"
)

// TestCompileUTF8Any_Correctness verifies that the suffix-shared "."
// compilation (nfa.Compiler.compileUTF8Any) still accepts exactly one
// full UTF-8 rune, using regexdfa.DFA as the oracle since it is this
// repository's real, anchored consumer of compiled NFA programs.
func TestCompileUTF8Any_Correctness(t *testing.T) {
	dfa, err := regexdfa.Compile(".")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	tests := []struct {
		input string
		match bool
	}{
		// ASCII
		{"a", true},
		{"z", true},
		{"0", true},
		{" ", true},
		{"\t", true},
		{"\n", false}, // dot doesn't match newline by default

		// UTF-8 2-byte
		{"ä", true}, // U+00E4
		{"é", true}, // U+00E9
		{"ñ", true}, // U+00F1
		{"ß", true}, // U+00DF

		// UTF-8 3-byte
		{"中", true}, // U+4E2D Chinese
		{"日", true}, // U+65E5 Japanese
		{"€", true}, // U+20AC Euro sign

		// UTF-8 4-byte
		{"𝕳", true}, // U+1D573 Mathematical H
		{"🎉", true}, // U+1F389 Party popper
		{"😀", true}, // U+1F600 Emoji

		// Empty: no rune consumed, "." requires exactly one.
		{"", false},

		// A second byte/rune has nothing left in the pattern to consume
		// it: anchored full-match semantics reject any leftover input.
		{"ab", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			q := dfa.Run(regexdfa.Start, []byte(tt.input))
			got := q != regexdfa.Dead && dfa.IsMatch(q)
			if got != tt.match {
				t.Errorf("Match(%q) = %v, want %v", tt.input, got, tt.match)
			}
		})
	}
}
