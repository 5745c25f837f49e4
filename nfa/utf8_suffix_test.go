package nfa

import (
	"testing"
)

func TestUtf8SuffixCache_Basic(t *testing.T) {
	cache := newUtf8SuffixCache()

	// First lookup should miss
	key := utf8SuffixKey{from: 1, start: 0x80, end: 0xBF}
	_, found := cache.get(key)
	if found {
		t.Error("expected cache miss on first lookup")
	}

	// Set a value
	cache.set(key, 42)

	// Should hit now
	val, found := cache.get(key)
	if !found {
		t.Error("expected cache hit after set")
	}
	if val != 42 {
		t.Errorf("expected value 42, got %d", val)
	}
}

func TestUtf8SuffixCache_Clear(t *testing.T) {
	cache := newUtf8SuffixCache()

	key := utf8SuffixKey{from: 1, start: 0x80, end: 0xBF}
	cache.set(key, 42)

	// Verify it's there
	_, found := cache.get(key)
	if !found {
		t.Error("expected cache hit before clear")
	}

	// Clear
	cache.clear()

	// Should miss after clear
	_, found = cache.get(key)
	if found {
		t.Error("expected cache miss after clear")
	}
}

func TestUtf8SuffixCache_GetOrCreate(t *testing.T) {
	cache := newUtf8SuffixCache()
	builder := NewBuilder()

	// Create end state
	endState := builder.AddMatch()

	// First getOrCreate should create a new state
	state1 := cache.getOrCreate(builder, endState, 0x80, 0xBF)

	// Second getOrCreate with same params should return cached state
	state2 := cache.getOrCreate(builder, endState, 0x80, 0xBF)

	if state1 != state2 {
		t.Errorf("expected same state ID, got %d and %d", state1, state2)
	}

	// Different params should create a new state
	state3 := cache.getOrCreate(builder, endState, 0xC2, 0xDF)
	if state3 == state1 {
		t.Error("expected different state for different byte range")
	}

	// Different target should create a new state
	state4 := cache.getOrCreate(builder, state1, 0x80, 0xBF)
	if state4 == state1 {
		t.Error("expected different state for different target")
	}
}

func TestCompileUTF8Any_StateCount(t *testing.T) {
	// Verify that suffix sharing reduces state count
	tests := []struct {
		pattern       string
		maxStates     int // Upper bound after optimization
		description   string
	}{
		{".", 30, "dot should have suffix sharing"},
		{".*", 32, "dot-star should have suffix sharing"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			compiler := NewDefaultCompiler()
			nfa, err := compiler.Compile(tt.pattern)
			if err != nil {
				t.Fatalf("compile error: %v", err)
			}

			states := nfa.States()
			if states > tt.maxStates {
				t.Errorf("%s: got %d states, want <= %d states (%s)",
					tt.pattern, states, tt.maxStates, tt.description)
			}
			t.Logf("%s: %d states (max %d)", tt.pattern, states, tt.maxStates)
		})
	}
}

// TestCompileUTF8Any_Correctness lives in compile_utf8_oracle_test.go
// (package nfa_test): it drives the compiled "." NFA through
// regexdfa.DFA, the real consumer of this package's UTF-8 compilation,
// rather than a standalone matcher this module doesn't otherwise use.
