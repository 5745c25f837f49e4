package vocab

import (
	"errors"
	"fmt"
)

// Sentinel errors for vocabulary construction and lookup.
var (
	// ErrEmptyVocab is returned by New when given zero tokens.
	ErrEmptyVocab = errors.New("vocab: vocabulary must contain at least one token")

	// ErrDuplicateToken is returned by New when two distinct token ids
	// share the exact same byte sequence.
	ErrDuplicateToken = errors.New("vocab: duplicate token bytes")

	// ErrUnknownToken is returned by Bytes for an id outside [0, Size).
	ErrUnknownToken = errors.New("vocab: unknown token id")
)

// BuildError wraps a failure encountered while constructing a ByteVocab.
type BuildError struct {
	TokenID TokenID
	Err     error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("vocab: token %d: %v", e.TokenID, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
