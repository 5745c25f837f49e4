package fixture

import "github.com/coregx/constrain/vocab"

// ByteLevelVocab is a 256-entry vocabulary, one single-byte token per
// byte value, standing in for the byte-fallback tier a real subword
// vocabulary falls back to for bytes no multi-byte token covers. It lets
// cmd/constrainctl's regex demo accept an arbitrary pattern without also
// requiring the caller to author a matching vocabulary.
func ByteLevelVocab() (*vocab.ByteVocab, error) {
	tokens := make([][]byte, 256)
	for i := range tokens {
		tokens[i] = []byte{byte(i)}
	}
	return vocab.New(tokens)
}
