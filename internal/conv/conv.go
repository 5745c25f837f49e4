// Package conv provides checked integer narrowing for the NFA
// compiler. Conversions panic on overflow, since an out-of-range value
// here means a pattern exceeded internal limits rather than a
// recoverable input error.
package conv

import "math"

// IntToUint32 converts n to uint32, panicking if n is negative or does
// not fit.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Compare as uint so the bound works on 32-bit platforms, where int
	// cannot represent math.MaxUint32.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}
