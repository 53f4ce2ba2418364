// Package random provides the byte sources the password generator draws from
// and unbiased sampling of small bounded integers on top of them.
package random

import "fmt"

// MaxValue is the number of distinct values a single random byte can take.
const MaxValue = 256

// ByteSource yields uniformly distributed bytes.
type ByteSource interface {
	RandomByte() byte
}

// UnbiasedUnder returns an integer uniformly distributed in [0, under).
// Draws at or above the largest multiple of under that fits in a byte are
// discarded, so every result is equally likely. It panics if under is not
// in [1, 256].
func UnbiasedUnder(src ByteSource, under int) int {
	if under <= 0 || under > MaxValue {
		panic(fmt.Sprintf("random: bound %d out of range [1, %d]", under, MaxValue))
	}

	limit := MaxValue - (MaxValue % under)
	for {
		b := int(src.RandomByte())
		if b < limit {
			return b % under
		}
	}
}
