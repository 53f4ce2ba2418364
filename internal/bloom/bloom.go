// Package bloom implements a fixed-size Bloom filter whose bit array can be
// serialized as a plain list of 32-bit buckets and reloaded later.
//
// A Filter is mutated only while it is being built. Once construction is
// done it may be shared by any number of goroutines calling Test.
package bloom

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

const (
	bucketBits = 32

	// DefaultBits is the recommended filter size, 2^21 bits (256 KiB).
	DefaultBits = 1 << 21
	// DefaultHashes is the recommended number of hash functions.
	DefaultHashes = 16
	// MaxHashes bounds k so that it fits the serialized header.
	MaxHashes = 255
)

var (
	ErrInvalidSize    = errors.New("bloom: bit count must be a power of two and at least 32")
	ErrInvalidBuckets = errors.New("bloom: bucket count must be a non-zero power of two")
	ErrInvalidHashes  = errors.New("bloom: hash count must be between 1 and 255")
)

// Filter is an approximate set membership structure. Test never reports a
// false negative but may report false positives.
type Filter struct {
	buckets []uint32
	mask    uint32
	k       int
}

// New creates an empty filter with the given number of bits and hash functions.
func New(numBits uint32, k int) (*Filter, error) {
	if numBits < bucketBits || bits.OnesCount32(numBits) != 1 {
		return nil, ErrInvalidSize
	}
	if err := checkHashes(k); err != nil {
		return nil, err
	}

	return &Filter{
		buckets: make([]uint32, numBits/bucketBits),
		mask:    numBits - 1,
		k:       k,
	}, nil
}

// FromBuckets recreates a filter from a bucket array previously obtained
// through Buckets. The slice is copied.
func FromBuckets(buckets []uint32, k int) (*Filter, error) {
	n := len(buckets)
	if n == 0 || n&(n-1) != 0 || uint64(n)*bucketBits > 1<<32 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBuckets, n)
	}
	if err := checkHashes(k); err != nil {
		return nil, err
	}

	b := make([]uint32, n)
	copy(b, buckets)
	return &Filter{
		buckets: b,
		mask:    uint32(uint64(n)*bucketBits - 1),
		k:       k,
	}, nil
}

func checkHashes(k int) error {
	if k < 1 || k > MaxHashes {
		return fmt.Errorf("%w: got %d", ErrInvalidHashes, k)
	}
	return nil
}

// Add inserts s into the filter.
func (f *Filter) Add(s string) {
	h1, h2 := hashPair(s)
	for i := 0; i < f.k; i++ {
		pos := (h1 + uint32(i)*h2) & f.mask
		f.buckets[pos/bucketBits] |= 1 << (pos % bucketBits)
	}
}

// Test reports whether s may have been added to the filter.
func (f *Filter) Test(s string) bool {
	h1, h2 := hashPair(s)
	for i := 0; i < f.k; i++ {
		pos := (h1 + uint32(i)*h2) & f.mask
		if f.buckets[pos/bucketBits]&(1<<(pos%bucketBits)) == 0 {
			return false
		}
	}
	return true
}

// Buckets returns a copy of the underlying bit array.
func (f *Filter) Buckets() []uint32 {
	b := make([]uint32, len(f.buckets))
	copy(b, f.buckets)
	return b
}

// K returns the number of hash functions.
func (f *Filter) K() int { return f.k }

// Bits returns the size of the bit array.
func (f *Filter) Bits() uint64 { return uint64(f.mask) + 1 }

// hashPair derives two 32-bit hashes from one 64-bit xxHash digest. The
// second is forced odd so that it is coprime with the power-of-two size and
// the k probes never collapse onto a short cycle.
func hashPair(s string) (uint32, uint32) {
	sum := xxhash.Sum64String(s)
	return uint32(sum), uint32(sum>>32) | 1
}
