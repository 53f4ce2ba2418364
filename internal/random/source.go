package random

import (
	"crypto/rand"
	"fmt"
	"sync"
)

const cryptoBufferSize = 64

// CryptoSource is a ByteSource backed by crypto/rand. It buffers reads and is
// safe for concurrent use.
type CryptoSource struct {
	mu  sync.Mutex
	buf [cryptoBufferSize]byte
	pos int
}

// NewCryptoSource creates a new CryptoSource.
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{pos: cryptoBufferSize}
}

// RandomByte returns one byte from the operating system's CSPRNG.
func (s *CryptoSource) RandomByte() byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pos == len(s.buf) {
		// crypto/rand.Read only fails if the OS entropy source is broken.
		if _, err := rand.Read(s.buf[:]); err != nil {
			panic(fmt.Sprintf("random: reading crypto/rand: %v", err))
		}
		s.pos = 0
	}

	b := s.buf[s.pos]
	s.buf[s.pos] = 0
	s.pos++
	return b
}

// Sequence replays a fixed list of bytes. It is meant for tests and
// reproducible fixtures and panics once the bytes run out.
type Sequence struct {
	bytes []byte
	pos   int
}

// NewSequence creates a Sequence that yields bytes in order.
func NewSequence(bytes ...byte) *Sequence {
	return &Sequence{bytes: bytes}
}

// RandomByte returns the next byte of the sequence.
func (s *Sequence) RandomByte() byte {
	if s.pos >= len(s.bytes) {
		panic(fmt.Sprintf("random: sequence exhausted after %d bytes", len(s.bytes)))
	}
	b := s.bytes[s.pos]
	s.pos++
	return b
}

// Consumed reports how many bytes have been read so far.
func (s *Sequence) Consumed() int {
	return s.pos
}
