package primes

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"io"
	"math/big"
	mrand "math/rand/v2"
	"sync"
)

// Source supplies uniformly distributed random integers.
// Implementations must be safe for concurrent use.
type Source interface {
	// Int returns a uniform random value in [0, max). max must be positive.
	Int(max *big.Int) (*big.Int, error)
}

// CryptoSource draws from crypto/rand. It is the default everywhere.
type CryptoSource struct{}

// Int implements Source.
func (CryptoSource) Int(max *big.Int) (*big.Int, error) {
	return rand.Int(rand.Reader, max)
}

// SeededSource is a reproducible Source backed by a ChaCha8 stream.
// Use it in tests and benchmarks only.
type SeededSource struct {
	mu     sync.Mutex
	stream *mrand.ChaCha8
}

// NewSeededSource returns a SeededSource whose output is fully determined by seed.
func NewSeededSource(seed uint64) *SeededSource {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return &SeededSource{stream: mrand.NewChaCha8(key)}
}

// Int implements Source.
func (s *SeededSource) Int(max *big.Int) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uniform(s.stream, max)
}

// uniform is rejection sampling over the byte length of max, the same
// construction crypto/rand.Int uses, but always reading from r.
func uniform(r io.Reader, max *big.Int) (*big.Int, error) {
	if max.Sign() <= 0 {
		return nil, errors.New("random range must be positive")
	}

	bitLen := new(big.Int).Sub(max, big.NewInt(1)).BitLen()
	if bitLen == 0 {
		return new(big.Int), nil
	}

	buf := make([]byte, (bitLen+7)/8)
	topBits := uint(bitLen % 8)
	if topBits == 0 {
		topBits = 8
	}

	n := new(big.Int)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		// Clear the bits above bitLen so at most half the draws are rejected.
		buf[0] &= uint8(int(1<<topBits) - 1)
		n.SetBytes(buf)
		if n.Cmp(max) < 0 {
			return n, nil
		}
	}
}

// randomRange returns a uniform value in the inclusive range [lo, hi].
func randomRange(src Source, lo, hi *big.Int) (*big.Int, error) {
	width := new(big.Int).Sub(hi, lo)
	width.Add(width, big.NewInt(1))
	v, err := src.Int(width)
	if err != nil {
		return nil, err
	}
	return v.Add(v, lo), nil
}

// randomBits returns a uniform value with exactly bits bits (top bit set).
func randomBits(src Source, bits int) (*big.Int, error) {
	upper := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	v, err := src.Int(upper)
	if err != nil {
		return nil, err
	}
	return v.SetBit(v, bits-1, 1), nil
}
