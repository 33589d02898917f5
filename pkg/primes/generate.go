package primes

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"
)

// Generator produces random primes of a requested bit length.
type Generator struct {
	source Source
	tester *Tester
	logger *zap.Logger
}

// NewGenerator creates a generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{
		source: CryptoSource{},
		tester: NewTester(),
		logger: zap.NewNop(),
	}
}

// WithSource sets the random source for both candidate sampling and
// Miller-Rabin witnesses.
func (g *Generator) WithSource(source Source) *Generator {
	g.source = source
	g.tester = NewTester().WithSource(source).WithRounds(g.tester.rounds)
	return g
}

// WithRounds sets the number of Miller-Rabin rounds per candidate.
func (g *Generator) WithRounds(rounds int) *Generator {
	g.tester.WithRounds(rounds)
	return g
}

// WithLogger sets the logger used for debug output.
func (g *Generator) WithLogger(logger *zap.Logger) *Generator {
	g.logger = logger
	return g
}

// Tester returns the primality tester the generator accepts candidates with.
func (g *Generator) Tester() *Tester {
	return g.tester
}

// BigPrime returns a probable prime found by walking odd numbers upward from
// a uniform random bits-bit starting point.
//
// Args:
//   - ctx: checked between candidates
//   - bits: bit length of the starting point, at least 2
//
// Returns:
//   - the first candidate IsPrime accepts
func (g *Generator) BigPrime(ctx context.Context, bits int) (*big.Int, error) {
	if bits < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrBitLength, bits)
	}

	candidate, err := randomBits(g.source, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to sample candidate: %w", err)
	}
	if candidate.Bit(0) == 0 {
		candidate.Add(candidate, one)
	}

	for attempts := 1; ; attempts++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := g.tester.IsPrime(candidate)
		if err != nil {
			return nil, err
		}
		if ok {
			g.logger.Debug("found prime",
				zap.Int("bits", bits),
				zap.Int("attempts", attempts),
			)
			return candidate, nil
		}
		candidate.Add(candidate, two)
	}
}

// RSAPrime returns a prime p of the given size with p mod e != 1, so that e
// stays invertible modulo (p-1)(q-1) for a prime exponent e.
func (g *Generator) RSAPrime(ctx context.Context, bits int, e *big.Int) (*big.Int, error) {
	if e.Cmp(two) < 0 {
		return nil, fmt.Errorf("%w: got %s", ErrExponent, e.String())
	}

	rem := new(big.Int)
	for {
		p, err := g.BigPrime(ctx, bits)
		if err != nil {
			return nil, err
		}
		if rem.Mod(p, e).Cmp(one) != 0 {
			return p, nil
		}
		g.logger.Debug("rejected prime congruent to 1 mod e", zap.Int("bits", bits))
	}
}

// BigPrime returns a random probable prime of about bits bits using crypto/rand.
func BigPrime(bits int) (*big.Int, error) {
	return NewGenerator().BigPrime(context.Background(), bits)
}

// RSAPrime returns a random prime suitable for RSA with exponent e using crypto/rand.
func RSAPrime(bits int, e *big.Int) (*big.Int, error) {
	return NewGenerator().RSAPrime(context.Background(), bits, e)
}
