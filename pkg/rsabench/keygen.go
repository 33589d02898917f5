package rsabench

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/mahdiidarabi/rsabench/pkg/primes"
)

// KeySize selects the modulus size in bits. The zero value, DefaultKeySize,
// means DefaultKeyBits; any other value is taken literally.
type KeySize int

// Exponent selects the public exponent. The zero value, DefaultExponent,
// means DefaultPublicExponent; any other value is taken literally.
type Exponent int64

const (
	DefaultKeySize  KeySize  = 0
	DefaultExponent Exponent = 0

	DefaultKeyBits        = 1024
	DefaultPublicExponent = 3

	// MinKeyBits is the smallest key size Generate accepts.
	MinKeyBits = 16
)

// Bits resolves the key size in bits.
func (s KeySize) Bits() int {
	if s == DefaultKeySize {
		return DefaultKeyBits
	}
	return int(s)
}

// Value resolves the public exponent.
func (e Exponent) Value() *big.Int {
	if e == DefaultExponent {
		return big.NewInt(DefaultPublicExponent)
	}
	return big.NewInt(int64(e))
}

// Generator builds RSA key pairs.
type Generator struct {
	primes PrimeSource
	source primes.Source
	logger *zap.Logger
}

// NewGenerator creates a generator with random primes drawn from crypto/rand.
func NewGenerator() *Generator {
	return &Generator{
		primes: RandomPrimes{},
		source: primes.CryptoSource{},
		logger: zap.NewNop(),
	}
}

// WithPrimeSource sets where p and q come from.
func (g *Generator) WithPrimeSource(source PrimeSource) *Generator {
	g.primes = source
	return g
}

// WithSource sets the randomness handed to the prime source.
func (g *Generator) WithSource(source primes.Source) *Generator {
	g.source = source
	return g
}

// WithLogger sets the logger.
func (g *Generator) WithLogger(logger *zap.Logger) *Generator {
	g.logger = logger
	return g
}

// Generate creates a key pair.
//
// Args:
//   - ctx: Context for cancellation of the prime search.
//   - size: Modulus size; DefaultKeySize means 1024 bits.
//   - e: Public exponent; DefaultExponent means 3.
//
// Returns:
//   - Both keys sharing the same modulus, or an error and no keys at all.
//     ErrNotInvertible is returned when e has no inverse modulo (p-1)(q-1).
func (g *Generator) Generate(ctx context.Context, size KeySize, e Exponent) (*PublicKey, *PrivateKey, error) {
	bits := size.Bits()
	if bits < MinKeyBits {
		return nil, nil, fmt.Errorf("%w: %d bits, minimum is %d", ErrKeySize, bits, MinKeyBits)
	}
	exp := e.Value()
	if exp.Cmp(big.NewInt(2)) < 0 {
		return nil, nil, fmt.Errorf("%w: got %s", ErrExponent, exp.String())
	}

	p, q, err := g.primes.Primes(ctx, PrimeRequest{
		Bits:     bits / 2,
		Exponent: exp,
		Source:   g.source,
		Logger:   g.logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to obtain primes from %s: %w", g.primes.Name(), err)
	}

	pub, priv, err := newKeyPair(p, q, exp, bits)
	if err != nil {
		return nil, nil, err
	}

	g.logger.Debug("generated key pair",
		zap.Int("key_size", bits),
		zap.Int("modulus_bits", pub.n.BitLen()),
		zap.String("exponent", exp.String()),
		zap.String("prime_source", g.primes.Name()),
	)
	return pub, priv, nil
}

// newKeyPair derives n = p*q and d = e^-1 mod (p-1)(q-1).
func newKeyPair(p, q, e *big.Int, keySize int) (*PublicKey, *PrivateKey, error) {
	if p.Cmp(q) == 0 {
		return nil, nil, fmt.Errorf("%w: p and q must be distinct", ErrInvalidKey)
	}

	n := new(big.Int).Mul(p, q)

	one := big.NewInt(1)
	et := new(big.Int).Mul(new(big.Int).Sub(p, one), new(big.Int).Sub(q, one))

	d, err := primes.InvMod(e, et)
	if err != nil {
		if errors.Is(err, primes.ErrNoInverse) {
			return nil, nil, fmt.Errorf("%w: e=%s: %w", ErrNotInvertible, e.String(), err)
		}
		return nil, nil, fmt.Errorf("failed to compute private exponent: %w", err)
	}

	pub := &PublicKey{e: new(big.Int).Set(e), n: n, keySize: keySize}
	priv := &PrivateKey{d: d, n: new(big.Int).Set(n)}
	return pub, priv, nil
}

// GenKeys generates a key pair with crypto/rand primes.
func GenKeys(size KeySize, e Exponent) (*PublicKey, *PrivateKey, error) {
	return NewGenerator().Generate(context.Background(), size, e)
}

// GenKeysDefault generates a 1024-bit key pair with exponent 3.
func GenKeysDefault() (*PublicKey, *PrivateKey, error) {
	return GenKeys(DefaultKeySize, DefaultExponent)
}
