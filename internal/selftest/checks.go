package selftest

import (
	"context"
	"fmt"
	"math/big"

	"filippo.io/edwards25519"
	"filippo.io/edwards25519/field"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"go.uber.org/multierr"

	"github.com/mahdiidarabi/rsabench/pkg/primes"
	"github.com/mahdiidarabi/rsabench/pkg/rsabench"
)

var (
	// ed25519L is the order of the ed25519 base point, 2^252 + 27742317777372353535851937790883648493.
	ed25519L = func() *big.Int {
		l, _ := new(big.Int).SetString("27742317777372353535851937790883648493", 10)
		return l.Add(l, new(big.Int).Lsh(big.NewInt(1), 252))
	}()

	// p25519 is the curve25519 field prime 2^255 - 19.
	p25519 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(19))
)

func mersenne(p uint) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), p)
	return m.Sub(m, big.NewInt(1))
}

func checkSmallPrimes(_ context.Context, e *env) error {
	var errs error
	small := primes.SmallPrimes()
	for _, p := range small {
		errs = multierr.Append(errs, e.expectPrime(p.String(), p, true))
	}
	for _, c := range []int64{0, 1, 4, 9, 15, 91, 561, 1105, 7917} {
		errs = multierr.Append(errs, e.expectPrime(fmt.Sprint(c), big.NewInt(c), false))
	}

	// Products of the two largest small primes escape trial division.
	last := new(big.Int).Mul(small[len(small)-1], small[len(small)-2])
	errs = multierr.Append(errs, e.expectPrime(last.String(), last, false))
	return errs
}

func checkMersenne(_ context.Context, e *env) error {
	var errs error
	for _, p := range []uint{31, 61, 89, 107, 127, 521} {
		errs = multierr.Append(errs, e.expectPrime(fmt.Sprintf("2^%d-1", p), mersenne(p), true))
	}
	for _, p := range []uint{11, 23, 67, 257} {
		errs = multierr.Append(errs, e.expectPrime(fmt.Sprintf("2^%d-1", p), mersenne(p), false))
	}
	return errs
}

func checkCurvePrimes(_ context.Context, e *env) error {
	params := secp256k1.Params()
	known := []struct {
		label string
		n     *big.Int
	}{
		{"secp256k1 P", params.P},
		{"secp256k1 N", params.N},
		{"ed25519 L", ed25519L},
		{"2^255-19", p25519},
	}

	var errs error
	for _, k := range known {
		errs = multierr.Append(errs, e.expectPrime(k.label, k.n, true))
	}
	product := new(big.Int).Mul(params.N, ed25519L)
	errs = multierr.Append(errs, e.expectPrime("secp256k1 N * ed25519 L", product, false))
	return errs
}

// differential compares primes.InvMod with an independent inverse modulo m
// on random inputs in [1, m).
func differential(ctx context.Context, e *env, m *big.Int, oracle func(a *big.Int) (*big.Int, error)) error {
	for i := 0; i < e.opts.Samples; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		a, err := e.sample(m)
		if err != nil {
			return err
		}

		got, err := primes.InvMod(a, m)
		if err != nil {
			return fmt.Errorf("InvMod(%s): %w", a.String(), err)
		}
		want, err := oracle(a)
		if err != nil {
			return err
		}
		if got.Cmp(want) != 0 {
			return fmt.Errorf("InvMod(%s) = %s, want %s", a.String(), got.String(), want.String())
		}
	}
	return nil
}

func checkSecp256k1ScalarInverse(ctx context.Context, e *env) error {
	return differential(ctx, e, secp256k1.Params().N, func(a *big.Int) (*big.Int, error) {
		var s secp256k1.ModNScalar
		if overflow := s.SetByteSlice(a.Bytes()); overflow {
			return nil, fmt.Errorf("scalar %s overflows", a.String())
		}
		b := s.InverseNonConst().Bytes()
		return new(big.Int).SetBytes(b[:]), nil
	})
}

func checkSecp256k1FieldInverse(ctx context.Context, e *env) error {
	return differential(ctx, e, secp256k1.Params().P, func(a *big.Int) (*big.Int, error) {
		var f secp256k1.FieldVal
		if overflow := f.SetByteSlice(a.Bytes()); overflow {
			return nil, fmt.Errorf("field value %s overflows", a.String())
		}
		b := f.Inverse().Normalize().Bytes()
		return new(big.Int).SetBytes(b[:]), nil
	})
}

func checkEd25519ScalarInverse(ctx context.Context, e *env) error {
	return differential(ctx, e, ed25519L, func(a *big.Int) (*big.Int, error) {
		s, err := edwards25519.NewScalar().SetCanonicalBytes(littleEndian(a))
		if err != nil {
			return nil, fmt.Errorf("failed to load scalar: %w", err)
		}
		inv := edwards25519.NewScalar().Invert(s)
		return fromLittleEndian(inv.Bytes()), nil
	})
}

func checkCurve25519FieldInverse(ctx context.Context, e *env) error {
	return differential(ctx, e, p25519, func(a *big.Int) (*big.Int, error) {
		v, err := new(field.Element).SetBytes(littleEndian(a))
		if err != nil {
			return nil, fmt.Errorf("failed to load field element: %w", err)
		}
		inv := new(field.Element).Invert(v)
		return fromLittleEndian(inv.Bytes()), nil
	})
}

func checkExtendedGCD(ctx context.Context, e *env) error {
	limit := new(big.Int).Lsh(big.NewInt(1), 512)
	for i := 0; i < e.opts.Samples; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		a, err := e.sample(limit)
		if err != nil {
			return err
		}
		b, err := e.sample(limit)
		if err != nil {
			return err
		}

		gcd, s, t := primes.ExtendedGCD(a, b)
		want := new(big.Int).GCD(nil, nil, a, b)
		if gcd.Cmp(want) != 0 {
			return fmt.Errorf("gcd(%s, %s) = %s, want %s", a.String(), b.String(), gcd.String(), want.String())
		}
		sum := new(big.Int).Add(new(big.Int).Mul(a, s), new(big.Int).Mul(b, t))
		if sum.Cmp(gcd) != 0 {
			return fmt.Errorf("Bezout identity fails for (%s, %s)", a.String(), b.String())
		}
	}
	return nil
}

func checkModExp(ctx context.Context, e *env) error {
	limit := new(big.Int).Lsh(big.NewInt(1), 1024)
	for i := 0; i < e.opts.Samples; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		var vals [3]*big.Int
		for j := range vals {
			v, err := e.sample(limit)
			if err != nil {
				return err
			}
			vals[j] = v
		}
		base, exp, mod := vals[0], vals[1], vals[2]

		got := primes.ModExp(base, exp, mod)
		want := new(big.Int).Exp(base, exp, mod)
		if got.Cmp(want) != 0 {
			return fmt.Errorf("ModExp mismatch for modulus %s", mod.String())
		}
	}
	return nil
}

func checkRoundTrip(ctx context.Context, e *env) error {
	pub, priv, err := rsabench.NewGenerator().
		WithSource(e.opts.Source).
		WithLogger(e.opts.Logger).
		Generate(ctx, rsabench.KeySize(e.opts.KeyBits), 65537)
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	message := "self-check"
	if limit := pub.MaxMessageLen(); len(message) > limit {
		message = message[:limit]
	}
	ciphertext, err := pub.Encrypt(message)
	if err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}
	plaintext, err := priv.Decrypt(ciphertext)
	if err != nil {
		return fmt.Errorf("failed to decrypt: %w", err)
	}
	if plaintext != message {
		return fmt.Errorf("round trip returned %q, want %q", plaintext, message)
	}
	return nil
}

// littleEndian encodes v as 32 little-endian bytes.
func littleEndian(v *big.Int) []byte {
	b := v.FillBytes(make([]byte, 32))
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

func fromLittleEndian(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}
