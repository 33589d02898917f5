package primes

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtendedGCD(t *testing.T) {
	tests := []struct {
		a, b    int64
		wantGCD int64
	}{
		{240, 46, 2},
		{46, 240, 2},
		{17, 0, 17},
		{0, 5, 5},
		{35, 64, 1},
		{1071, 462, 21},
		{12, 12, 12},
	}

	for _, tt := range tests {
		a, b := big.NewInt(tt.a), big.NewInt(tt.b)
		gcd, s, x := ExtendedGCD(a, b)

		if gcd.Int64() != tt.wantGCD {
			t.Errorf("ExtendedGCD(%d, %d) gcd = %s, want %d", tt.a, tt.b, gcd, tt.wantGCD)
		}

		// a*s + b*t must reproduce the gcd
		sum := new(big.Int).Mul(a, s)
		sum.Add(sum, new(big.Int).Mul(b, x))
		if sum.Cmp(gcd) != 0 {
			t.Errorf("ExtendedGCD(%d, %d): %d*%s + %d*%s = %s, want %s", tt.a, tt.b, tt.a, s, tt.b, x, sum, gcd)
		}
	}
}

func TestExtendedGCD_KnownCoefficients(t *testing.T) {
	gcd, s, x := ExtendedGCD(big.NewInt(240), big.NewInt(46))

	require.Equal(t, int64(2), gcd.Int64())
	require.Equal(t, int64(-9), s.Int64())
	require.Equal(t, int64(47), x.Int64())
}

func TestGCD(t *testing.T) {
	require.Equal(t, int64(6), GCD(big.NewInt(48), big.NewInt(18)).Int64())
	require.Equal(t, int64(1), GCD(big.NewInt(3), big.NewInt(40)).Int64())
	require.Equal(t, int64(4), GCD(big.NewInt(-8), big.NewInt(12)).Int64())
}

func TestInvMod_Coprime(t *testing.T) {
	for n := int64(2); n <= 60; n++ {
		for a := int64(0); a < 2*n; a++ {
			bigA, bigN := big.NewInt(a), big.NewInt(n)
			inv, err := InvMod(bigA, bigN)

			if GCD(bigA, bigN).Cmp(one) != 0 {
				if !errors.Is(err, ErrNoInverse) {
					t.Fatalf("InvMod(%d, %d) = %v, %v; want ErrNoInverse", a, n, inv, err)
				}
				continue
			}

			require.NoError(t, err, "InvMod(%d, %d)", a, n)
			require.True(t, inv.Sign() >= 0 && inv.Cmp(bigN) < 0, "InvMod(%d, %d) = %s out of range", a, n, inv)

			product := new(big.Int).Mul(bigA, inv)
			require.Equal(t, int64(1), product.Mod(product, bigN).Int64(), "InvMod(%d, %d) = %s", a, n, inv)
		}
	}
}

func TestInvMod_KnownValues(t *testing.T) {
	inv, err := InvMod(big.NewInt(3), big.NewInt(40))
	require.NoError(t, err)
	require.Equal(t, int64(27), inv.Int64())

	inv, err = InvMod(big.NewInt(7), big.NewInt(40))
	require.NoError(t, err)
	require.Equal(t, int64(23), inv.Int64())

	// Large modulus: (2^61-2)(2^89-2), the totient-like value of two Mersenne primes.
	p := new(big.Int).Sub(new(big.Int).Lsh(one, 61), two)
	q := new(big.Int).Sub(new(big.Int).Lsh(one, 89), two)
	et := new(big.Int).Mul(p, q)
	want, _ := new(big.Int).SetString("740443132154395775117746638826656402702473", 10)

	inv, err = InvMod(big.NewInt(65537), et)
	require.NoError(t, err)
	require.Zero(t, want.Cmp(inv), "got %s", inv)
}

func TestInvMod_NotCoprime(t *testing.T) {
	_, err := InvMod(big.NewInt(6), big.NewInt(40))
	require.ErrorIs(t, err, ErrNoInverse)

	_, err = InvMod(big.NewInt(3), big.NewInt(12))
	require.ErrorIs(t, err, ErrNoInverse)

	_, err = InvMod(big.NewInt(0), big.NewInt(7))
	require.ErrorIs(t, err, ErrNoInverse)
}

func TestInvMod_InvalidModulus(t *testing.T) {
	_, err := InvMod(big.NewInt(3), big.NewInt(0))
	require.ErrorIs(t, err, ErrModulus)

	_, err = InvMod(big.NewInt(3), big.NewInt(-5))
	require.ErrorIs(t, err, ErrModulus)
}

func TestInvMod_UnitModulus(t *testing.T) {
	inv, err := InvMod(big.NewInt(5), big.NewInt(1))
	require.NoError(t, err)
	require.Zero(t, inv.Sign())
}
