package primes

import "math/big"

// ExtendedGCD returns gcd(a, b) together with Bézout coefficients s and t
// such that a*s + b*t = gcd.
//
// The remainder and both coefficient chains advance with the same quotient
// until the remainder reaches zero; the previous row then holds the answer.
func ExtendedGCD(a, b *big.Int) (gcd, s, t *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	for r.Sign() != 0 {
		q.Quo(oldR, r)
		oldR, r = r, new(big.Int).Sub(oldR, new(big.Int).Mul(q, r))
		oldS, s = s, new(big.Int).Sub(oldS, new(big.Int).Mul(q, s))
		oldT, t = t, new(big.Int).Sub(oldT, new(big.Int).Mul(q, t))
	}
	return oldR, oldS, oldT
}

// GCD returns the non-negative greatest common divisor of a and b.
func GCD(a, b *big.Int) *big.Int {
	g, _, _ := ExtendedGCD(a, b)
	return g.Abs(g)
}

// InvMod returns the inverse of a modulo n, the unique r in [0, n) with
// a*r ≡ 1 (mod n).
//
// Returns:
//   - ErrModulus if n is not positive
//   - ErrNoInverse if gcd(a, n) > 1
func InvMod(a, n *big.Int) (*big.Int, error) {
	if n.Sign() <= 0 {
		return nil, ErrModulus
	}

	t, newT := big.NewInt(0), big.NewInt(1)
	r, newR := new(big.Int).Set(n), new(big.Int).Mod(a, n)

	q := new(big.Int)
	for newR.Sign() != 0 {
		q.Quo(r, newR)
		t, newT = newT, new(big.Int).Sub(t, new(big.Int).Mul(q, newT))
		r, newR = newR, new(big.Int).Sub(r, new(big.Int).Mul(q, newR))
	}

	if r.Cmp(one) > 0 {
		return nil, ErrNoInverse
	}
	if t.Sign() < 0 {
		t.Add(t, n)
	}
	return t, nil
}
