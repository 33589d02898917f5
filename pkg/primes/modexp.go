package primes

import "math/big"

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// ModExp returns base^exponent mod modulus using square-and-multiply.
//
// The result is always in [0, modulus). ModExp panics if modulus is not
// positive or exponent is negative; both are programming errors.
func ModExp(base, exponent, modulus *big.Int) *big.Int {
	if modulus.Sign() <= 0 {
		panic("primes: ModExp with non-positive modulus")
	}
	if exponent.Sign() < 0 {
		panic("primes: ModExp with negative exponent")
	}

	result := new(big.Int).Mod(one, modulus)
	b := new(big.Int).Mod(base, modulus)
	exp := new(big.Int).Set(exponent)

	for exp.Sign() > 0 {
		// Accumulate the current base when the low exponent bit is set
		if exp.Bit(0) == 1 {
			result.Mul(result, b)
			result.Mod(result, modulus)
		}
		b.Mul(b, b)
		b.Mod(b, modulus)
		exp.Rsh(exp, 1)
	}
	return result
}
