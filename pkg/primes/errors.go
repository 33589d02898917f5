package primes

import "errors"

var (
	// ErrNoInverse is returned by InvMod when a and n are not coprime.
	ErrNoInverse = errors.New("no modular inverse: arguments are not coprime")

	// ErrModulus is returned when a modulus is zero or negative.
	ErrModulus = errors.New("modulus must be positive")

	// ErrBitLength is returned when a prime of fewer than 2 bits is requested.
	ErrBitLength = errors.New("prime bit length must be at least 2")

	// ErrExponent is returned when the RSA exponent is smaller than 2.
	ErrExponent = errors.New("public exponent must be at least 2")
)
