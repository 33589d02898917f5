package rsabench

import "errors"

var (
	// ErrNotInvertible means e has no inverse modulo (p-1)(q-1), so no key
	// pair can be built from the chosen primes.
	ErrNotInvertible = errors.New("public exponent is not invertible modulo (p-1)(q-1)")

	// ErrMessageTooLong means the plaintext does not fit under the modulus.
	ErrMessageTooLong = errors.New("message too long for this key size")

	// ErrMalformedCiphertext means the ciphertext is not valid hex or is out of range.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")

	// ErrInvalidPlaintext means the decrypted bytes are not valid UTF-8 text.
	ErrInvalidPlaintext = errors.New("decrypted message is not valid UTF-8")

	// ErrKeySize means the requested key size is below MinKeyBits.
	ErrKeySize = errors.New("key size too small")

	// ErrExponent means the public exponent is smaller than 2.
	ErrExponent = errors.New("public exponent must be at least 2")

	// ErrInvalidKey means stored key material is inconsistent.
	ErrInvalidKey = errors.New("invalid key")
)
