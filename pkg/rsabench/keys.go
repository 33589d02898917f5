package rsabench

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/mahdiidarabi/rsabench/pkg/primes"
)

// PublicKey is an RSA public key. It is immutable; accessors return copies.
type PublicKey struct {
	e       *big.Int
	n       *big.Int
	keySize int
}

// PrivateKey is an RSA private key. It is immutable; accessors return copies.
type PrivateKey struct {
	d *big.Int
	n *big.Int
}

// NewPublicKey rebuilds a public key from stored material.
func NewPublicKey(e, n *big.Int, keySize int) (*PublicKey, error) {
	if e == nil || n == nil {
		return nil, fmt.Errorf("%w: missing e or n", ErrInvalidKey)
	}
	if e.Cmp(big.NewInt(2)) < 0 {
		return nil, fmt.Errorf("%w: e=%s", ErrExponent, e.String())
	}
	if n.Cmp(big.NewInt(2)) < 0 {
		return nil, fmt.Errorf("%w: modulus must be at least 2", ErrInvalidKey)
	}
	if keySize < MinKeyBits {
		return nil, fmt.Errorf("%w: %d bits, minimum is %d", ErrKeySize, keySize, MinKeyBits)
	}
	return &PublicKey{
		e:       new(big.Int).Set(e),
		n:       new(big.Int).Set(n),
		keySize: keySize,
	}, nil
}

// NewPrivateKey rebuilds a private key from stored material.
func NewPrivateKey(d, n *big.Int) (*PrivateKey, error) {
	if d == nil || n == nil {
		return nil, fmt.Errorf("%w: missing d or n", ErrInvalidKey)
	}
	if d.Sign() <= 0 || n.Cmp(big.NewInt(2)) < 0 {
		return nil, fmt.Errorf("%w: d and n must be positive", ErrInvalidKey)
	}
	return &PrivateKey{
		d: new(big.Int).Set(d),
		n: new(big.Int).Set(n),
	}, nil
}

// E returns the public exponent.
func (k *PublicKey) E() *big.Int { return new(big.Int).Set(k.e) }

// N returns the modulus.
func (k *PublicKey) N() *big.Int { return new(big.Int).Set(k.n) }

// KeySize returns the nominal key size in bits.
func (k *PublicKey) KeySize() int { return k.keySize }

// MaxMessageLen is the longest plaintext, in bytes, Encrypt accepts.
func (k *PublicKey) MaxMessageLen() int { return k.keySize/8 - 1 }

// D returns the private exponent.
func (k *PrivateKey) D() *big.Int { return new(big.Int).Set(k.d) }

// N returns the modulus.
func (k *PrivateKey) N() *big.Int { return new(big.Int).Set(k.n) }

// String renders the key as e=0x<hex>, n=0x<hex>, key_size=<bits>.
func (k *PublicKey) String() string {
	return fmt.Sprintf("e=0x%s, n=0x%s, key_size=%d", encodeHex(k.e), encodeHex(k.n), k.keySize)
}

// String renders the key as d=0x<hex>, n=0x<hex>.
func (k *PrivateKey) String() string {
	return fmt.Sprintf("d=0x%s, n=0x%s", encodeHex(k.d), encodeHex(k.n))
}

// EncryptInt returns m^e mod n.
func (k *PublicKey) EncryptInt(m *big.Int) *big.Int {
	return primes.ModExp(m, k.e, k.n)
}

// DecryptInt returns c^d mod n.
func (k *PrivateKey) DecryptInt(c *big.Int) *big.Int {
	return primes.ModExp(c, k.d, k.n)
}

// Encrypt encrypts message with textbook RSA and returns the ciphertext as
// lowercase hex of its big-endian bytes.
//
// The message must be shorter than KeySize/8 bytes; longer messages fail
// with ErrMessageTooLong and are never truncated.
func (k *PublicKey) Encrypt(message string) (string, error) {
	if limit := k.keySize / 8; len(message) >= limit {
		return "", fmt.Errorf("%w: %d bytes, key size %d requires fewer than %d",
			ErrMessageTooLong, len(message), k.keySize, limit)
	}

	m := new(big.Int).SetBytes([]byte(message))
	if m.Cmp(k.n) >= 0 {
		return "", fmt.Errorf("%w: message value exceeds modulus", ErrMessageTooLong)
	}
	return encodeHex(k.EncryptInt(m)), nil
}

// Decrypt reverses Encrypt. A leading 0x is accepted.
//
// Leading zero bytes of the original message do not survive the integer
// round trip.
func (k *PrivateKey) Decrypt(ciphertext string) (string, error) {
	c, err := decodeHex(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedCiphertext, err)
	}
	if c.Cmp(k.n) >= 0 {
		return "", fmt.Errorf("%w: value exceeds modulus", ErrMalformedCiphertext)
	}

	plain := k.DecryptInt(c).Bytes()
	if !utf8.Valid(plain) {
		return "", ErrInvalidPlaintext
	}
	return string(plain), nil
}

// encodeHex renders v as big-endian hex; zero renders as "00".
func encodeHex(v *big.Int) string {
	b := v.Bytes()
	if len(b) == 0 {
		return "00"
	}
	return hex.EncodeToString(b)
}

// decodeHex parses hex with an optional 0x prefix, padding odd lengths.
func decodeHex(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if s == "" {
		return nil, errors.New("empty input")
	}
	if len(s)%2 != 0 {
		s = "0" + s
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}
