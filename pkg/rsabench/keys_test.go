package rsabench

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/rsabench/pkg/primes"
)

// smallKeyPair builds a deterministic key pair small enough for exhaustive tests.
func smallKeyPair(t *testing.T, bits int, e Exponent, seed uint64) (*PublicKey, *PrivateKey) {
	t.Helper()
	pub, priv, err := NewGenerator().
		WithSource(primes.NewSeededSource(seed)).
		Generate(context.Background(), KeySize(bits), e)
	require.NoError(t, err)
	return pub, priv
}

func TestKeys_String(t *testing.T) {
	pub, err := NewPublicKey(big.NewInt(3), big.NewInt(0xCA1F), 16)
	require.NoError(t, err)
	require.Equal(t, "e=0x03, n=0xca1f, key_size=16", pub.String())

	priv, err := NewPrivateKey(big.NewInt(0x1A2B), big.NewInt(0xCA1F))
	require.NoError(t, err)
	require.Equal(t, "d=0x1a2b, n=0xca1f", priv.String())
}

func TestKeys_AccessorsReturnCopies(t *testing.T) {
	pub, priv := smallKeyPair(t, 64, DefaultExponent, 1)

	pub.N().SetInt64(0)
	pub.E().SetInt64(0)
	priv.D().SetInt64(0)
	priv.N().SetInt64(0)

	require.Positive(t, pub.N().Sign())
	require.Equal(t, int64(3), pub.E().Int64())
	require.Positive(t, priv.D().Sign())
	require.Zero(t, pub.N().Cmp(priv.N()))
}

func TestNewPublicKey_Invalid(t *testing.T) {
	_, err := NewPublicKey(nil, big.NewInt(35), 16)
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = NewPublicKey(big.NewInt(1), big.NewInt(35), 16)
	require.ErrorIs(t, err, ErrExponent)

	_, err = NewPublicKey(big.NewInt(3), big.NewInt(1), 16)
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = NewPublicKey(big.NewInt(3), big.NewInt(35), 8)
	require.ErrorIs(t, err, ErrKeySize)
}

func TestNewPrivateKey_Invalid(t *testing.T) {
	_, err := NewPrivateKey(big.NewInt(0), big.NewInt(35))
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = NewPrivateKey(big.NewInt(5), nil)
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	pub, priv := smallKeyPair(t, 256, Exponent(65537), 7)

	messages := []string{
		"",
		"a",
		"hello",
		"Hello, World!",
		"héllo wörld ✓",
		strings.Repeat("x", pub.MaxMessageLen()),
	}

	for _, msg := range messages {
		ciphertext, err := pub.Encrypt(msg)
		require.NoError(t, err, "Encrypt(%q)", msg)

		plaintext, err := priv.Decrypt(ciphertext)
		require.NoError(t, err, "Decrypt(%q)", ciphertext)
		require.Equal(t, msg, plaintext)
	}
}

func TestEncryptDecrypt_AllShortMessages(t *testing.T) {
	pub, priv := smallKeyPair(t, 24, DefaultExponent, 3)
	require.Equal(t, 2, pub.MaxMessageLen())

	for a := 1; a < 128; a++ {
		for _, msg := range []string{string(rune(a)), string(rune(a)) + "z"} {
			ciphertext, err := pub.Encrypt(msg)
			require.NoError(t, err)

			plaintext, err := priv.Decrypt(ciphertext)
			require.NoError(t, err)
			require.Equal(t, msg, plaintext)
		}
	}
}

func TestEncrypt_MessageTooLong(t *testing.T) {
	pub, _ := smallKeyPair(t, 128, DefaultExponent, 11)

	_, err := pub.Encrypt(strings.Repeat("a", 16))
	require.ErrorIs(t, err, ErrMessageTooLong)

	_, err = pub.Encrypt(strings.Repeat("a", 40))
	require.ErrorIs(t, err, ErrMessageTooLong)

	_, err = pub.Encrypt(strings.Repeat("a", 15))
	require.NoError(t, err)
}

func TestEncrypt_Format(t *testing.T) {
	pub, err := NewPublicKey(big.NewInt(3), big.NewInt(1000003), 24)
	require.NoError(t, err)

	ciphertext, err := pub.Encrypt("")
	require.NoError(t, err)
	require.Equal(t, "00", ciphertext)

	// 'A' = 65, 65^3 = 274625 = 0x0430c1
	ciphertext, err = pub.Encrypt("A")
	require.NoError(t, err)
	require.Equal(t, "0430c1", ciphertext)

	// 'B' = 66, 66^3 = 287496 = 0x046308
	ciphertext, err = pub.Encrypt("B")
	require.NoError(t, err)
	require.Equal(t, "046308", ciphertext)
}

func TestDecrypt_Malformed(t *testing.T) {
	_, priv := smallKeyPair(t, 128, DefaultExponent, 13)

	for _, input := range []string{"", "0x", "zz", "12 34", "0xg1"} {
		_, err := priv.Decrypt(input)
		require.ErrorIs(t, err, ErrMalformedCiphertext, "Decrypt(%q)", input)
	}

	// A value at or above the modulus cannot be a ciphertext.
	_, err := priv.Decrypt(priv.N().Text(16))
	require.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestDecrypt_AcceptsPrefixAndOddLength(t *testing.T) {
	pub, priv := smallKeyPair(t, 128, DefaultExponent, 17)

	ciphertext, err := pub.Encrypt("prefix")
	require.NoError(t, err)

	plaintext, err := priv.Decrypt("0x" + ciphertext)
	require.NoError(t, err)
	require.Equal(t, "prefix", plaintext)

	plaintext, err = priv.Decrypt(strings.TrimLeft(ciphertext, "0"))
	require.NoError(t, err)
	require.Equal(t, "prefix", plaintext)
}

func TestDecrypt_InvalidUTF8(t *testing.T) {
	pub, priv := smallKeyPair(t, 128, DefaultExponent, 19)

	ciphertext := pub.EncryptInt(big.NewInt(0xFF))
	_, err := priv.Decrypt(ciphertext.Text(16))
	require.ErrorIs(t, err, ErrInvalidPlaintext)
}

func TestEncryptInt_DecryptInt(t *testing.T) {
	pub, priv := smallKeyPair(t, 64, Exponent(17), 23)

	for _, m := range []int64{0, 1, 2, 42, 1 << 40} {
		c := pub.EncryptInt(big.NewInt(m))
		require.Equal(t, m, priv.DecryptInt(c).Int64())
	}
}
