package selftest

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"github.com/mahdiidarabi/rsabench/pkg/primes"
)

func seededOptions(t *testing.T) Options {
	return Options{
		Source:  primes.NewSeededSource(7),
		Rounds:  20,
		Samples: 8,
		KeyBits: 128,
		Logger:  zaptest.NewLogger(t),
	}
}

func TestRun_AllChecksPass(t *testing.T) {
	report := Run(context.Background(), seededOptions(t))

	require.Len(t, report.Checks, len(checks))
	for _, c := range report.Checks {
		require.NoError(t, c.Err, "check %q", c.Name)
	}
	require.NoError(t, report.Err())
	require.Zero(t, report.Failed())
}

func TestRun_CryptoSource(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping crypto/rand self-check in short mode")
	}

	report := Run(context.Background(), Options{Samples: 4})
	require.NoError(t, report.Err())
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := Run(ctx, seededOptions(t))
	require.Equal(t, len(checks), report.Failed())
	for _, err := range multierr.Errors(report.Err()) {
		require.ErrorIs(t, err, context.Canceled)
	}
}

type brokenSource struct{}

func (brokenSource) Int(*big.Int) (*big.Int, error) {
	return nil, errors.New("entropy exhausted")
}

func TestRun_SourceFailureIsReported(t *testing.T) {
	opts := seededOptions(t)
	opts.Source = brokenSource{}

	report := Run(context.Background(), opts)
	require.Error(t, report.Err())
	require.Greater(t, report.Failed(), 0)
	require.ErrorContains(t, report.Err(), "entropy exhausted")
}

func TestLittleEndian(t *testing.T) {
	v := big.NewInt(0x0102)
	b := littleEndian(v)
	require.Len(t, b, 32)
	require.Equal(t, byte(0x02), b[0])
	require.Equal(t, byte(0x01), b[1])
	require.Zero(t, fromLittleEndian(b).Cmp(v))

	require.Zero(t, fromLittleEndian(littleEndian(p25519)).Cmp(p25519))
}

func TestKnownConstants(t *testing.T) {
	require.Equal(t, 253, ed25519L.BitLen())
	require.Equal(t, 255, p25519.BitLen())
	require.True(t, primes.IsPrime(ed25519L))
	require.True(t, primes.IsPrime(p25519))
}
