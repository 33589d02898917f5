// Package selftest checks the number-theoretic engine against well-known
// primes and against independent modular arithmetic from the secp256k1 and
// edwards25519 libraries.
package selftest

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/rsabench/pkg/primes"
)

// Options configures a self-check run.
type Options struct {
	// Source supplies witnesses and random samples
	Source primes.Source

	// Rounds is the Miller-Rabin round count (0 = primes.DefaultRounds)
	Rounds int

	// Samples is the number of random inputs per differential check
	Samples int

	// KeyBits is the size of the throwaway key used for the round trip
	KeyBits int

	Logger *zap.Logger
}

// DefaultOptions returns options backed by crypto/rand.
func DefaultOptions() Options {
	return Options{
		Source:  primes.CryptoSource{},
		Rounds:  primes.DefaultRounds,
		Samples: 32,
		KeyBits: 256,
		Logger:  zap.NewNop(),
	}
}

// Check is the outcome of a single self-check.
type Check struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Passed reports whether the check succeeded.
func (c Check) Passed() bool { return c.Err == nil }

// Report collects every check of a run.
type Report struct {
	Checks []Check
}

// Err combines the failures of all checks, or returns nil.
func (r *Report) Err() error {
	var err error
	for _, c := range r.Checks {
		if c.Err != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", c.Name, c.Err))
		}
	}
	return err
}

// Failed counts the failed checks.
func (r *Report) Failed() int {
	n := 0
	for _, c := range r.Checks {
		if !c.Passed() {
			n++
		}
	}
	return n
}

type env struct {
	opts   Options
	tester *primes.Tester
}

type check struct {
	name string
	run  func(ctx context.Context, e *env) error
}

var checks = []check{
	{"small primes", checkSmallPrimes},
	{"mersenne numbers", checkMersenne},
	{"curve primes", checkCurvePrimes},
	{"secp256k1 scalar inverse", checkSecp256k1ScalarInverse},
	{"secp256k1 field inverse", checkSecp256k1FieldInverse},
	{"ed25519 scalar inverse", checkEd25519ScalarInverse},
	{"curve25519 field inverse", checkCurve25519FieldInverse},
	{"extended gcd", checkExtendedGCD},
	{"modular exponentiation", checkModExp},
	{"rsa round trip", checkRoundTrip},
}

// Run executes every check. A failing check does not stop the run; a
// cancelled context marks the remaining checks as failed.
func Run(ctx context.Context, opts Options) *Report {
	defaults := DefaultOptions()
	if opts.Source == nil {
		opts.Source = defaults.Source
	}
	if opts.Rounds <= 0 {
		opts.Rounds = defaults.Rounds
	}
	if opts.Samples <= 0 {
		opts.Samples = defaults.Samples
	}
	if opts.KeyBits <= 0 {
		opts.KeyBits = defaults.KeyBits
	}
	if opts.Logger == nil {
		opts.Logger = defaults.Logger
	}

	e := &env{
		opts:   opts,
		tester: primes.NewTester().WithSource(opts.Source).WithRounds(opts.Rounds),
	}

	report := &Report{}
	for _, c := range checks {
		if err := ctx.Err(); err != nil {
			report.Checks = append(report.Checks, Check{Name: c.name, Err: err})
			continue
		}

		start := time.Now()
		err := c.run(ctx, e)
		result := Check{Name: c.name, Err: err, Duration: time.Since(start)}
		report.Checks = append(report.Checks, result)

		if err != nil {
			opts.Logger.Warn("self-check failed", zap.String("check", c.name), zap.Error(err))
		} else {
			opts.Logger.Debug("self-check passed",
				zap.String("check", c.name),
				zap.Duration("duration", result.Duration),
			)
		}
	}
	return report
}

// expectPrime runs the tester and compares against want.
func (e *env) expectPrime(label string, n *big.Int, want bool) error {
	got, err := e.tester.IsPrime(n)
	if err != nil {
		return fmt.Errorf("failed to test %s: %w", label, err)
	}
	if got != want {
		return fmt.Errorf("%s: IsPrime = %v, want %v", label, got, want)
	}
	return nil
}

// sample returns a uniform value in [1, limit).
func (e *env) sample(limit *big.Int) (*big.Int, error) {
	v, err := e.opts.Source.Int(new(big.Int).Sub(limit, big.NewInt(1)))
	if err != nil {
		return nil, fmt.Errorf("failed to sample: %w", err)
	}
	return v.Add(v, big.NewInt(1)), nil
}
