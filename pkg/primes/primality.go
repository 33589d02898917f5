package primes

import (
	"fmt"
	"math/big"
	"sync"
)

const (
	// DefaultRounds bounds the false-positive rate of IsPrime by 2^-128.
	DefaultRounds = 128

	// SmallPrimeCount is how many primes trial division runs through.
	SmallPrimeCount = 100
)

var smallPrimes = sync.OnceValue(func() []*big.Int {
	found := make([]int64, 0, SmallPrimeCount)
	for c := int64(2); len(found) < SmallPrimeCount; c++ {
		isPrime := true
		for _, p := range found {
			if p*p > c {
				break
			}
			if c%p == 0 {
				isPrime = false
				break
			}
		}
		if isPrime {
			found = append(found, c)
		}
	}

	out := make([]*big.Int, len(found))
	for i, p := range found {
		out[i] = big.NewInt(p)
	}
	return out
})

// SmallPrimes returns the first SmallPrimeCount primes in increasing order.
func SmallPrimes() []*big.Int {
	cached := smallPrimes()
	out := make([]*big.Int, len(cached))
	for i, p := range cached {
		out[i] = new(big.Int).Set(p)
	}
	return out
}

// Rewrite factors powers of two out of n, returning s and odd d with n = 2^s * d.
// Rewrite(0) returns (0, 0).
func Rewrite(n *big.Int) (s int, d *big.Int) {
	d = new(big.Int).Set(n)
	if d.Sign() == 0 {
		return 0, d
	}
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		s++
	}
	return s, d
}

// Tester decides primality with trial division followed by Miller-Rabin.
type Tester struct {
	source Source
	rounds int
}

// NewTester creates a tester drawing witnesses from crypto/rand.
func NewTester() *Tester {
	return &Tester{
		source: CryptoSource{},
		rounds: DefaultRounds,
	}
}

// WithSource sets the source Miller-Rabin witnesses are drawn from.
func (t *Tester) WithSource(source Source) *Tester {
	t.source = source
	return t
}

// WithRounds sets the number of Miller-Rabin rounds. Each round at least
// quarters the chance of accepting a composite.
func (t *Tester) WithRounds(rounds int) *Tester {
	if rounds > 0 {
		t.rounds = rounds
	}
	return t
}

// IsPrime reports whether candidate is probably prime. Primes are never
// rejected; an error only comes from the random source.
func (t *Tester) IsPrime(candidate *big.Int) (bool, error) {
	if candidate.Cmp(two) < 0 {
		return false, nil
	}

	rem := new(big.Int)
	for _, p := range smallPrimes() {
		if candidate.Cmp(p) == 0 {
			return true, nil
		}
		if rem.Mod(candidate, p).Sign() == 0 {
			return false, nil
		}
	}
	return t.MillerRabin(candidate)
}

// MillerRabin runs the probabilistic Miller-Rabin test alone.
//
// Each round picks a witness a in [2, candidate-2] and checks that
// a^d, a^2d, ..., a^(2^(s-1)d) mod candidate behaves as it must for a prime.
func (t *Tester) MillerRabin(candidate *big.Int) (bool, error) {
	switch {
	case candidate.Cmp(two) < 0:
		return false, nil
	case candidate.Cmp(two) == 0, candidate.Cmp(big.NewInt(3)) == 0:
		return true, nil
	case candidate.Bit(0) == 0:
		return false, nil
	}

	nMinus1 := new(big.Int).Sub(candidate, one)
	nMinus2 := new(big.Int).Sub(candidate, two)
	s, d := Rewrite(nMinus1)

witnessLoop:
	for round := 0; round < t.rounds; round++ {
		a, err := randomRange(t.source, two, nMinus2)
		if err != nil {
			return false, fmt.Errorf("failed to sample witness: %w", err)
		}

		x := ModExp(a, d, candidate)
		if x.Cmp(one) == 0 || x.Cmp(nMinus1) == 0 {
			continue
		}

		for i := 1; i < s; i++ {
			x.Mul(x, x)
			x.Mod(x, candidate)
			if x.Cmp(one) == 0 {
				return false, nil
			}
			if x.Cmp(nMinus1) == 0 {
				continue witnessLoop
			}
		}
		return false, nil
	}
	return true, nil
}

var defaultTester = NewTester()

// IsPrime reports whether candidate is probably prime using crypto/rand
// witnesses and DefaultRounds rounds.
//
// It panics if the system random source fails, as crypto/rand does.
func IsPrime(candidate *big.Int) bool {
	ok, err := defaultTester.IsPrime(candidate)
	if err != nil {
		panic("primes: " + err.Error())
	}
	return ok
}
