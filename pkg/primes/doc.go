// Package primes implements the number theory RSA is built on: modular
// exponentiation by squaring, Miller-Rabin primality testing behind a
// small-prime trial division, random prime generation, and the extended
// Euclidean algorithm with its modular inverse.
//
// # Quick Start
//
//	p, err := primes.RSAPrime(512, big.NewInt(65537))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(primes.IsPrime(p)) // true
//
// # Reproducible Runs
//
// Every randomized component takes a Source. Tests can swap in a seeded one:
//
//	gen := primes.NewGenerator().WithSource(primes.NewSeededSource(42))
//	p, err := gen.BigPrime(ctx, 256)
//
// Values returned by this package are freshly allocated; arguments are never
// modified.
package primes
