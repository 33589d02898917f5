// Package rsabench implements textbook RSA key generation, encryption and
// decryption on top of package primes.
//
// It is a reference implementation: there is no padding and no timing or
// side-channel hardening. Do not use it to protect real data.
//
// # Quick Start
//
//	import "github.com/mahdiidarabi/rsabench/pkg/rsabench"
//
//	pub, priv, err := rsabench.GenKeys(rsabench.KeySize(2048), rsabench.Exponent(65537))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ciphertext, err := pub.Encrypt("hello")
//	plaintext, err := priv.Decrypt(ciphertext)
//
// # Prime Sources
//
// Where p and q come from is pluggable:
//
//	gen := rsabench.NewGenerator().
//	    WithPrimeSource(rsabench.ParallelPrimes{NumWorkers: 8}).
//	    WithLogger(logger)
//
//	pub, priv, err := gen.Generate(ctx, rsabench.KeySize(4096), rsabench.DefaultExponent)
//
// DemoPrimes is a deterministic test mode that always returns the same two
// fixed primes. It exists for demos and reproducible tests only.
//
// # Custom Prime Sources
//
// Implement the PrimeSource interface:
//
//	type MyPrimes struct{}
//
//	func (MyPrimes) Primes(ctx context.Context, req rsabench.PrimeRequest) (*big.Int, *big.Int, error) {
//	    // Your prime supply
//	}
//
//	func (MyPrimes) Name() string {
//	    return "MyPrimes"
//	}
package rsabench
