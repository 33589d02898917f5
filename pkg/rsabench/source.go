package rsabench

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mahdiidarabi/rsabench/internal/search"
	"github.com/mahdiidarabi/rsabench/pkg/primes"
)

// PrimeRequest describes the primes a key pair needs.
type PrimeRequest struct {
	Bits     int           // bit length of each prime
	Exponent *big.Int      // public exponent the primes must suit
	Source   primes.Source // randomness for candidates and witnesses
	Logger   *zap.Logger
}

// PrimeSource supplies the two primes p and q of a key pair.
// Implement this interface to plug in a custom prime supply.
type PrimeSource interface {
	// Primes returns two distinct primes for req.
	Primes(ctx context.Context, req PrimeRequest) (p, q *big.Int, err error)

	// Name returns a human-readable name for this source.
	Name() string
}

func (r PrimeRequest) generator() *primes.Generator {
	gen := primes.NewGenerator()
	if r.Source != nil {
		gen.WithSource(r.Source)
	}
	if r.Logger != nil {
		gen.WithLogger(r.Logger)
	}
	return gen
}

// RandomPrimes draws p and q one after the other with primes.Generator.RSAPrime.
// It is the default source.
type RandomPrimes struct{}

// Name returns the name of this source.
func (RandomPrimes) Name() string { return "RandomPrimes" }

// Primes implements PrimeSource.
func (RandomPrimes) Primes(ctx context.Context, req PrimeRequest) (*big.Int, *big.Int, error) {
	gen := req.generator()

	p, err := gen.RSAPrime(ctx, req.Bits, req.Exponent)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate p: %w", err)
	}
	for {
		q, err := gen.RSAPrime(ctx, req.Bits, req.Exponent)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate q: %w", err)
		}
		if q.Cmp(p) != 0 {
			return p, q, nil
		}
	}
}

// ParallelPrimes searches for p and q concurrently, each with a pool of
// workers running independent prime walks; the first walk to finish wins.
type ParallelPrimes struct {
	// NumWorkers is the pool size per prime (0 = auto-detect)
	NumWorkers int
}

// Name returns the name of this source.
func (ParallelPrimes) Name() string { return "ParallelPrimes" }

// Primes implements PrimeSource.
func (s ParallelPrimes) Primes(ctx context.Context, req PrimeRequest) (*big.Int, *big.Int, error) {
	gen := req.generator()
	task := func(ctx context.Context, _ int) (*big.Int, error) {
		return gen.RSAPrime(ctx, req.Bits, req.Exponent)
	}
	cfg := search.Config{NumWorkers: s.NumWorkers}

	var found [2]*big.Int
	g, gctx := errgroup.WithContext(ctx)
	for i := range found {
		g.Go(func() error {
			result, err := search.First(gctx, cfg, task, req.Logger)
			if err != nil {
				return err
			}
			found[i] = result.Value
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to generate primes: %w", err)
	}

	p, q := found[0], found[1]
	for q.Cmp(p) == 0 {
		result, err := search.First(ctx, cfg, task, req.Logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate q: %w", err)
		}
		q = result.Value
	}
	return p, q, nil
}

// Fixed demonstration primes (about 1024 and 1021 bits).
const (
	demoP = "139994220046599870956477883091679933690050533958413494361175765878388009712904598731424186305339031206019565236997846660570761217646048284207677518721266680939831427068831637241977141961489794692430839032834024879488857316806532010854492726294105537204910807701759409438736850050909718880794247851826676100659"
	demoQ = "20337389656960998294326592338925696049790959565505524757730559391668959560932144154442555453184409001656780058972239977264029595425232148897830766318496332557443315901939488057301965284632550878932705482850011409884552920307156809956275260034172790640432552099351997217171943939928463951900471047653412995743"
)

type demoPrimes struct{}

// DemoPrimes returns a deterministic test-mode source that always yields the
// same two fixed primes and ignores the requested size. Keys built from it
// are public knowledge: use it only for demos and reproducible tests.
func DemoPrimes() PrimeSource {
	return demoPrimes{}
}

func (demoPrimes) Name() string { return "DemoPrimes" }

func (demoPrimes) Primes(_ context.Context, req PrimeRequest) (*big.Int, *big.Int, error) {
	if req.Logger != nil {
		req.Logger.Warn("using fixed demonstration primes; the key is not secret",
			zap.Int("requested_bits", req.Bits),
		)
	}
	p, _ := new(big.Int).SetString(demoP, 10)
	q, _ := new(big.Int).SetString(demoQ, 10)
	return p, q, nil
}
