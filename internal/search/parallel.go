package search

import (
	"context"
	"errors"
	"math/big"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrExhausted is returned when every worker stopped without a result.
var ErrExhausted = errors.New("search exhausted without a result")

// Task performs one attempt. It returns (nil, nil) when the attempt found
// nothing and should be repeated, and must return promptly once ctx is done.
type Task func(ctx context.Context, workerID int) (*big.Int, error)

// Result is the first value any worker produced.
type Result struct {
	Value    *big.Int
	WorkerID int
	Attempts int64 // attempts started across all workers
}

// Config controls a parallel search.
type Config struct {
	// NumWorkers controls parallelization (0 = auto-detect)
	NumWorkers int

	// MaxAttempts caps attempts per worker (0 = unlimited)
	MaxAttempts int
}

// First runs task on parallel workers and returns the first value found.
// The remaining workers are cancelled and waited for before First returns.
//
// Args:
//   - ctx: parent context; its cancellation aborts the search
//   - cfg: worker count and per-worker attempt cap
//   - task: a single attempt
//   - logger: receives debug output
//
// Returns:
//   - the first Result, or the combined worker errors, or ctx.Err()
func First(ctx context.Context, cfg Config, task Task, logger *zap.Logger) (*Result, error) {
	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultChan := make(chan *Result, 1)

	var (
		attempts int64
		errMu    sync.Mutex
		errs     error
	)
	recordErr := func(err error) {
		errMu.Lock()
		errs = multierr.Append(errs, err)
		errMu.Unlock()
	}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			worker(ctx, workerID, cfg.MaxAttempts, task, resultChan, &attempts, recordErr)
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	logger.Debug("parallel search started", zap.Int("workers", numWorkers))

	select {
	case result := <-resultChan:
		cancel()
		<-done
		result.Attempts = atomic.LoadInt64(&attempts)
		logger.Debug("parallel search finished",
			zap.Int("worker", result.WorkerID),
			zap.Int64("attempts", result.Attempts),
		)
		return result, nil
	case <-done:
		// A worker may have delivered a result right before the last one exited.
		select {
		case result := <-resultChan:
			result.Attempts = atomic.LoadInt64(&attempts)
			return result, nil
		default:
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if errs != nil {
			return nil, errs
		}
		return nil, ErrExhausted
	}
}

// worker repeats task until it yields a value, fails, hits its attempt cap,
// or ctx is cancelled.
func worker(
	ctx context.Context,
	workerID int,
	maxAttempts int,
	task Task,
	resultChan chan<- *Result,
	attempts *int64,
	recordErr func(error),
) {
	for n := 0; maxAttempts <= 0 || n < maxAttempts; n++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		atomic.AddInt64(attempts, 1)

		value, err := task(ctx, workerID)
		if err != nil {
			if ctx.Err() == nil {
				recordErr(err)
			}
			return
		}
		if value == nil {
			continue
		}

		select {
		case resultChan <- &Result{Value: value, WorkerID: workerID}:
		default:
			// Another worker already won.
		}
		return
	}
}
