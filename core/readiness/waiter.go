package readiness

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"storage-init/core/storage"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// State is the observable phase of the readiness probe.
type State int32

const (
	StateUnknown State = iota
	StateProbing
	StateReady
	StateUnreachable
)

func (s State) String() string {
	switch s {
	case StateProbing:
		return "probing"
	case StateReady:
		return "ready"
	case StateUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// TimeoutError reports that the retry budget was exhausted before the
// storage server accepted a connection.
type TimeoutError struct {
	Attempts int
	Elapsed  time.Duration
	LastErr  error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("storage not ready after %d attempts (%s): %v", e.Attempts, e.Elapsed.Round(time.Millisecond), e.LastErr)
}

func (e *TimeoutError) Unwrap() error { return e.LastErr }

// Waiter polls a storage backend until it accepts connections, with capped
// exponential backoff between attempts instead of a fixed sleep.
type Waiter struct {
	backend     storage.Backend
	maxAttempts uint64
	baseDelay   time.Duration
	maxDelay    time.Duration
	logger      *zap.Logger

	state    atomic.Int32
	attempts atomic.Int64
}

// NewWaiter creates a waiter. maxAttempts below 1 is raised to 1; a zero
// baseDelay defaults to 500ms.
func NewWaiter(backend storage.Backend, maxAttempts uint64, baseDelay, maxDelay time.Duration, logger *zap.Logger) *Waiter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if maxDelay < baseDelay {
		maxDelay = baseDelay
	}
	return &Waiter{
		backend:     backend,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
		logger:      logger,
	}
}

// Await blocks until the backend answers a probe, the retry budget runs out,
// or ctx is cancelled. On exhaustion it returns a TimeoutError; a credential
// rejection aborts immediately since waiting cannot fix it.
func (w *Waiter) Await(ctx context.Context) error {
	w.state.Store(int32(StateProbing))
	start := time.Now()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = w.baseDelay
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxInterval = w.maxDelay
	policy.MaxElapsedTime = 0 // bounded by attempt count, not wall clock

	var lastErr error
	operation := func() error {
		attempt := w.attempts.Add(1)
		err := w.backend.Ping(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if storage.IsUnauthorized(err) {
			return backoff.Permanent(err)
		}
		w.logger.Warn("storage server not ready",
			zap.Int64("attempt", attempt),
			zap.Uint64("max_attempts", w.maxAttempts),
			zap.String("backend", string(w.backend.Kind())),
			zap.Error(err),
		)
		return err
	}

	retry := backoff.WithContext(backoff.WithMaxRetries(policy, w.maxAttempts-1), ctx)
	if err := backoff.Retry(operation, retry); err != nil {
		if storage.IsUnauthorized(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		w.state.Store(int32(StateUnreachable))
		return &TimeoutError{
			Attempts: int(w.attempts.Load()),
			Elapsed:  time.Since(start),
			LastErr:  lastErr,
		}
	}

	w.state.Store(int32(StateReady))
	return nil
}

// State returns the current probe state.
func (w *Waiter) State() State {
	return State(w.state.Load())
}

// Attempts returns how many probes have run so far.
func (w *Waiter) Attempts() int {
	return int(w.attempts.Load())
}
