package httputil

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/benbjohnson/clock"
)

// Default retry settings used by the zero [Policy].
const (
	DefaultAttempts  = 3
	DefaultBaseDelay = 1500 * time.Millisecond
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a [RetryableError]. It returns nil for a nil error.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped with [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// RetryAfterer is implemented by errors that carry a server-requested wait,
// such as the Retry-After header of a 429 response.
type RetryAfterer interface {
	RetryAfterDelay() time.Duration
}

// retryAfter returns the server-requested wait carried by err, or zero.
func retryAfter(err error) time.Duration {
	var ra RetryAfterer
	if errors.As(err, &ra) {
		return ra.RetryAfterDelay()
	}
	return 0
}

// Policy controls how [Policy.Do] retries an operation.
//
// The wait before attempt n+1 is BaseDelay * 2^(n-1) plus a jitter drawn
// uniformly from [0, BaseDelay), so concurrent callers that fail together
// do not retry in lockstep. When the failure implements [RetryAfterer] the
// wait is at least the delay it asks for.
//
// The zero value is usable: it performs [DefaultAttempts] attempts with
// [DefaultBaseDelay] on the wall clock.
type Policy struct {
	// Attempts is the total number of attempts, including the first.
	Attempts int

	// BaseDelay is the wait after the first failure. Zero means
	// [DefaultBaseDelay]; a negative value disables waiting.
	BaseDelay time.Duration

	// Clock is used for sleeping between attempts. Tests inject clock.NewMock().
	Clock clock.Clock

	// Jitter returns a random duration in [0, d). Nil uses math/rand/v2.
	Jitter func(d time.Duration) time.Duration

	// OnRetry is called before sleeping with the attempt that just failed
	// (1-based), the computed delay and the failure.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Do executes fn until it succeeds, returns a non-retryable error, or the
// attempt budget is spent. fn receives the 1-based attempt number.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled
// while waiting.
func (p Policy) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	base := p.BaseDelay
	switch {
	case base == 0:
		base = DefaultBaseDelay
	case base < 0:
		base = 0
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	jitter := p.Jitter
	if jitter == nil {
		jitter = randomJitter
	}

	var lastErr error
	for n := 1; n <= attempts; n++ {
		if err := fn(n); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if n == attempts {
			break
		}
		delay := max(Backoff(base, n)+jitter(base), retryAfter(lastErr))
		if p.OnRetry != nil {
			p.OnRetry(n, delay, lastErr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clk.After(delay):
		}
	}
	return lastErr
}

// Backoff returns the deterministic part of the wait after the given failed
// attempt: base * 2^(attempt-1).
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base << (attempt - 1)
}

func randomJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return rand.N(d)
}
