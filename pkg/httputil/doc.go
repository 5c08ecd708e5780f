// Package httputil provides HTTP utilities for the Census API client.
//
// # Retry
//
// [Policy] wraps an operation with automatic retry for transient failures.
// Only errors wrapped with [RetryableError] are retried:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// It uses exponential backoff with jitter to avoid synchronized retry storms:
//
//	p := httputil.Policy{Attempts: 3, BaseDelay: 1500 * time.Millisecond}
//	err := p.Do(ctx, func(attempt int) error {
//	    return fetchOnce(ctx)
//	})
//
// The wait after failed attempt n is BaseDelay*2^(n-1) plus a uniform jitter
// in [0, BaseDelay), raised to any Retry-After the server sent. Sleeping goes through a [clock.Clock] so tests can
// drive retries with a mock clock instead of real time.
//
// # Configuration
//
// Default settings:
//
//   - Attempts: 3
//   - Base backoff: 1.5 seconds
//
// [clock.Clock]: https://pkg.go.dev/github.com/benbjohnson/clock#Clock
package httputil
