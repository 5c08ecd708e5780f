// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about ACS queries, HTTP calls, and retries.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The Prometheus implementation lives in the prom subpackage so the census
// client itself never imports a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetQueryHooks(&myQueryHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Query().OnQueryStart(ctx, "acs5", "county")
//	// ... fetch and reshape ...
//	observability.Query().OnQueryComplete(ctx, "acs5", "county", rows, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Query Hooks
// =============================================================================

// QueryHooks receives events from the survey-tier dispatcher.
type QueryHooks interface {
	// OnQueryStart records a validated query about to be fetched.
	OnQueryStart(ctx context.Context, survey, geography string)

	// OnQueryComplete records the outcome of a query. rows is zero on error
	// and for soft-empty payloads.
	OnQueryComplete(ctx context.Context, survey, geography string, rows int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)

	// OnRetry records a failed attempt that will be retried after delay.
	OnRetry(ctx context.Context, host string, attempt int, delay time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopQueryHooks is a no-op implementation of QueryHooks.
type NoopQueryHooks struct{}

func (NoopQueryHooks) OnQueryStart(context.Context, string, string) {}
func (NoopQueryHooks) OnQueryComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}
func (NoopHTTPHooks) OnRetry(context.Context, string, int, time.Duration, error)             {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	queryHooks QueryHooks = NoopQueryHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetQueryHooks registers custom query hooks.
// This should be called once at application startup before any queries run.
func SetQueryHooks(h QueryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		queryHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Query returns the registered query hooks.
func Query() QueryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return queryHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	queryHooks = NoopQueryHooks{}
	httpHooks = NoopHTTPHooks{}
}
