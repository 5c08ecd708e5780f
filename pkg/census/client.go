package census

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/matzehuels/censusacs/pkg/buildinfo"
	errs "github.com/matzehuels/censusacs/pkg/errors"
	"github.com/matzehuels/censusacs/pkg/httputil"
	"github.com/matzehuels/censusacs/pkg/observability"
)

// KeyEnv is the environment variable holding the Census API key.
const KeyEnv = "CENSUS_API_KEY"

// Transport defaults. The API can take minutes to assemble large extents
// such as every block group in a state.
const (
	DefaultMaxRetries     = 3
	DefaultBaseDelay      = 1500 * time.Millisecond
	DefaultConnectTimeout = 60 * time.Second
	DefaultReadTimeout    = 180 * time.Second
)

// maxErrorBody bounds how much of an error response is kept for diagnostics.
const maxErrorBody = 512

// userAgent identifies the client to the Census API.
var userAgent = "censusacs/" + buildinfo.Version + " (https://github.com/matzehuels/censusacs)"

// KeyFunc returns the API key for one query. It is called per query so a
// key rotated in the environment takes effect without restarting.
type KeyFunc func() (string, error)

// EnvKey reads the key from [KeyEnv] at call time. An unset variable yields
// an empty key, which the URL builder reports as a CONFIGURATION_ERROR.
func EnvKey() (string, error) {
	return os.Getenv(KeyEnv), nil
}

// StaticKey returns a KeyFunc that always yields key.
func StaticKey(key string) KeyFunc {
	return func() (string, error) { return key, nil }
}

// ClientConfig configures a [Client]. Zero fields take the documented defaults.
type ClientConfig struct {
	// BaseURL overrides [DefaultBaseURL], e.g. for a test server.
	BaseURL string

	// Key supplies the API key. Nil means [EnvKey].
	Key KeyFunc

	// MaxRetries is the total number of attempts per request (default 3).
	MaxRetries int

	// BaseDelay is the first retry wait (default 1.5s); later waits double.
	BaseDelay time.Duration

	// ConnectTimeout bounds dialing (default 60s). ReadTimeout bounds the
	// wait for response headers and each wait for more body data (default
	// 180s); a response that keeps streaming is never cut off. Both only
	// configure the default transport, except that the body wait also
	// applies to a caller's HTTPClient.
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	// RequestsPerSecond enables a client-side token bucket when positive.
	RequestsPerSecond float64
	Burst             int

	// HTTPClient replaces the default transport.
	HTTPClient *http.Client

	// Clock drives retry sleeps. Nil uses the wall clock.
	Clock clock.Clock

	// Logger receives retry, failure and empty-payload diagnostics.
	Logger *log.Logger
}

// Client queries the ACS endpoints of the Census Data API.
//
// A Client holds no per-query state: all methods are safe for concurrent use
// by multiple goroutines.
type Client struct {
	http    *http.Client
	idle    time.Duration
	baseURL string
	key     KeyFunc
	retry   httputil.Policy
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewClient creates a Client from cfg.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		http:    cfg.HTTPClient,
		idle:    cfg.ReadTimeout,
		baseURL: cfg.BaseURL,
		key:     cfg.Key,
		logger:  cfg.Logger,
		retry: httputil.Policy{
			Attempts:  cfg.MaxRetries,
			BaseDelay: cfg.BaseDelay,
			Clock:     cfg.Clock,
		},
	}
	if c.http == nil {
		c.http = NewHTTPClient(cfg.ConnectTimeout, cfg.ReadTimeout)
	}
	if c.idle <= 0 {
		c.idle = DefaultReadTimeout
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.key == nil {
		c.key = EnvKey
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if c.retry.Attempts <= 0 {
		c.retry.Attempts = DefaultMaxRetries
	}
	if c.retry.BaseDelay == 0 {
		c.retry.BaseDelay = DefaultBaseDelay
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.Burst, 1))
	}
	return c
}

// NewHTTPClient creates an HTTP client with separate connect and
// response-header timeouts. Zero values select [DefaultConnectTimeout] and
// [DefaultReadTimeout]. There is no overall deadline: large extents can take
// longer than any fixed cap to stream, so [Client.Fetch] instead bounds the
// gap between body reads.
func NewHTTPClient(connect, read time.Duration) *http.Client {
	if connect <= 0 {
		connect = DefaultConnectTimeout
	}
	if read <= 0 {
		read = DefaultReadTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: connect, KeepAlive: 30 * time.Second}).DialContext
	transport.TLSHandshakeTimeout = connect
	transport.ResponseHeaderTimeout = read
	return &http.Client{Transport: transport}
}

// BaseURL returns the API root this client queries.
func (c *Client) BaseURL() string { return c.baseURL }

// ReadTimeoutError reports a response body that delivered no data for
// longer than the read timeout.
type ReadTimeoutError struct {
	Idle time.Duration
}

func (e *ReadTimeoutError) Error() string {
	return fmt.Sprintf("no response data for %s", e.Idle)
}

// Timeout reports true so the error satisfies net.Error-style checks.
func (e *ReadTimeoutError) Timeout() bool { return true }

// idleReader pushes back the body deadline every time data arrives.
type idleReader struct {
	r     io.Reader
	timer *time.Timer
	idle  time.Duration
}

func (ir *idleReader) Read(p []byte) (int, error) {
	n, err := ir.r.Read(p)
	if n > 0 {
		ir.timer.Reset(ir.idle)
	}
	return n, err
}

// StatusError is a non-2xx response from the API. Body holds the start of
// the response text, which is where the API explains rejected variables.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

// Fetch performs a GET of rawURL and decodes the JSON array-of-arrays.
//
// Network errors, 5xx and 429 responses are retried with exponential
// backoff and jitter up to the configured attempt budget; other statuses and
// undecodable bodies fail at once. Either way the caller sees a single
// FETCH_ERROR wrapping the last underlying error, logged before it is
// returned.
//
// A payload without data rows (including an empty 204 body) is not an
// error: it is logged as a warning and returned as-is.
func (c *Client) Fetch(ctx context.Context, rawURL string) (Payload, error) {
	host, path := splitURL(rawURL)
	redacted := redactURL(rawURL)

	policy := c.retry
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		c.logger.Warn("census request failed, retrying",
			"attempt", attempt,
			"of", policy.Attempts,
			"delay", delay.Round(time.Millisecond),
			"err", err)
		observability.HTTP().OnRetry(ctx, host, attempt, delay, err)
	}

	var payload Payload
	err := policy.Do(ctx, func(int) error {
		p, err := c.fetchOnce(ctx, rawURL, host, path)
		if err != nil {
			return err
		}
		payload = p
		return nil
	})
	if err != nil {
		var re *httputil.RetryableError
		if errors.As(err, &re) {
			err = re.Err
		}
		c.logger.Error("census request failed", "url", redacted, "err", err)
		return nil, errs.Wrap(errs.ErrCodeFetch, err, "GET %s", redacted)
	}

	if payload.Empty() {
		c.logger.Warn("census response has no data rows", "url", redacted, "rows", len(payload))
	}
	return payload, nil
}

func (c *Client) fetchOnce(ctx context.Context, rawURL, host, path string) (Payload, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	reqCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = redactURL(uerr.URL)
		}
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(errs.Wrap(errs.ErrCodeNetwork, err, "GET %s", host))
	}
	defer resp.Body.Close()

	stall := time.AfterFunc(c.idle, func() { cancel(&ReadTimeoutError{Idle: c.idle}) })
	defer stall.Stop()

	body, err := io.ReadAll(&idleReader{r: resp.Body, timer: stall, idle: c.idle})
	hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if cause := context.Cause(reqCtx); cause != nil {
			err = cause
		}
		return nil, httputil.Retryable(errs.Wrap(errs.ErrCodeNetwork, err, "read body from %s", host))
	}

	if err := checkStatus(resp, body); err != nil {
		return nil, err
	}
	return decodePayload(body)
}

func checkStatus(resp *http.Response, body []byte) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK, code == http.StatusNoContent:
		return nil
	case code == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return httputil.Retryable(&errs.RateLimitedError{RetryAfter: retryAfter, Message: excerpt(body)})
	case code >= 500:
		return httputil.Retryable(&StatusError{StatusCode: code, Body: excerpt(body)})
	default:
		return &StatusError{StatusCode: code, Body: excerpt(body)}
	}
}

// decodePayload parses the array-of-arrays body. JSON nulls become empty
// strings and any non-string scalar keeps its literal text.
func decodePayload(body []byte) (Payload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw [][]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response (%q): %w", excerpt(body), err)
	}

	p := make(Payload, len(raw))
	for i, row := range raw {
		cells := make([]string, len(row))
		for j, v := range row {
			switch v := v.(type) {
			case nil:
			case string:
				cells[j] = v
			case json.Number:
				cells[j] = v.String()
			default:
				cells[j] = fmt.Sprint(v)
			}
		}
		p[i] = cells
	}
	return p, nil
}

func excerpt(body []byte) string {
	s := string(bytes.TrimSpace(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}

func splitURL(raw string) (host, path string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", ""
	}
	return u.Host, u.Path
}
