package errors

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

// fetchChain builds the error Fetch returns after a connection failure on
// its last attempt.
func fetchChain() (*net.OpError, error) {
	dial := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	inner := Wrap(ErrCodeNetwork, dial, "GET %s", "api.census.gov")
	return dial, Wrap(ErrCodeFetch, inner, "GET %s", "https://api.census.gov/data/2023/acs/acs5?get=NAME&key=REDACTED")
}

func TestNew(t *testing.T) {
	err := New(ErrCodeUnsupportedYear, "acs1 was not released for %d", 2020)

	if err.Code != ErrCodeUnsupportedYear {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnsupportedYear)
	}
	if got, want := err.Error(), "UNSUPPORTED_YEAR: acs1 was not released for 2020"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if err.Cause != nil {
		t.Errorf("Cause = %v, want nil", err.Cause)
	}
}

func TestFetchWrapsNetworkError(t *testing.T) {
	dial, err := fetchChain()

	if !Is(err, ErrCodeFetch) {
		t.Error("outer code should be FETCH_ERROR")
	}
	if Is(err, ErrCodeNetwork) {
		t.Error("Is should only consult the outermost code")
	}
	if GetCode(err) != ErrCodeFetch {
		t.Errorf("GetCode() = %v, want FETCH_ERROR", GetCode(err))
	}

	var opErr *net.OpError
	if !errors.As(err, &opErr) || opErr != dial {
		t.Error("errors.As should reach the dial error through both wraps")
	}

	var inner *Error
	if !errors.As(errors.Unwrap(err), &inner) || inner.Code != ErrCodeNetwork {
		t.Errorf("cause = %v, want NETWORK_ERROR", errors.Unwrap(err))
	}

	want := "FETCH_ERROR: GET https://api.census.gov/data/2023/acs/acs5?get=NAME&key=REDACTED: " +
		"NETWORK_ERROR: GET api.census.gov: dial tcp: connection refused"
	if err.Error() != want {
		t.Errorf("Error() =\n%s\nwant\n%s", err.Error(), want)
	}
}

func TestFetchWrapsContextError(t *testing.T) {
	err := Wrap(ErrCodeFetch, context.DeadlineExceeded, "GET %s", "api.census.gov")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("errors.Is should see the deadline through FETCH_ERROR")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"missing key", New(ErrCodeConfiguration, "CENSUS_API_KEY is not set"), ErrCodeConfiguration},
		{"county without state", New(ErrCodeInvalidArgument, "county requires state"), ErrCodeInvalidArgument},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	_, err := fetchChain()
	if got := UserMessage(err); got != "GET https://api.census.gov/data/2023/acs/acs5?get=NAME&key=REDACTED" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("status 400")); got != "status 400" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestRateLimitedError(t *testing.T) {
	tests := []struct {
		retryAfter int
		wantMsg    string
		wantDelay  time.Duration
	}{
		{60, "rate limited: retry after 60 seconds", time.Minute},
		{0, "rate limited", 0},
	}

	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			err := &RateLimitedError{RetryAfter: tt.retryAfter}
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
			if err.RetryAfterDelay() != tt.wantDelay {
				t.Errorf("RetryAfterDelay() = %v, want %v", err.RetryAfterDelay(), tt.wantDelay)
			}
			if err.Code() != ErrCodeRateLimited {
				t.Errorf("Code() = %v", err.Code())
			}
		})
	}
}
