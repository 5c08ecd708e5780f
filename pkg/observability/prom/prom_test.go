package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	errs "github.com/matzehuels/censusacs/pkg/errors"
)

func TestHooksRecordQueries(t *testing.T) {
	h := New(prometheus.NewRegistry())
	ctx := context.Background()

	h.OnQueryComplete(ctx, "acs5", "county", 58, time.Second, nil)
	h.OnQueryComplete(ctx, "acs5", "county", 0, time.Second, nil)
	h.OnQueryComplete(ctx, "acs1", "state", 0, time.Millisecond, errs.New(errs.ErrCodeUnsupportedYear, "2020"))

	if got := testutil.ToFloat64(h.queries.WithLabelValues("acs5", "county", "ok")); got != 1 {
		t.Errorf("ok queries = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.queries.WithLabelValues("acs5", "county", "empty")); got != 1 {
		t.Errorf("empty queries = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.queries.WithLabelValues("acs1", "state", "UNSUPPORTED_YEAR")); got != 1 {
		t.Errorf("unsupported queries = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.rows.WithLabelValues("acs5")); got != 58 {
		t.Errorf("rows = %v, want 58", got)
	}
}

func TestHooksRecordHTTP(t *testing.T) {
	h := New(prometheus.NewRegistry())
	ctx := context.Background()

	h.OnResponse(ctx, "GET", "api.census.gov", "/data", 503, time.Second)
	h.OnRetry(ctx, "api.census.gov", 1, time.Second, errors.New("503"))
	h.OnResponse(ctx, "GET", "api.census.gov", "/data", 200, time.Second)
	h.OnError(ctx, "GET", "api.census.gov", "/data", errors.New("timeout"))

	if got := testutil.ToFloat64(h.requests.WithLabelValues("api.census.gov", "503")); got != 1 {
		t.Errorf("503 responses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.retries.WithLabelValues("api.census.gov")); got != 1 {
		t.Errorf("retries = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.httpErrors.WithLabelValues("api.census.gov")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		rows int
		err  error
		want string
	}{
		{3, nil, "ok"},
		{0, nil, "empty"},
		{0, errors.New("plain"), "error"},
		{0, errs.New(errs.ErrCodeFetch, "x"), "FETCH_ERROR"},
	}
	for _, tt := range tests {
		if got := outcome(tt.rows, tt.err); got != tt.want {
			t.Errorf("outcome(%d, %v) = %q, want %q", tt.rows, tt.err, got, tt.want)
		}
	}
}
