package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Query hooks
	q := NoopQueryHooks{}
	q.OnQueryStart(ctx, "acs5", "county")
	q.OnQueryComplete(ctx, "acs5", "county", 58, time.Second, nil)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "api.census.gov", "/data/2023/acs/acs5")
	h.OnResponse(ctx, "GET", "api.census.gov", "/data/2023/acs/acs5", 200, time.Second)
	h.OnError(ctx, "GET", "api.census.gov", "/data/2023/acs/acs5", nil)
	h.OnRetry(ctx, "api.census.gov", 1, time.Second, errors.New("reset"))
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Query().(NoopQueryHooks); !ok {
		t.Error("Query() should return NoopQueryHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customQuery := &testQueryHooks{}
	SetQueryHooks(customQuery)
	if Query() != customQuery {
		t.Error("SetQueryHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Query().(NoopQueryHooks); !ok {
		t.Error("Reset() should restore NoopQueryHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testQueryHooks{}
	SetQueryHooks(custom)

	// Setting nil should be ignored
	SetQueryHooks(nil)

	if Query() != custom {
		t.Error("SetQueryHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testQueryHooks struct{ NoopQueryHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
