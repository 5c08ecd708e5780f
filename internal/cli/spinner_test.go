package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSpinnerBasic(t *testing.T) {
	s := newSpinner("Testing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	// Spinner should be stopped, not cancelled
	// (Cancelled returns true only if Stop was called due to context cancellation)
	_ = s.Cancelled() // Verify method is callable; value not asserted as Stop() doesn't set cancelled
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Testing with context...")
	s.Start()

	// Cancel the context
	cancel()

	// Give goroutine time to notice cancellation
	time.Sleep(100 * time.Millisecond)

	// Spinner should be cancelled
	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Testing with timeout...")
	s.Start()

	// Wait for timeout
	time.Sleep(100 * time.Millisecond)

	// Spinner should be cancelled due to timeout
	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Testing idempotent stop...")
	s.Start()

	// Stop multiple times should not panic
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := newSpinner("Testing success...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Done!")
}

func TestSpinnerStopWithError(t *testing.T) {
	s := newSpinner("Testing error...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("Failed!")
}

func TestNewSpinnerWithContextNilParent(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Test")
	s.Start()
	s.Stop()
}

func TestSpinnerWritesElapsedAndClears(t *testing.T) {
	var buf syncBuffer
	s := newSpinner("Fetching acs5 county")
	s.out = &buf
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Fetching acs5 county 0s") {
		t.Errorf("spinner output missing message and elapsed time: %q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("spinner should clear its line on stop: %q", out)
	}
}

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
