package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/log"
)

func TestNewLoggerTimestampFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("querying acs5", "geography", "county")

	line := buf.String()
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(line) {
		t.Errorf("line should start with HH:MM:SS.cc timestamp: %q", line)
	}
	if !strings.Contains(line, "geography=county") {
		t.Errorf("key/value pair missing: %q", line)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"retry warning at info", log.InfoLevel, func(l *log.Logger) { l.Warn("census request failed, retrying") }, true},
		{"request url at info", log.InfoLevel, func(l *log.Logger) { l.Debug("census request", "url", "redacted") }, false},
		{"request url with --verbose", log.DebugLevel, func(l *log.Logger) { l.Debug("census request", "url", "redacted") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressFetched(t *testing.T) {
	tests := []struct {
		rows    int
		elapsed time.Duration
		want    string
	}{
		{58, 1234 * time.Millisecond, "Fetched 58 rows (1.234s)"},
		{1, 250 * time.Millisecond, "Fetched 1 row (250ms)"},
		{0, 2 * time.Second, "Fetched 0 rows (2s)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var buf bytes.Buffer
			mock := clock.NewMock()
			prog := newProgressWithClock(newLogger(&buf, log.InfoLevel), mock)
			mock.Add(tt.elapsed)

			prog.fetched(tt.rows)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestProgressFetchedRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.WarnLevel)).fetched(3)
	if buf.Len() != 0 {
		t.Errorf("row summary should be suppressed at warn level: %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("missing logger should fall back to log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.DebugLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	loggerFromContext(ctx).Debug("resolved state", "postal", "CA", "fips", "06")
	if !strings.Contains(buf.String(), "fips=06") {
		t.Errorf("attached logger not used: %q", buf.String())
	}
}
