package cli

import (
	"context"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger: timestamps as "15:04:05.00", messages
// below level dropped.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one query from the moment it is built until its rows are in.
type progress struct {
	logger *log.Logger
	clock  clock.Clock
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return newProgressWithClock(l, clock.New())
}

func newProgressWithClock(l *log.Logger, clk clock.Clock) *progress {
	return &progress{logger: l, clock: clk, start: clk.Now()}
}

// fetched logs the row count and elapsed time, e.g. "Fetched 58 rows (1.234s)".
func (p *progress) fetched(rows int) {
	noun := "rows"
	if rows == 1 {
		noun = "row"
	}
	p.logger.Infof("Fetched %d %s (%s)", rows, noun, p.clock.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches the command logger so subcommands and the census
// client share one level and output.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the attached logger, or log.Default() when a
// command runs without the root pre-run (as in tests).
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
