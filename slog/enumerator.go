package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sdkdoc"
)

// Ensure LoggingEnumerator implements sdkdoc.Enumerator.
var _ sdkdoc.Enumerator = (*LoggingEnumerator)(nil)

// LoggingEnumerator wraps an Enumerator with logging.
type LoggingEnumerator struct {
	next   sdkdoc.Enumerator
	source string
	logger *slog.Logger
}

// NewLoggingEnumerator creates a new LoggingEnumerator. The source names
// where identifiers come from, e.g. a catalog path or sitemap URL.
func NewLoggingEnumerator(next sdkdoc.Enumerator, source string, logger *slog.Logger) *LoggingEnumerator {
	return &LoggingEnumerator{next: next, source: source, logger: logger}
}

// Enumerate delegates to the wrapped enumerator and logs the operation.
func (e *LoggingEnumerator) Enumerate(ctx context.Context) (ids []string, err error) {
	defer func(begin time.Time) {
		e.logger.Info("enumerate",
			"source", e.source,
			"count", len(ids),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Enumerate(ctx)
}
