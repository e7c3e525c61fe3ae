package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sdkdoc"
)

// Ensure LoggingFingerprintStore implements sdkdoc.FingerprintStore.
var _ sdkdoc.FingerprintStore = (*LoggingFingerprintStore)(nil)

// LoggingFingerprintStore wraps a FingerprintStore with logging.
type LoggingFingerprintStore struct {
	next   sdkdoc.FingerprintStore
	logger *slog.Logger
}

// NewLoggingFingerprintStore creates a new LoggingFingerprintStore.
func NewLoggingFingerprintStore(next sdkdoc.FingerprintStore, logger *slog.Logger) *LoggingFingerprintStore {
	return &LoggingFingerprintStore{next: next, logger: logger}
}

// Load delegates to the wrapped store and logs the number of entries.
func (s *LoggingFingerprintStore) Load(ctx context.Context) (f sdkdoc.Fingerprints, err error) {
	defer func(begin time.Time) {
		s.logger.Info("load fingerprints",
			"count", len(f),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx)
}

// Save delegates to the wrapped store and logs the number of entries.
func (s *LoggingFingerprintStore) Save(ctx context.Context, f sdkdoc.Fingerprints) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("save fingerprints",
			"count", len(f),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, f)
}

// Initialize delegates to the wrapped store.
func (s *LoggingFingerprintStore) Initialize(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("initialize fingerprints",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Initialize(ctx)
}

// LastUpdate delegates to the wrapped store.
func (s *LoggingFingerprintStore) LastUpdate(ctx context.Context) (time.Time, error) {
	return s.next.LastUpdate(ctx)
}
