package crawl

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/sdkdoc"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(url string, attempt int, err error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// RetryPolicy bounds the attempts spent on one identifier.
type RetryPolicy struct {
	// Delays are the waits between attempts; len(Delays)+1 attempts are made.
	Delays []time.Duration
	// Timeout bounds each attempt. Zero means no per-attempt limit.
	Timeout time.Duration
	// OnRetry, if set, is called before each repeated attempt.
	OnRetry LogFunc
}

// Fetch calls fetch until it succeeds, fails with a terminal error or the
// attempts run out. An attempt that exceeds Timeout counts as a transient
// EUNAVAILABLE failure. The last error is returned.
func (p RetryPolicy) Fetch(ctx context.Context, url string, fetch FetchFunc) (string, error) {
	maxAttempts := len(p.Delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := p.attempt(ctx, url, fetch)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !sdkdoc.Retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(p.Delays[attempt]):
		}
	}

	return "", lastErr
}

func (p RetryPolicy) attempt(ctx context.Context, url string, fetch FetchFunc) (string, error) {
	if p.Timeout <= 0 {
		return fetch(ctx, url)
	}
	actx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	html, err := fetch(actx, url)
	if err != nil && ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
		return "", sdkdoc.Errorf(sdkdoc.EUNAVAILABLE, "timeout fetching %s after %s", url, p.Timeout)
	}
	return html, err
}
