package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/sdkdoc"
	"golang.org/x/time/rate"
)

var _ sdkdoc.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces requests per host with one token bucket each, so
// discovery never hits a host faster than the configured delay.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter returns a limiter allowing one request per delay per
// host, with no bursting. A zero delay disables limiting.
func NewDomainLimiter(delay time.Duration) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    every(delay),
	}
}

// Wait blocks until domain may be requested again or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// newWorkerLimiter returns the limiter a single pipeline worker waits on
// before each fetch. Workers do not share limiters.
func newWorkerLimiter(delay time.Duration) *rate.Limiter {
	return rate.NewLimiter(every(delay), 1)
}

func every(delay time.Duration) rate.Limit {
	if delay <= 0 {
		return rate.Inf
	}
	return rate.Every(delay)
}
