package scan

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/linkscout"
	"golang.org/x/time/rate"
)

// DefaultPageDelay is the pause between consecutive search page fetches.
const DefaultPageDelay = 2 * time.Second

var _ linkscout.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces requests to each host by a fixed interval, optionally
// followed by a random extra pause. The first request to a host is immediate.
// Host keys are case-insensitive.
type DomainLimiter struct {
	mu     sync.Mutex
	hosts  map[string]*rate.Limiter
	limit  rate.Limit
	jitter time.Duration
}

// LimiterOption configures a DomainLimiter.
type LimiterOption func(*DomainLimiter)

// WithJitter adds a uniformly random pause in [0, max) after every wait
// except the first one per host.
func WithJitter(max time.Duration) LimiterOption {
	return func(d *DomainLimiter) {
		d.jitter = max
	}
}

// NewDomainLimiter creates a DomainLimiter that allows one request per
// interval to each host. A non-positive interval disables spacing.
func NewDomainLimiter(interval time.Duration, opts ...LimiterOption) *DomainLimiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	d := &DomainLimiter{
		hosts: make(map[string]*rate.Limiter),
		limit: limit,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait blocks until a request to host is allowed.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	key := strings.ToLower(host)

	d.mu.Lock()
	limiter, seen := d.hosts[key]
	if !seen {
		limiter = rate.NewLimiter(d.limit, 1)
		d.hosts[key] = limiter
	}
	d.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return err
	}
	if !seen || d.jitter <= 0 {
		return nil
	}
	return sleep(ctx, time.Duration(rand.Int64N(int64(d.jitter))))
}

// sleep pauses for dur or until ctx is done.
func sleep(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
