// Package ratelimit throttles outgoing requests to remote hosts.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a named token bucket.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// New creates a limiter allowing one request every interval with the given burst.
// A zero interval disables limiting.
func New(name string, interval time.Duration, burst int) *Limiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(limit, burst),
		name:    name,
	}
}

// PerSecond creates a limiter allowing n requests per second, bursting up to n.
func PerSecond(name string, n int) *Limiter {
	if n < 1 {
		return New(name, 0, 1)
	}
	return New(name, time.Second/time.Duration(n), n)
}

// Wait blocks until a request may proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}

// Allow reports whether a request can proceed right now, consuming a token if so.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Name returns the name the limiter reports in errors.
func (l *Limiter) Name() string {
	return l.name
}
