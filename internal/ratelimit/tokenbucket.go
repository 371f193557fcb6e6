package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/juju/clock"
	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TokenBucket refills Limit tokens per Window for every key, with a burst of Limit.
// Unlike FixedWindow it spreads the allowance instead of resetting it at once.
type TokenBucket struct {
	policy Policy
	clock  clock.Clock
	every  rate.Limit

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func NewTokenBucket(policy Policy, clk clock.Clock) *TokenBucket {
	return &TokenBucket{
		policy:    policy,
		clock:     clk,
		every:     rate.Every(policy.Window / time.Duration(policy.Limit)),
		buckets:   make(map[string]*bucket),
		lastSweep: clk.Now(),
	}
}

func (l *TokenBucket) Allow(_ context.Context, key string) (Decision, error) {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.every, l.policy.Limit)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	reservation := b.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return Decision{Allowed: false, Limit: l.policy.Limit, RetryAfter: l.policy.Window}, nil
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return Decision{Allowed: false, Limit: l.policy.Limit, RetryAfter: delay}, nil
	}

	return Decision{
		Allowed:   true,
		Limit:     l.policy.Limit,
		Remaining: int(b.limiter.TokensAt(now)),
	}, nil
}

// sweep drops buckets idle for a whole window; they would be full again anyway.
func (l *TokenBucket) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.policy.Window {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.policy.Window {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}
