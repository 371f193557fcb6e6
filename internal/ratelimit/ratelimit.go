// Package ratelimit throttles requests per key (usually a client address).
//
// Three backends share the Limiter interface: an in-process fixed window for
// single-instance deployments, a Redis fixed window shared by several
// instances, and a per-key token bucket.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/redis/go-redis/v9"
)

const (
	BackendMemory      = "memory"
	BackendRedis       = "redis"
	BackendTokenBucket = "token-bucket"
)

// Policy allows Limit requests per Window for each key.
type Policy struct {
	Limit  int
	Window time.Duration
}

func (p Policy) validate() error {
	if p.Limit <= 0 {
		return errors.NotValidf("rate limit %d", p.Limit)
	}
	if p.Window <= 0 {
		return errors.NotValidf("rate limit window %v", p.Window)
	}
	return nil
}

// Decision is the outcome of one Allow call. RetryAfter is set when the request is rejected.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Err returns a *LimitedError for rejected decisions and nil otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &LimitedError{RetryAfter: d.RetryAfter}
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// LimitedError is returned to callers whose key is over its limit.
type LimitedError struct {
	RetryAfter time.Duration
}

func (e *LimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %ds", e.RetryAfterSeconds())
}

// RetryAfterSeconds rounds up so clients never retry too early. It is at least 1.
func (e *LimitedError) RetryAfterSeconds() int64 {
	secs := int64(math.Ceil(e.RetryAfter.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// New builds the limiter for backend. name namespaces the keys of shared backends.
func New(backend, name string, policy Policy, rdb redis.Scripter, clk clock.Clock) (Limiter, error) {
	if err := policy.validate(); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.WallClock
	}
	switch backend {
	case BackendMemory, "":
		return NewFixedWindow(policy, clk), nil
	case BackendTokenBucket:
		return NewTokenBucket(policy, clk), nil
	case BackendRedis:
		if rdb == nil {
			return nil, errors.NotValidf("redis backend without a client")
		}
		return NewRedisFixedWindow(rdb, "ratelimit:"+name+":", policy), nil
	default:
		return nil, errors.NotSupportedf("rate limit backend %q", backend)
	}
}
