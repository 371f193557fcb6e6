package ratelimit

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/redis/go-redis/v9"
)

// INCR and PEXPIRE must happen together, or a crash between them would leave
// a counter that never expires.
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// RedisFixedWindow keeps one counter per key in Redis, so every instance of
// the service shares the same limits.
type RedisFixedWindow struct {
	client redis.Scripter
	prefix string
	policy Policy
}

func NewRedisFixedWindow(client redis.Scripter, prefix string, policy Policy) *RedisFixedWindow {
	return &RedisFixedWindow{client: client, prefix: prefix, policy: policy}
}

func (l *RedisFixedWindow) Allow(ctx context.Context, key string) (Decision, error) {
	values, err := fixedWindowScript.Run(ctx, l.client,
		[]string{l.prefix + key},
		l.policy.Window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Decision{}, errors.Annotate(err, "redis rate limit")
	}
	if len(values) != 2 {
		return Decision{}, errors.Errorf("redis rate limit: unexpected reply %v", values)
	}

	count, ttl := int(values[0]), time.Duration(values[1])*time.Millisecond
	if ttl < 0 {
		ttl = l.policy.Window
	}

	if count > l.policy.Limit {
		return Decision{Allowed: false, Limit: l.policy.Limit, RetryAfter: ttl}, nil
	}
	return Decision{
		Allowed:   true,
		Limit:     l.policy.Limit,
		Remaining: l.policy.Limit - count,
	}, nil
}

// NewRedisClient connects and pings with a 5 second budget.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Annotatef(err, "redis ping %s", addr)
	}
	return rdb, nil
}
