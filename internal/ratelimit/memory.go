package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/juju/clock"
)

type window struct {
	start time.Time
	count int
}

// FixedWindow counts requests per key in windows that start at the key's first
// request. Expired windows are swept lazily, at most once per window length.
type FixedWindow struct {
	policy Policy
	clock  clock.Clock

	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

func NewFixedWindow(policy Policy, clk clock.Clock) *FixedWindow {
	return &FixedWindow{
		policy:    policy,
		clock:     clk,
		windows:   make(map[string]*window),
		lastSweep: clk.Now(),
	}
}

func (l *FixedWindow) Allow(_ context.Context, key string) (Decision, error) {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.policy.Window {
		w = &window{start: now}
		l.windows[key] = w
	}

	if w.count >= l.policy.Limit {
		return Decision{
			Allowed:    false,
			Limit:      l.policy.Limit,
			RetryAfter: w.start.Add(l.policy.Window).Sub(now),
		}, nil
	}

	w.count++
	return Decision{
		Allowed:   true,
		Limit:     l.policy.Limit,
		Remaining: l.policy.Limit - w.count,
	}, nil
}

// sweep must be called with mu held.
func (l *FixedWindow) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.policy.Window {
		return
	}
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.policy.Window {
			delete(l.windows, key)
		}
	}
	l.lastSweep = now
}
