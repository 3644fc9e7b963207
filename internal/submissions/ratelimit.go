package submissions

import (
	"sync"
	"time"
)

const (
	DefaultRateLimit  = 3
	DefaultRateWindow = 60 * time.Minute
)

// RateLimiter is a sliding-window counter shared by every caller of one
// process. State lives in memory only: a restart forgets earlier hits and
// separate instances count independently.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits []time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{limit: limit, window: window, now: time.Now}
}

// WithClock replaces the time source.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	rl.now = now
	return rl
}

// Allow records a hit and reports whether it fits in the window. Rejected
// hits are not recorded.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	drop := 0
	for drop < len(rl.hits) && now.Sub(rl.hits[drop]) > rl.window {
		drop++
	}
	rl.hits = rl.hits[drop:]

	if len(rl.hits) >= rl.limit {
		return false
	}
	rl.hits = append(rl.hits, now)
	return true
}
