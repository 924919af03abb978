package app

import (
	"sync"
	"time"

	"github.com/dkeye/Meetcast/internal/domain"
)

// AttemptLimiter is a sliding-window counter of failed host join attempts
// per meeting code.
type AttemptLimiter struct {
	mu       sync.Mutex
	history  map[domain.MeetingCode][]time.Time
	limit    int
	interval time.Duration
	now      func() time.Time
}

// NewAttemptLimiter returns nil when limit is not positive; a nil limiter
// never reports a code over its limit.
func NewAttemptLimiter(limit int, interval time.Duration) *AttemptLimiter {
	if limit <= 0 {
		return nil
	}
	return &AttemptLimiter{
		history:  make(map[domain.MeetingCode][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

// RecordFailure counts one failed attempt and reports whether the code is
// still under its limit.
func (rl *AttemptLimiter) RecordFailure(code domain.MeetingCode) bool {
	if rl == nil {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[code]
	fresh := attempts[:0]
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[code] = fresh
		return false
	}
	rl.history[code] = append(fresh, now)
	return true
}

// Prune drops codes with no attempt inside the window.
func (rl *AttemptLimiter) Prune() {
	if rl == nil {
		return
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()
	windowStart := rl.now().Add(-rl.interval)
	for code, attempts := range rl.history {
		if len(attempts) == 0 || !attempts[len(attempts)-1].After(windowStart) {
			delete(rl.history, code)
		}
	}
}
