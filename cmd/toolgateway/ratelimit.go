package main

import (
	"sync"

	"golang.org/x/time/rate"
)

const maxRateLimiters = 10_000

// callerLimiter holds one token bucket per caller in a bounded map with
// least-recently-used eviction.
type callerLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	order    []string
	perSec   int
}

func newCallerLimiter(perSec int) *callerLimiter {
	if perSec <= 0 {
		perSec = 1
	}
	return &callerLimiter{limiters: make(map[string]*rate.Limiter), perSec: perSec}
}

// Allow reports whether caller may make another call now.
func (l *callerLimiter) Allow(caller string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[caller]
	if ok {
		for i, k := range l.order {
			if k == caller {
				l.order = append(l.order[:i], l.order[i+1:]...)
				break
			}
		}
		l.order = append(l.order, caller)
		return lim.Allow()
	}

	if len(l.limiters) >= maxRateLimiters {
		oldest := l.order[0]
		l.order = l.order[1:]
		delete(l.limiters, oldest)
	}

	lim = rate.NewLimiter(rate.Limit(l.perSec), l.perSec*2)
	l.limiters[caller] = lim
	l.order = append(l.order, caller)
	return lim.Allow()
}
