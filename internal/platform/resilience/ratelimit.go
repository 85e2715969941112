package resilience

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyLimiter enforces a fixed request budget per key over a sliding window,
// implemented as one token-bucket limiter per key. Used by the listener to
// cap webhook requests per client address.
type KeyLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewKeyLimiter allows up to maxRequests per window for each distinct key.
func NewKeyLimiter(maxRequests int, window time.Duration) *KeyLimiter {
	if maxRequests <= 0 {
		maxRequests = 1
	}

	if window <= 0 {
		window = time.Minute
	}

	return &KeyLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(window / time.Duration(maxRequests)),
		burst:    maxRequests,
	}
}

// Allow reports whether the request identified by key fits the budget.
func (l *KeyLimiter) Allow(key string) bool {
	return l.getOrCreate(key).Allow()
}

func (l *KeyLimiter) getOrCreate(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}

	return limiter
}
