package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// InMemoryRateLimiter limits requests per key (e.g. IP) with a fixed
// window counter per key.
type InMemoryRateLimiter struct {
	mu      sync.Mutex
	counts  map[string]int
	windows map[string]time.Time
	limit   int
	window  time.Duration
}

func NewInMemoryRateLimiter(limit int, window time.Duration) *InMemoryRateLimiter {
	r := &InMemoryRateLimiter{
		counts:  make(map[string]int),
		windows: make(map[string]time.Time),
		limit:   limit,
		window:  window,
	}
	go r.cleanup()
	return r
}

func (r *InMemoryRateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	start, ok := r.windows[key]
	if !ok || now.Sub(start) >= r.window {
		r.windows[key] = now
		r.counts[key] = 1
		return true
	}
	if r.counts[key] >= r.limit {
		return false
	}
	r.counts[key]++
	return true
}

func (r *InMemoryRateLimiter) cleanup() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		r.mu.Lock()
		for k, start := range r.windows {
			if time.Since(start) >= r.window {
				delete(r.windows, k)
				delete(r.counts, k)
			}
		}
		r.mu.Unlock()
	}
}

// RateLimit returns a middleware that limits by client IP.
func RateLimit(limiter *InMemoryRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
