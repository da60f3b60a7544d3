package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/respond"
)

// Quota is a token bucket refilled at PerSecond up to Burst.
type Quota struct {
	PerSecond float64
	Burst     int
}

// Enabled reports whether the quota limits anything.
func (q Quota) Enabled() bool {
	return q.PerSecond > 0 && q.Burst > 0
}

// Limiter keeps one bucket per principal.
type Limiter struct {
	mu      sync.Mutex
	quota   Quota
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewLimiter returns a limiter enforcing quota. A nil clock uses time.Now.
func NewLimiter(quota Quota, now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		quota:   quota,
		buckets: make(map[string]*bucket),
		now:     now,
	}
}

// RateLimit throttles each signed-in user (or client IP when anonymous).
func RateLimit(l *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := strings.TrimSpace(UserIDFromContext(c))
		if principal == "" {
			principal = c.ClientIP()
		}
		ok, wait := l.Allow(principal)
		if ok {
			c.Next()
			return
		}
		waitMs := wait.Milliseconds()
		if waitMs <= 0 {
			waitMs = 1000
		}
		c.Header("Retry-After", strconv.FormatInt(int64(math.Ceil(float64(waitMs)/1000.0)), 10))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many AI requests, slow down", gin.H{
			"retryAfterMs": waitMs,
		})
	}
}

// Allow consumes a token for key, returning how long to wait when none is left.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	if l == nil || !l.quota.Enabled() {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(l.quota.Burst), last: now}
		l.buckets[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = math.Min(float64(l.quota.Burst), b.tokens+elapsed*l.quota.PerSecond)
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	wait := (1 - b.tokens) / l.quota.PerSecond
	return false, time.Duration(math.Ceil(wait*1000.0)) * time.Millisecond
}
