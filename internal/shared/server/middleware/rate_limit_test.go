package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
)

func limitedRouter(limiter *Limiter, user string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(userIDKey, user)
		c.Next()
	})
	r.POST("/api/v1/ai/ats", RateLimit(limiter), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRateLimitRejectsAfterBurst(t *testing.T) {
	restore := telemetry.SetOutput(io.Discard)
	defer restore()

	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewLimiter(Quota{PerSecond: 1, Burst: 2}, func() time.Time { return now })
	r := limitedRouter(limiter, "user-1")

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/ai/ats", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/ai/ats", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if got := resp.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("expected Retry-After 1, got %q", got)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["success"] != false {
		t.Fatalf("expected success=false, got %v", payload["success"])
	}
	if payload["code"] != "rate_limited" {
		t.Fatalf("expected code rate_limited, got %v", payload["code"])
	}
	details, ok := payload["details"].(map[string]any)
	if !ok {
		t.Fatalf("expected details object, got %T", payload["details"])
	}
	if details["retryAfterMs"] != float64(1000) {
		t.Fatalf("expected retryAfterMs 1000, got %v", details["retryAfterMs"])
	}
}

func TestRateLimitRefillsOverTime(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewLimiter(Quota{PerSecond: 0.5, Burst: 1}, func() time.Time { return now })

	if ok, _ := limiter.Allow("user-1"); !ok {
		t.Fatalf("expected first request to pass")
	}
	ok, wait := limiter.Allow("user-1")
	if ok {
		t.Fatalf("expected second request to be limited")
	}
	if wait != 2*time.Second {
		t.Fatalf("expected wait 2s, got %v", wait)
	}

	if ok, _ := limiter.Allow("user-2"); !ok {
		t.Fatalf("expected buckets to be per principal")
	}

	now = now.Add(2 * time.Second)
	if ok, _ := limiter.Allow("user-1"); !ok {
		t.Fatalf("expected bucket to refill after 2s")
	}
}

func TestRateLimitDisabledQuota(t *testing.T) {
	limiter := NewLimiter(Quota{}, nil)
	for i := 0; i < 100; i++ {
		if ok, _ := limiter.Allow("user-1"); !ok {
			t.Fatalf("request %d limited with disabled quota", i+1)
		}
	}
}
