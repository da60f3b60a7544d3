package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	router := gin.New()
	router.Use(RequestID(), func(c *gin.Context) {
		c.Set(userIDKey, "user-1")
		c.Next()
	}, Logging())
	router.GET("/api/v1/resumes/:id/pdf", func(c *gin.Context) {
		c.Set("resumeId", c.Param("id"))
		c.Set("exportFormat", "pdf")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/r-1/pdf", nil)
	req.Header.Set("X-Request-Id", "req-42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	out := strings.TrimSpace(buf.String())
	if out == "" {
		t.Fatalf("expected a log line")
	}
	lines := strings.Split(out, "\n")
	var payload map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &payload); err != nil {
		t.Fatalf("decode log line: %v", err)
	}

	for _, key := range []string{"request_id", "user_id", "resume_id", "duration_ms", "status", "route"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("expected %s in log payload", key)
		}
	}
	want := map[string]any{
		"request_id":    "req-42",
		"user_id":       "user-1",
		"resume_id":     "r-1",
		"export_format": "pdf",
		"route":         "/api/v1/resumes/:id/pdf",
		"status":        float64(http.StatusOK),
	}
	for key, value := range want {
		if payload[key] != value {
			t.Fatalf("expected %s=%v, got %v", key, value, payload[key])
		}
	}
}
