package respond

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/telemetry"
)

// DebugKey is the context key set by middleware when stack traces may be exposed.
const DebugKey = "exposeStack"

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// Error sends a failure envelope with an explicit status and code.
func Error(c *gin.Context, status int, code, message string, details any) {
	write(c, status, code, message, details, nil)
}

// Fail translates err through the apperr taxonomy and sends the envelope.
func Fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	write(c, apperr.Status(kind), string(kind), apperr.MessageOf(err), nil, err)
}

func write(c *gin.Context, status int, code, message string, details any, cause error) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Info("http.error", fields)
	}

	body := ErrorResponse{
		Success: false,
		Code:    code,
		Message: message,
		Details: details,
	}
	if c.GetBool(DebugKey) && status >= 500 {
		if cause != nil {
			body.Details = cause.Error()
		}
		body.Stack = string(debug.Stack())
	}
	c.AbortWithStatusJSON(status, body)
}
