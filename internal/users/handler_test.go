package users

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/telemetry"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	restore := telemetry.SetOutput(io.Discard)
	t.Cleanup(restore)

	svc := newTestService()
	h := NewHandler(svc, false)
	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterPublicRoutes(api)
	protected := api.Group("")
	protected.Use(middleware.Auth(svc.Tokens))
	h.RegisterRoutes(protected)
	return r
}

func doJSON(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	return payload
}

func TestAuthFlow(t *testing.T) {
	r := newTestRouter(t)

	resp := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Ada", "email": "ada@example.com", "password": "password1",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	payload := decode(t, resp)
	assert.Equal(t, true, payload["success"])
	token, _ := payload["token"].(string)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, resp.Header().Get("Set-Cookie"))

	resp = doJSON(r, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	user := decode(t, resp)["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.NotContains(t, user, "passwordHash")

	resp = doJSON(r, http.MethodPut, "/api/v1/profile", token, gin.H{
		"summary": "Engineer",
		"skills":  []string{"Go"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = doJSON(r, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	profile := decode(t, resp)["profile"].(map[string]any)
	assert.Equal(t, "Engineer", profile["summary"])

	resp = doJSON(r, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(r, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	r := newTestRouter(t)
	resp := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Ada", "email": "ada@example.com", "password": "password1",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doJSON(r, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ada@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	payload := decode(t, resp)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "unauthenticated", payload["code"])
}

func TestRegisterDuplicateReturnsConflict(t *testing.T) {
	r := newTestRouter(t)
	body := gin.H{"name": "Ada", "email": "ada@example.com", "password": "password1"}
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/api/v1/auth/register", "", body).Code)

	resp := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestProfileRequiresSession(t *testing.T) {
	r := newTestRouter(t)
	resp := doJSON(r, http.MethodGet, "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
