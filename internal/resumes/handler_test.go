package resumes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/telemetry"
)

type testEnv struct {
	router *gin.Engine
	tokens *auth.Tokens
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	restore := telemetry.SetOutput(io.Discard)
	t.Cleanup(restore)

	tokens := auth.NewTokens("test-secret", time.Hour, nil)
	r := gin.New()
	protected := r.Group("/api/v1")
	protected.Use(middleware.Auth(tokens))
	NewHandler(newTestService()).RegisterRoutes(protected)
	return testEnv{router: r, tokens: tokens}
}

func (e testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := e.tokens.Issue(auth.Identity{UserID: userID})
	require.NoError(t, err)
	return token
}

func (e testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
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
	e.router.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	return payload
}

func createResume(t *testing.T, env testEnv, token string, body gin.H) string {
	t.Helper()
	resp := env.do(http.MethodPost, "/api/v1/resumes", token, body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	resume := decode(t, resp)["resume"].(map[string]any)
	return resume["id"].(string)
}

func TestResumeCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1")

	id := createResume(t, env, token, gin.H{"title": "Backend CV", "content": "<p>Go</p>", "template": "minimal"})

	resp := env.do(http.MethodGet, "/api/v1/resumes", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	items := decode(t, resp)["resumes"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Backend CV", items[0].(map[string]any)["title"])

	resp = env.do(http.MethodPut, "/api/v1/resumes/"+id, token, gin.H{"title": "Platform CV"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	resume := decode(t, resp)["resume"].(map[string]any)
	assert.Equal(t, "Platform CV", resume["title"])
	assert.Equal(t, "<p>Go</p>", resume["content"])

	resp = env.do(http.MethodDelete, "/api/v1/resumes/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = env.do(http.MethodGet, "/api/v1/resumes/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateWithoutContentIsBadRequest(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(http.MethodPost, "/api/v1/resumes", env.token(t, "user-1"), gin.H{"title": "Empty"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	payload := decode(t, resp)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "content is required", payload["message"])
}

func TestOtherUsersResumeIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	id := createResume(t, env, env.token(t, "owner"), gin.H{"content": "<p>private</p>"})
	intruder := env.token(t, "intruder")

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		resp := env.do(method, "/api/v1/resumes/"+id, intruder, nil)
		assert.Equal(t, http.StatusNotFound, resp.Code, method)
	}
	resp := env.do(http.MethodPost, "/api/v1/resumes/"+id+"/export", intruder, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(http.MethodGet, "/api/v1/resumes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestExportHeaders(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1")
	id := createResume(t, env, token, gin.H{"title": "Jane Doe", "content": "<h1>Jane</h1><p>Engineer</p>"})

	resp := env.do(http.MethodPost, "/api/v1/resumes/"+id+"/export", token, gin.H{"format": "docx"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", resp.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="jane-doe.docx"`, resp.Header().Get("Content-Disposition"))
	assert.Equal(t, "no-store", resp.Header().Get("Cache-Control"))
	assert.True(t, bytes.HasPrefix(resp.Body.Bytes(), []byte("PK")))

	resp = env.do(http.MethodPost, "/api/v1/resumes/"+id+"/export", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, resp.Body.String(), "<h1>Jane</h1>")

	resp = env.do(http.MethodPost, "/api/v1/resumes/"+id+"/export", token, gin.H{"format": "rtf"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPDFEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1")
	id := createResume(t, env, token, gin.H{"title": "CV", "content": "<p>Hello</p>"})

	resp := env.do(http.MethodGet, "/api/v1/resumes/"+id+"/pdf", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="cv.pdf"`, resp.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF-")))
}

func TestTemplatesListing(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(http.MethodGet, "/api/v1/templates", env.token(t, "user-1"), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	items := decode(t, resp)["templates"].([]any)
	assert.Len(t, items, 5)
}
