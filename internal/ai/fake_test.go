package ai

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"resume-builder/internal/export"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

type reply struct {
	text string
	err  error
}

// scriptedModel returns its replies in order, repeating the last one.
type scriptedModel struct {
	mu      sync.Mutex
	replies []reply
	prompts []string
	hook    func()
}

func (m *scriptedModel) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.hook != nil {
		m.hook()
	}
	idx := len(m.prompts) - 1
	if idx >= len(m.replies) {
		idx = len(m.replies) - 1
	}
	return m.replies[idx].text, m.replies[idx].err
}

func (m *scriptedModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

type fixture struct {
	svc     *Service
	resumes *resumes.Service
	users   *users.MemoryRepo
}

func newFixture(t *testing.T, model Model) fixture {
	t.Helper()
	restore := telemetry.SetOutput(io.Discard)
	t.Cleanup(restore)

	resumeSvc := resumes.NewService(resumes.NewMemoryRepo(), export.NewConverter(5*time.Second))
	userRepo := users.NewMemoryRepo()
	svc := NewService(model, resumeSvc, userRepo)
	svc.Policy.Sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return fixture{svc: svc, resumes: resumeSvc, users: userRepo}
}

func (f fixture) resume(t *testing.T, userID, content string) resumes.Resume {
	t.Helper()
	resume, err := f.resumes.Create(context.Background(), userID, resumes.CreateInput{Title: "CV", Content: content})
	require.NoError(t, err)
	return resume
}

func (f fixture) stored(t *testing.T, userID, resumeID string) resumes.Resume {
	t.Helper()
	resume, err := f.resumes.Get(context.Background(), userID, resumeID)
	require.NoError(t, err)
	return resume
}
