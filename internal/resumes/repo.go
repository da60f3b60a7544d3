package resumes

import (
	"context"

	"resume-builder/internal/shared/apperr"
)

var ErrNotFound = apperr.New(apperr.KindNotFound, "resume not found")

// Repo persists resumes. Every lookup is scoped to the owning user; a resume
// owned by someone else is reported as ErrNotFound.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	Get(ctx context.Context, userID, resumeID string) (Resume, error)
	List(ctx context.Context, userID string) ([]Summary, error)
	Update(ctx context.Context, resume Resume) (Resume, error)
	Delete(ctx context.Context, userID, resumeID string) error
	SetScore(ctx context.Context, userID, resumeID string, field ScoreField, score int) error
}
