package resumes

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoDeleteNotOwned(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM resumes WHERE id = \\$1 AND user_id = \\$2").
		WithArgs("resume-1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "intruder", "resume-1")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoSetScoreTargetsColumn(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE resumes SET grammar_score = \\$3").
		WithArgs("resume-1", "user-1", 88).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetScore(context.Background(), "user-1", "resume-1", ScoreGrammar, 88))
	assert.Error(t, repo.SetScore(context.Background(), "user-1", "resume-1", ScoreField("style"), 1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoCreateNullsEmptyTargeting(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO resumes").
		WithArgs("resume-1", "user-1", "CV", "<p>x</p>", "modern", "Engineer", nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), Resume{
		ID: "resume-1", UserID: "user-1", Title: "CV", Content: "<p>x</p>", Template: "modern", JobTitle: "Engineer",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetScansNullableColumns(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "content", "template", "ats_score", "grammar_score", "originality_score",
		"job_title", "target_company", "target_industry", "created_at", "updated_at",
	}).AddRow("resume-1", "user-1", "CV", "<p>x</p>", "minimal", 70, 80, 90, "Engineer", nil, nil, now, now)
	mock.ExpectQuery("FROM resumes").WithArgs("resume-1", "user-1").WillReturnRows(rows)

	resume, err := repo.Get(context.Background(), "user-1", "resume-1")
	require.NoError(t, err)
	assert.Equal(t, 70, resume.ATSScore)
	assert.Equal(t, "Engineer", resume.JobTitle)
	assert.Empty(t, resume.TargetCompany)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetMissing(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM resumes").WithArgs("resume-1", "user-1").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "user-1", "resume-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
