package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{"id", "name", "email", "password_hash", "profile", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("user-1", "Ada", "ada@example.com", "hash", sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_idx"})

	err := repo.Create(context.Background(), User{ID: "user-1", Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetByEmailDecodesProfile(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	profile, err := json.Marshal(Profile{Skills: []string{"Go"}, Location: "London"})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, name, email, password_hash, profile, created_at, updated_at FROM users WHERE email").
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("user-1", "Ada", "ada@example.com", "hash", profile, now, now))

	user, err := repo.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, []string{"Go"}, user.Profile.Skills)
	assert.Equal(t, "London", user.Profile.Location)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM users WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoUpdateProfile(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	profile := Profile{Summary: "Engineer"}
	raw, err := json.Marshal(profile)
	require.NoError(t, err)

	mock.ExpectQuery("UPDATE users SET profile").
		WithArgs("user-1", raw).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("user-1", "Ada", "ada@example.com", "hash", raw, now, now))

	user, err := repo.UpdateProfile(context.Background(), "user-1", profile)
	require.NoError(t, err)
	assert.Equal(t, "Engineer", user.Profile.Summary)
	require.NoError(t, mock.ExpectationsWereMet())
}
