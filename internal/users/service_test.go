package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/auth"
)

func newTestService() *Service {
	svc := NewService(NewMemoryRepo(), auth.NewTokens("test-secret", time.Hour, nil))
	svc.hashCost = bcrypt.MinCost
	return svc
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{Name: " Ada ", Email: "Ada@Example.com ", Password: "correct horse"})
	require.NoError(t, err)

	assert.Equal(t, "Ada", session.User.Name)
	assert.Equal(t, "ada@example.com", session.User.Email)
	assert.NotEqual(t, "correct horse", session.User.PasswordHash)
	assert.False(t, session.User.CreatedAt.IsZero())

	claims, err := svc.Tokens.Verify(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.Subject)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "Other", Email: "ADA@example.com", Password: "password2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegisterValidates(t *testing.T) {
	_, err := newTestService().Register(context.Background(), RegisterInput{Name: "", Email: "bad", Password: "short"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, RegisterInput{Name: "Grace", Email: "grace@example.com", Password: "cobol-rocks"})
	require.NoError(t, err)

	session, err := svc.Login(ctx, LoginInput{Email: "GRACE@example.com", Password: "cobol-rocks"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, session.User.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "grace@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "cobol-rocks"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	session, err := svc.Register(ctx, RegisterInput{Name: "Alan", Email: "alan@example.com", Password: "enigma-42"})
	require.NoError(t, err)

	claims, err := svc.Tokens.Verify(ctx, session.Token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, claims))

	_, err = svc.Tokens.Verify(ctx, session.Token)
	assert.ErrorIs(t, err, auth.ErrRevoked)
}

func TestUpdateProfileReplacesWholesale(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	session, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, session.User.ID, Profile{
		Phone:  "555-0100",
		Skills: []string{"Go", "SQL"},
		Experience: []Experience{{
			Company:  "Analytical Engines",
			Position: "Programmer",
		}},
	})
	require.NoError(t, err)

	user, err := svc.UpdateProfile(ctx, session.User.ID, Profile{
		Summary: "  Mathematician  ",
		Skills:  []string{" Go ", "go", "", "Math"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Mathematician", user.Profile.Summary)
	assert.Empty(t, user.Profile.Phone)
	assert.Empty(t, user.Profile.Experience)
	assert.Equal(t, []string{"Go", "Math"}, user.Profile.Skills)

	stored, err := svc.GetByID(ctx, session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Profile, stored.Profile)
}

func TestUpdateProfileValidatesEntries(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	session, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, session.User.ID, Profile{
		Education: []Education{{Degree: "BSc"}},
		Website:   "not a url",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, apperr.MessageOf(err), "education[0].institution is required")
	assert.Contains(t, apperr.MessageOf(err), "website must be a valid URL")
}

func TestGetByIDUnknownUser(t *testing.T) {
	_, err := newTestService().GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
