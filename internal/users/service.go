package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/validate"
)

type Service struct {
	Repo     Repo
	Tokens   *auth.Tokens
	hashCost int
}

func NewService(repo Repo, tokens *auth.Tokens) *Service {
	return &Service{Repo: repo, Tokens: tokens, hashCost: bcrypt.DefaultCost}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates an account and signs the new user in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}
	user := User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return Session{}, err
	}
	created, err := s.Repo.GetByID(ctx, user.ID)
	if err != nil {
		return Session{}, err
	}
	return s.session(created)
}

// Login checks credentials. Unknown emails and wrong passwords are reported identically.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return Session{}, err
	}
	user, err := s.Repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.session(user)
}

// Logout revokes the presented token.
func (s *Service) Logout(ctx context.Context, claims auth.Claims) error {
	if err := s.Tokens.Revoke(ctx, claims); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to revoke session", err)
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, apperr.ErrUnauthenticated
	}
	return s.Repo.GetByID(ctx, userID)
}

// UpdateProfile replaces the user's profile wholesale.
func (s *Service) UpdateProfile(ctx context.Context, userID string, profile Profile) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, apperr.ErrUnauthenticated
	}
	profile = normalizeProfile(profile)
	if err := validate.Struct(profile); err != nil {
		return User{}, err
	}
	return s.Repo.UpdateProfile(ctx, userID, profile)
}

func (s *Service) session(user User) (Session, error) {
	token, err := s.Tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email, Name: user.Name})
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindInternal, "failed to issue session", err)
	}
	return Session{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.Tokens.TTL()),
		User:      user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeProfile(p Profile) Profile {
	p.Phone = strings.TrimSpace(p.Phone)
	p.Location = strings.TrimSpace(p.Location)
	p.Website = strings.TrimSpace(p.Website)
	p.LinkedIn = strings.TrimSpace(p.LinkedIn)
	p.Summary = strings.TrimSpace(p.Summary)
	p.Skills = compact(p.Skills)
	p.Achievements = compact(p.Achievements)
	for i := range p.Experience {
		p.Experience[i].Highlights = compact(p.Experience[i].Highlights)
	}
	return p
}

// compact trims entries and drops blanks and case-insensitive duplicates.
func compact(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
