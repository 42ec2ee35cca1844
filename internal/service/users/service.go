// Package users handles registration, login and bearer-token sessions.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"shophub/internal/domain"
	userrepo "shophub/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when username/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

type Service struct {
	repo        userrepo.Repository
	tokens      TokenStore
	tokenTTL    time.Duration
	passwordMin int
}

// New creates a Service with sane defaults.
func New(repo userrepo.Repository, tokens TokenStore) *Service {
	return &Service{
		repo:        repo,
		tokens:      tokens,
		tokenTTL:    48 * time.Hour,
		passwordMin: 8,
	}
}

type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

func (in RegisterInput) validate(passwordMin int) []domain.FieldError {
	var errs []domain.FieldError
	if strings.TrimSpace(in.Username) == "" {
		errs = append(errs, domain.FieldError{Field: "username", Message: "username is required"})
	}
	if strings.TrimSpace(in.Email) == "" || !strings.Contains(in.Email, "@") {
		errs = append(errs, domain.FieldError{Field: "email", Message: "a valid email is required"})
	}
	if len(strings.TrimSpace(in.Password)) < passwordMin {
		errs = append(errs, domain.FieldError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", passwordMin),
		})
	}
	return errs
}

// Register creates a shopper account. Accounts are never admin by default;
// the flag can only be granted out of band (seeding, direct store access).
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if errs := in.validate(s.passwordMin); len(errs) > 0 {
		return nil, domain.ValidationError{Fields: errs}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(in.Password)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, domain.User{
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: string(hashed),
		Email:        strings.TrimSpace(strings.ToLower(in.Email)),
		FullName:     strings.TrimSpace(in.FullName),
		IsAdmin:      false,
	})
}

// Login validates credentials and returns the user plus an issued token.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token := newToken()
	if err := s.tokens.Save(ctx, token, u.ID, s.tokenTTL); err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Logout revokes a token. Revoking an unknown token is a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Delete(ctx, token)
}

// LookupByToken returns the user bound to a valid token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	userID, err := s.tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}
