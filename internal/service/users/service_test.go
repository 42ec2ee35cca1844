package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"shophub/internal/domain"
	userrepo "shophub/internal/repository/user"
)

func newService() *Service {
	return New(userrepo.NewMemory(), NewMemoryTokenStore())
}

func registerInput() RegisterInput {
	return RegisterInput{
		Username: "jane",
		Password: "correct-horse",
		Email:    "jane@example.com",
		FullName: "Jane Shopper",
	}
}

func TestRegister(t *testing.T) {
	svc := newService()

	u, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if u.IsAdmin {
		t.Fatalf("registered accounts must never be admin")
	}
	if u.PasswordHash == "correct-horse" {
		t.Fatalf("password stored in clear")
	}
	if u.Email != "jane@example.com" {
		t.Fatalf("unexpected email %s", u.Email)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newService()

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: " ",
		Password: "short",
		Email:    "not-an-email",
	})
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	fields := make(map[string]bool)
	for _, fe := range verr.Fields {
		fields[fe.Field] = true
	}
	for _, want := range []string{"username", "email", "password"} {
		if !fields[want] {
			t.Errorf("missing field error %q in %+v", want, verr.Fields)
		}
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	in := registerInput()
	in.Email = "other@example.com"
	if _, err := svc.Register(ctx, in); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLoginAndLookup(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	u, token, err := svc.Login(ctx, "jane", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != registered.ID {
		t.Fatalf("expected user %d, got %d", registered.ID, u.ID)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}

	found, err := svc.LookupByToken(ctx, token)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found.ID != registered.ID {
		t.Fatalf("expected user %d from token, got %d", registered.ID, found.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "jane", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newService()

	if _, _, err := svc.Login(context.Background(), "nobody", "whatever-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, token, err := svc.Login(ctx, "jane", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.LookupByToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}

	// Revoking again is a no-op.
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestLookupByTokenInvalid(t *testing.T) {
	svc := newService()

	for _, token := range []string{"", "not-issued"} {
		if _, err := svc.LookupByToken(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestMemoryTokenStoreExpiry(t *testing.T) {
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &memoryTokenStore{
		entries: make(map[string]memoryTokenEntry),
		now:     func() time.Time { return current },
	}
	ctx := context.Background()

	if err := store.Save(ctx, "tok", 7, time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	if id, err := store.Get(ctx, "tok"); err != nil || id != 7 {
		t.Fatalf("expected user 7, got %d err=%v", id, err)
	}

	current = current.Add(2 * time.Hour)
	if _, err := store.Get(ctx, "tok"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected expired token to vanish, got %v", err)
	}
}
