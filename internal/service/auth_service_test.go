package service

import (
	"errors"
	"testing"

	"github.com/tlcms/tlcms/internal/config"
	"github.com/tlcms/tlcms/internal/models"
	"github.com/tlcms/tlcms/internal/repository"
)

func newAuthService(t *testing.T) (*AuthService, repository.UserRepository) {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.Session.SecretKey = "test-secret"
	cfg.Session.ExpireHours = 1
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}
	userRepo := repository.NewUserRepository(db)
	return NewAuthService(cfg, userRepo), userRepo
}

func createTestUser(t *testing.T, svc *AuthService, userRepo repository.UserRepository, email, password string) *models.User {
	t.Helper()
	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  "Tester",
	}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func TestLoginSuccess(t *testing.T) {
	svc, userRepo := newAuthService(t)
	created := createTestUser(t, svc, userRepo, "admin@example.com", "Sup3rSecret")

	user, token, expiresAt, err := svc.Login("admin@example.com", "Sup3rSecret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("logged in wrong user")
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatalf("login should issue a session token")
	}

	claims, err := svc.ParseSession(token)
	if err != nil {
		t.Fatalf("parse session failed: %v", err)
	}
	if claims.UserID != created.ID || claims.Email != created.Email {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, userRepo := newAuthService(t)
	createTestUser(t, svc, userRepo, "admin@example.com", "Sup3rSecret")

	_, _, _, err := svc.Login("admin@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, _, err := svc.Login("nobody@example.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
}

func TestParseSessionRejectsTamperedToken(t *testing.T) {
	svc, userRepo := newAuthService(t)
	user := createTestUser(t, svc, userRepo, "admin@example.com", "Sup3rSecret")

	token, _, err := svc.GenerateSession(user)
	if err != nil {
		t.Fatalf("generate session failed: %v", err)
	}

	if _, err := svc.ParseSession(token + "x"); err == nil {
		t.Fatalf("tampered token should be rejected")
	}
	if _, err := svc.ParseSession("not-a-jwt"); err == nil {
		t.Fatalf("garbage token should be rejected")
	}
}

func TestValidatePasswordPolicy(t *testing.T) {
	svc, _ := newAuthService(t)

	cases := []struct {
		password string
		wantWeak bool
	}{
		{"Sup3rSecret", false},
		{"short1A", true},
		{"alllowercase1", true},
		{"ALLUPPERCASE1", true},
		{"NoNumbersHere", true},
	}
	for _, tc := range cases {
		err := svc.ValidatePassword(tc.password)
		if tc.wantWeak && !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("%q: want ErrWeakPassword got %v", tc.password, err)
		}
		if !tc.wantWeak && err != nil {
			t.Fatalf("%q: unexpected error %v", tc.password, err)
		}
	}
}
