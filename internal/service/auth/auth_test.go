package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
)

type memUserRepo struct {
	profile *models.StoredUser
}

func (m *memUserRepo) SaveProfile(_ context.Context, user *models.StoredUser) error {
	cp := *user
	m.profile = &cp
	return nil
}

func (m *memUserRepo) Profile(_ context.Context) (*models.StoredUser, error) {
	if m.profile == nil {
		return nil, types.ErrUserNotFound
	}
	cp := *m.profile
	return &cp, nil
}

func newAuth() (*AuthService, *memUserRepo) {
	log := logger.InitLogger("test", "ERROR")
	repo := &memUserRepo{}
	tokens := NewTokenService("test-secret", 15*time.Minute, log)
	return NewAuthService(repo, tokens, log), repo
}

func registerReq() *models.UserCreateRequest {
	return &models.UserCreateRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Phone:    "08011111111",
		Password: "correct horse battery",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, repo := newAuth()
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != types.RoleCustomer.String() {
		t.Errorf("role = %s, want customer", user.Role)
	}
	if repo.profile == nil {
		t.Fatal("profile not persisted")
	}
	if repo.profile.PasswordHash == "correct horse battery" {
		t.Error("password stored in plain text")
	}

	pair, err := svc.Login(ctx, "ada@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty token pair")
	}
}

func TestRegister_Twice(t *testing.T) {
	svc, _ := newAuth()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, registerReq()); !errors.Is(err, types.ErrUserAlreadyExists) {
		t.Fatalf("err = %v, want ErrUserAlreadyExists", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuth()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Login(ctx, "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "other@example.com", "correct horse battery"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRoleCheck(t *testing.T) {
	svc, _ := newAuth()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	pair, err := svc.Login(ctx, "ada@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	user, err := svc.RoleCheck(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("RoleCheck: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("email = %s", user.Email)
	}

	if _, err := svc.RoleCheck(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenService_Refresh(t *testing.T) {
	log := logger.InitLogger("test", "ERROR")
	tokens := NewTokenService("test-secret", 15*time.Minute, log)

	user := &models.User{Name: "Ada", Email: "ada@example.com", Role: types.RoleCustomer.String()}
	pair, err := tokens.GenerateTokens(user)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	fresh, err := tokens.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if fresh.AccessToken == "" {
		t.Fatal("empty refreshed access token")
	}

	// access tokens must not be usable as refresh tokens
	if _, err := tokens.Refresh(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenService_Expired(t *testing.T) {
	log := logger.InitLogger("test", "ERROR")
	tokens := NewTokenService("test-secret", -time.Minute, log)

	user := &models.User{Email: "ada@example.com"}
	pair, err := tokens.GenerateTokens(user)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	if _, err := tokens.Validate(pair.AccessToken); !errors.Is(err, ErrExpToken) {
		t.Fatalf("err = %v, want ErrExpToken", err)
	}
}
