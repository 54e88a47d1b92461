package auth

import (
	"context"
	"errors"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
	wrap "github.com/Temutjin2k/swiftdrop/pkg/logger/wrapper"
	"github.com/Temutjin2k/swiftdrop/pkg/passhash"
	"github.com/Temutjin2k/swiftdrop/pkg/uuid"
)

type AuthService struct {
	userRepo     UserRepo
	tokenService TokenProvider
	log          logger.Logger
}

func NewAuthService(userRepo UserRepo, tokenService TokenProvider, log logger.Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenService: tokenService,
		log:          log,
	}
}

// Register creates the customer account. The store holds one profile;
// registering over an existing one is rejected.
func (s *AuthService) Register(ctx context.Context, req *models.UserCreateRequest) (*models.User, error) {
	ctx = wrap.WithAction(ctx, "customer_register")

	existing, err := s.userRepo.Profile(ctx)
	if err != nil && !errors.Is(err, types.ErrUserNotFound) {
		return nil, wrap.Error(ctx, ErrUnexpected)
	}
	if existing != nil {
		return nil, wrap.Error(ctx, types.ErrUserAlreadyExists)
	}

	hash, err := passhash.HashPassword(req.Password)
	if err != nil {
		s.log.Error(ctx, "failed to generate hash from password", err)
		return nil, wrap.Error(ctx, ErrUnexpected)
	}

	user := models.StoredUser{
		User: models.User{
			ID:         uuid.MustNew(),
			Name:       req.Name,
			Email:      req.Email,
			Phone:      req.Phone,
			Role:       types.RoleCustomer.String(),
			Registered: true,
		},
		PasswordHash: hash,
	}

	if err := s.userRepo.SaveProfile(ctx, &user); err != nil {
		s.log.Error(ctx, "failed to save user", err)
		return nil, wrap.Error(ctx, ErrUnexpected)
	}

	s.log.Info(wrap.WithUserID(ctx, user.ID.String()), "customer registered")

	return user.ToUser(), nil
}

// Login verifies the credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "customer_login")

	stored, err := s.userRepo.Profile(ctx)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, wrap.Error(ctx, ErrInvalidCredentials)
		}
		return nil, wrap.Error(ctx, ErrUnexpected)
	}

	if stored.Email != email {
		return nil, wrap.Error(ctx, ErrInvalidCredentials)
	}

	if ok, err := passhash.VerifyPassword(password, stored.PasswordHash); err != nil || !ok {
		return nil, wrap.Error(ctx, ErrInvalidCredentials)
	}

	tokens, err := s.tokenService.GenerateTokens(stored.ToUser())
	if err != nil {
		return nil, wrap.Error(ctx, ErrTokenGenerateFail)
	}

	return tokens, nil
}

// Refresh exchanges a refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	return s.tokenService.Refresh(refreshToken)
}

// RoleCheck validates the access token and resolves the account behind
// it. Used by the auth middleware.
func (s *AuthService) RoleCheck(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokenService.Validate(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	stored, err := s.userRepo.Profile(ctx)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, ErrUnexpected
	}

	if stored.Email != claims.Email {
		return nil, ErrInvalidToken
	}

	return stored.ToUser(), nil
}
