package auth

import (
	"errors"
	"time"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
	"github.com/Temutjin2k/swiftdrop/pkg/uuid"
	"github.com/golang-jwt/jwt/v5"
)

const refreshTTLFactor = 24 // refresh tokens live 24x longer than access tokens

type TokenService struct {
	secret    string
	AccessTTL time.Duration
	log       logger.Logger
}

func NewTokenService(secret string, accessTTL time.Duration, log logger.Logger) *TokenService {
	return &TokenService{
		secret:    secret,
		AccessTTL: accessTTL,
		log:       log,
	}
}

// GenerateTokens creates a new access/refresh pair for the user.
// Tokens are stateless: nothing is persisted, validity is purely
// signature plus expiry.
func (s *TokenService) GenerateTokens(user *models.User) (*models.TokenPair, error) {
	if user == nil {
		return nil, ErrTokenGenerateFail
	}

	issuedAt := time.Now().UTC()
	accessExp := issuedAt.Add(s.AccessTTL)
	refreshExp := issuedAt.Add(s.AccessTTL * refreshTTLFactor)

	accessToken, err := s.signClaims(newClaims(user, issuedAt, accessExp, false))
	if err != nil {
		return nil, ErrTokenGenerateFail
	}

	refreshToken, err := s.signClaims(newClaims(user, issuedAt, refreshExp, true))
	if err != nil {
		return nil, ErrTokenGenerateFail
	}

	return &models.TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *TokenService) Refresh(refreshToken string) (*models.TokenPair, error) {
	claims, err := s.Validate(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefresh {
		return nil, ErrInvalidToken
	}

	user := &models.User{
		ID:    claims.ID,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}
	return s.GenerateTokens(user)
}

// Validate checks signature and expiry and returns the claims.
func (s *TokenService) Validate(token string) (*models.CustomClaims, error) {
	claims := &models.CustomClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpToken
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *TokenService) signClaims(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func newClaims(user *models.User, issuedAt, expiresAt time.Time, refresh bool) *models.CustomClaims {
	return &models.CustomClaims{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		IsRefresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.MustNew().String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
}
