package auth

import (
	"context"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
)

// UserRepo persists the single account profile.
type UserRepo interface {
	SaveProfile(ctx context.Context, user *models.StoredUser) error
	Profile(ctx context.Context) (*models.StoredUser, error)
}

type TokenProvider interface {
	GenerateTokens(user *models.User) (*models.TokenPair, error)
	Refresh(refreshToken string) (*models.TokenPair, error)
	Validate(token string) (*models.CustomClaims, error)
}
