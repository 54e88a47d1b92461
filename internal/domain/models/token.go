package models

import (
	"time"

	"github.com/Temutjin2k/swiftdrop/pkg/uuid"
	"github.com/golang-jwt/jwt/v5"
)

type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type CustomClaims struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsRefresh bool      `json:"is_refresh"`
	jwt.RegisteredClaims
}
