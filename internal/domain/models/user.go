package models

import (
	"context"
	"time"

	"github.com/Temutjin2k/swiftdrop/pkg/uuid"
)

type UserCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	password  string
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`

	// Onboarding flags kept alongside the profile.
	SeenOnboarding bool `json:"seen_onboarding"`
	Registered     bool `json:"registered"`
}

func (u *User) GetPassword() string {
	return u.password
}

func (u *User) SetPassword(password string) {
	u.password = password
}

// StoredUser is the JSON shape persisted in the store; the password
// hash never leaves the adapter otherwise.
type StoredUser struct {
	User
	PasswordHash string `json:"password_hash"`
}

func (s *StoredUser) ToUser() *User {
	u := s.User
	u.SetPassword(s.PasswordHash)
	return &u
}

var anonymous = &User{Name: "anonymous"}

func AnonymousUser() *User {
	return anonymous
}

func (u *User) IsAnonymous() bool {
	return u == anonymous
}

type userCtxKey struct{}

// WithUser injects the authenticated user into the request context.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext returns the user injected by the auth middleware, or nil.
func UserFromContext(ctx context.Context) *User {
	if u, ok := ctx.Value(userCtxKey{}).(*User); ok {
		return u
	}
	return nil
}
