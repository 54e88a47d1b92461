package rediskv

import (
	"context"
	"errors"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
)

func (s *Store) SaveProfile(ctx context.Context, user *models.StoredUser) error {
	if err := s.setJSON(ctx, KeyUserProfile, user); err != nil {
		return err
	}
	return s.set(ctx, KeyUserRegistered, "true")
}

func (s *Store) Profile(ctx context.Context) (*models.StoredUser, error) {
	var user models.StoredUser
	if err := s.getJSON(ctx, KeyUserProfile, &user); err != nil {
		if errors.Is(err, types.ErrKeyNotFound) {
			return nil, types.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) SeenOnboarding(ctx context.Context) (bool, error) {
	v, err := s.get(ctx, KeySeenOnboarding)
	if err != nil {
		if errors.Is(err, types.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return v == "true", nil
}

func (s *Store) MarkOnboardingSeen(ctx context.Context) error {
	return s.set(ctx, KeySeenOnboarding, "true")
}

func (s *Store) Registered(ctx context.Context) (bool, error) {
	v, err := s.get(ctx, KeyUserRegistered)
	if err != nil {
		if errors.Is(err, types.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return v == "true", nil
}

// Reset wipes the account: profile, wallet, history, active order and
// any draft in progress. Onboarding state survives.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.ClearDraft(ctx); err != nil {
		return err
	}
	return s.del(ctx,
		KeyActiveOrder, KeyOrderHistory,
		KeyUserBalance, KeyUserProfile, KeyUserRegistered,
	)
}
