package rediskv

import (
	"context"
	"errors"
	"strconv"

	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
)

// DefaultBalance seeds a wallet that has never been written.
const DefaultBalance = 2500

// Balance returns the stored wallet balance, seeding the default for a
// wallet that has never been touched.
func (s *Store) Balance(ctx context.Context) (int, error) {
	v, err := s.get(ctx, KeyUserBalance)
	if err != nil {
		if errors.Is(err, types.ErrKeyNotFound) {
			return DefaultBalance, nil
		}
		return 0, err
	}
	balance, perr := strconv.Atoi(v)
	if perr != nil {
		return DefaultBalance, nil
	}
	return balance, nil
}

func (s *Store) SetBalance(ctx context.Context, balance int) error {
	return s.set(ctx, KeyUserBalance, strconv.Itoa(balance))
}

// RequiredAmount returns the shortfall recorded for an underfunded
// confirmation attempt, zero when none is recorded.
func (s *Store) RequiredAmount(ctx context.Context) (int, error) {
	v, err := s.get(ctx, KeyRequiredAmount)
	if err != nil {
		if errors.Is(err, types.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	amount, perr := strconv.Atoi(v)
	if perr != nil {
		return 0, nil
	}
	return amount, nil
}

func (s *Store) SetRequiredAmount(ctx context.Context, amount int) error {
	return s.set(ctx, KeyRequiredAmount, strconv.Itoa(amount))
}

func (s *Store) ClearRequiredAmount(ctx context.Context) error {
	return s.del(ctx, KeyRequiredAmount)
}
