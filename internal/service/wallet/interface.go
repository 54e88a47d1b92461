package wallet

import "context"

// BalanceRepo persists the wallet balance and the shortfall marker left
// behind by an underfunded confirmation attempt.
type BalanceRepo interface {
	Balance(ctx context.Context) (int, error)
	SetBalance(ctx context.Context, balance int) error
	RequiredAmount(ctx context.Context) (int, error)
	SetRequiredAmount(ctx context.Context, amount int) error
	ClearRequiredAmount(ctx context.Context) error
}
