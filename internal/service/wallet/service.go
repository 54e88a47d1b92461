package wallet

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
	wrap "github.com/Temutjin2k/swiftdrop/pkg/logger/wrapper"
	"github.com/Temutjin2k/swiftdrop/pkg/metrics"
)

const serviceName = "swiftdrop"

// MinTopUp is the smallest amount accepted by TopUp.
const MinTopUp = 100

// Ledger holds the single wallet balance. All amounts are non-negative
// integers; debit never overdrafts.
type Ledger struct {
	repo BalanceRepo
	log  logger.Logger
}

func NewLedger(repo BalanceRepo, log logger.Logger) *Ledger {
	return &Ledger{
		repo: repo,
		log:  log,
	}
}

func (l *Ledger) Balance(ctx context.Context) (int, error) {
	return l.repo.Balance(ctx)
}

// Credit adds amount to the balance.
func (l *Ledger) Credit(ctx context.Context, amount int) (int, error) {
	ctx = wrap.WithAction(ctx, "wallet_credit")

	if amount < 0 {
		metrics.RecordWalletOperation(serviceName, "credit", types.ErrInvalidAmount)
		return 0, wrap.Error(ctx, types.ErrInvalidAmount)
	}

	balance, err := l.repo.Balance(ctx)
	if err != nil {
		return 0, wrap.Error(ctx, fmt.Errorf("could not read balance: %w", err))
	}

	balance += amount
	if err := l.repo.SetBalance(ctx, balance); err != nil {
		metrics.RecordWalletOperation(serviceName, "credit", err)
		return 0, wrap.Error(ctx, fmt.Errorf("could not write balance: %w", err))
	}

	metrics.RecordWalletOperation(serviceName, "credit", nil)
	return balance, nil
}

// Debit subtracts amount from the balance. Fails with
// types.ErrInsufficientFunds when amount exceeds the balance, leaving
// the balance untouched.
func (l *Ledger) Debit(ctx context.Context, amount int) (int, error) {
	ctx = wrap.WithAction(ctx, "wallet_debit")

	if amount < 0 {
		metrics.RecordWalletOperation(serviceName, "debit", types.ErrInvalidAmount)
		return 0, wrap.Error(ctx, types.ErrInvalidAmount)
	}

	balance, err := l.repo.Balance(ctx)
	if err != nil {
		return 0, wrap.Error(ctx, fmt.Errorf("could not read balance: %w", err))
	}

	if amount > balance {
		metrics.RecordWalletOperation(serviceName, "debit", types.ErrInsufficientFunds)
		return balance, wrap.Error(ctx, types.ErrInsufficientFunds)
	}

	balance -= amount
	if err := l.repo.SetBalance(ctx, balance); err != nil {
		metrics.RecordWalletOperation(serviceName, "debit", err)
		return 0, wrap.Error(ctx, fmt.Errorf("could not write balance: %w", err))
	}

	metrics.RecordWalletOperation(serviceName, "debit", nil)
	return balance, nil
}

// TopUp credits the balance and clears any recorded shortfall.
func (l *Ledger) TopUp(ctx context.Context, amount int) (int, error) {
	ctx = wrap.WithAction(ctx, "wallet_topup")

	if amount < MinTopUp {
		return 0, wrap.Error(ctx, types.ErrInvalidAmount)
	}

	balance, err := l.Credit(ctx, amount)
	if err != nil {
		return 0, err
	}

	if err := l.repo.ClearRequiredAmount(ctx); err != nil {
		return 0, wrap.Error(ctx, fmt.Errorf("could not clear required amount: %w", err))
	}

	return balance, nil
}

// Shortfall returns how much the balance is missing to cover price,
// zero when the balance suffices, and records it so the top-up flow can
// suggest the exact amount.
func (l *Ledger) Shortfall(ctx context.Context, price int) (int, error) {
	ctx = wrap.WithAction(ctx, "wallet_shortfall")

	balance, err := l.repo.Balance(ctx)
	if err != nil {
		return 0, wrap.Error(ctx, fmt.Errorf("could not read balance: %w", err))
	}

	shortfall := price - balance
	if shortfall <= 0 {
		return 0, nil
	}

	if err := l.repo.SetRequiredAmount(ctx, shortfall); err != nil {
		return 0, wrap.Error(ctx, fmt.Errorf("could not record required amount: %w", err))
	}

	return shortfall, nil
}

// RequiredAmount returns the recorded shortfall, zero when none.
func (l *Ledger) RequiredAmount(ctx context.Context) (int, error) {
	return l.repo.RequiredAmount(ctx)
}
