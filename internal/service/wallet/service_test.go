package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
)

type memRepo struct {
	balance  int
	required int
	hasReq   bool
}

func (m *memRepo) Balance(_ context.Context) (int, error)        { return m.balance, nil }
func (m *memRepo) SetBalance(_ context.Context, b int) error     { m.balance = b; return nil }
func (m *memRepo) RequiredAmount(_ context.Context) (int, error) { return m.required, nil }
func (m *memRepo) SetRequiredAmount(_ context.Context, a int) error {
	m.required = a
	m.hasReq = true
	return nil
}
func (m *memRepo) ClearRequiredAmount(_ context.Context) error {
	m.required = 0
	m.hasReq = false
	return nil
}

func newLedger(balance int) (*Ledger, *memRepo) {
	repo := &memRepo{balance: balance}
	return NewLedger(repo, logger.InitLogger("test", "ERROR")), repo
}

func TestDebit(t *testing.T) {
	ledger, _ := newLedger(2500)

	balance, err := ledger.Debit(context.Background(), 1500)
	if err != nil {
		t.Fatalf("Debit: %v", err)
	}
	if balance != 1000 {
		t.Fatalf("balance = %d, want 1000", balance)
	}
}

func TestDebit_InsufficientFunds(t *testing.T) {
	ledger, repo := newLedger(1000)

	_, err := ledger.Debit(context.Background(), 1500)
	if !errors.Is(err, types.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if repo.balance != 1000 {
		t.Fatalf("balance mutated on failed debit: %d", repo.balance)
	}
}

func TestDebit_NegativeAmount(t *testing.T) {
	ledger, _ := newLedger(1000)

	if _, err := ledger.Debit(context.Background(), -5); !errors.Is(err, types.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestCredit(t *testing.T) {
	ledger, _ := newLedger(200)

	balance, err := ledger.Credit(context.Background(), 800)
	if err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if balance != 1000 {
		t.Fatalf("balance = %d, want 1000", balance)
	}
}

func TestTopUp_BelowMinimum(t *testing.T) {
	ledger, _ := newLedger(0)

	if _, err := ledger.TopUp(context.Background(), MinTopUp-1); !errors.Is(err, types.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestTopUp_ClearsShortfall(t *testing.T) {
	ledger, repo := newLedger(100)

	if _, err := ledger.Shortfall(context.Background(), 600); err != nil {
		t.Fatalf("Shortfall: %v", err)
	}
	if !repo.hasReq || repo.required != 500 {
		t.Fatalf("required = %d (recorded=%t), want 500", repo.required, repo.hasReq)
	}

	balance, err := ledger.TopUp(context.Background(), 500)
	if err != nil {
		t.Fatalf("TopUp: %v", err)
	}
	if balance != 600 {
		t.Fatalf("balance = %d, want 600", balance)
	}
	if repo.hasReq {
		t.Fatal("shortfall not cleared after top-up")
	}
}

func TestShortfall_SufficientBalance(t *testing.T) {
	ledger, repo := newLedger(2500)

	shortfall, err := ledger.Shortfall(context.Background(), 1500)
	if err != nil {
		t.Fatalf("Shortfall: %v", err)
	}
	if shortfall != 0 {
		t.Fatalf("shortfall = %d, want 0", shortfall)
	}
	if repo.hasReq {
		t.Fatal("shortfall recorded although balance suffices")
	}
}
