package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, w *Wallet) error
	GetByUserID(ctx context.Context, userID string) (*Wallet, error)
	// LockByUserIDs takes exclusive row locks on the wallets of userIDs in
	// ascending user id order and returns them keyed by user id.
	LockByUserIDs(ctx context.Context, userIDs ...string) (map[string]*Wallet, error)
	Save(ctx context.Context, w *Wallet) error
}

// Credit applies amount to a wallet already locked by the enclosing
// transaction and persists it.
func Credit(ctx context.Context, repo Repository, w *Wallet, amount decimal.Decimal) (decimal.Decimal, error) {
	w.Credit(amount)
	if err := repo.Save(ctx, w); err != nil {
		return decimal.Zero, err
	}
	return w.Balance, nil
}

// Debit is Credit's counterpart; it fails with an insufficient funds error
// before touching storage.
func Debit(ctx context.Context, repo Repository, w *Wallet, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := w.Debit(amount); err != nil {
		return w.Balance, err
	}
	if err := repo.Save(ctx, w); err != nil {
		return decimal.Zero, err
	}
	return w.Balance, nil
}
