package walletmock

import (
	"context"

	domain "p2p-lending/internal/domain/wallet"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a nil error, reads to context.Canceled.
type Repo struct {
	CreateFn        func(ctx context.Context, w *domain.Wallet) error
	GetByUserIDFn   func(ctx context.Context, userID string) (*domain.Wallet, error)
	LockByUserIDsFn func(ctx context.Context, userIDs ...string) (map[string]*domain.Wallet, error)
	SaveFn          func(ctx context.Context, w *domain.Wallet) error
}

func (m *Repo) Create(ctx context.Context, w *domain.Wallet) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, w)
	}
	return nil
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) LockByUserIDs(ctx context.Context, userIDs ...string) (map[string]*domain.Wallet, error) {
	if m.LockByUserIDsFn != nil {
		return m.LockByUserIDsFn(ctx, userIDs...)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, w *domain.Wallet) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, w)
	}
	return nil
}
