package gormrepo

import (
	"context"
	"fmt"
	"sort"

	walletDomain "p2p-lending/internal/domain/wallet"

	"gorm.io/gorm"
)

type WalletRepository struct{ db *gorm.DB }

func NewWalletRepository(db *gorm.DB) *WalletRepository { return &WalletRepository{db: db} }

func (r *WalletRepository) Create(ctx context.Context, w *walletDomain.Wallet) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*walletDomain.Wallet, error) {
	var out walletDomain.Wallet
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	return &out, res.Error
}

// LockByUserIDs locks one wallet at a time in ascending user id order so two
// transactions touching the same pair can never wait on each other in a cycle.
func (r *WalletRepository) LockByUserIDs(ctx context.Context, userIDs ...string) (map[string]*walletDomain.Wallet, error) {
	ids := make([]string, 0, len(userIDs))
	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make(map[string]*walletDomain.Wallet, len(ids))
	for _, id := range ids {
		var w walletDomain.Wallet
		if err := forUpdate(r.db.WithContext(ctx)).Where("user_id = ?", id).First(&w).Error; err != nil {
			return nil, fmt.Errorf("lock wallet %s: %w", id, err)
		}
		out[id] = &w
	}
	return out, nil
}

func (r *WalletRepository) Save(ctx context.Context, w *walletDomain.Wallet) error {
	return r.db.WithContext(ctx).Save(w).Error
}
