package gormrepo

import (
	"context"

	transferDomain "p2p-lending/internal/domain/transfer"

	"gorm.io/gorm"
)

type TransferRepository struct{ db *gorm.DB }

func NewTransferRepository(db *gorm.DB) *TransferRepository { return &TransferRepository{db: db} }

func (r *TransferRepository) Create(ctx context.Context, t *transferDomain.Transfer) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransferRepository) ListByUser(ctx context.Context, userID string) ([]transferDomain.Transfer, error) {
	var out []transferDomain.Transfer
	res := r.db.WithContext(ctx).
		Where("user_id = ? OR from_user_id = ? OR to_user_id = ?", userID, userID, userID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}
