package gormrepo

import (
	"context"

	lrDomain "p2p-lending/internal/domain/loanrequest"

	"gorm.io/gorm"
)

type LoanRequestRepository struct{ db *gorm.DB }

func NewLoanRequestRepository(db *gorm.DB) *LoanRequestRepository {
	return &LoanRequestRepository{db: db}
}

func (r *LoanRequestRepository) Create(ctx context.Context, lr *lrDomain.LoanRequest) error {
	return r.db.WithContext(ctx).Create(lr).Error
}

func (r *LoanRequestRepository) GetByRequestID(ctx context.Context, requestID string) (*lrDomain.LoanRequest, error) {
	var out lrDomain.LoanRequest
	res := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&out)
	return &out, res.Error
}

func (r *LoanRequestRepository) GetActiveByRequestID(ctx context.Context, requestID string) (*lrDomain.LoanRequest, error) {
	var out lrDomain.LoanRequest
	res := r.db.WithContext(ctx).Where("request_id = ? AND is_active = ?", requestID, true).First(&out)
	return &out, res.Error
}

func (r *LoanRequestRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*lrDomain.LoanRequest, error) {
	var out lrDomain.LoanRequest
	res := forUpdate(r.db.WithContext(ctx)).Where("request_id = ?", requestID).First(&out)
	return &out, res.Error
}

func (r *LoanRequestRepository) ListActive(ctx context.Context) ([]lrDomain.LoanRequest, error) {
	var out []lrDomain.LoanRequest
	res := r.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}

func (r *LoanRequestRepository) Deactivate(ctx context.Context, lr *lrDomain.LoanRequest) error {
	lr.IsActive = false
	return r.db.WithContext(ctx).Model(lr).Update("is_active", false).Error
}

// Delete is a soft delete.
func (r *LoanRequestRepository) Delete(ctx context.Context, lr *lrDomain.LoanRequest) error {
	return r.db.WithContext(ctx).Delete(lr).Error
}
