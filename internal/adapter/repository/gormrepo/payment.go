package gormrepo

import (
	"context"
	"time"

	paymentDomain "p2p-lending/internal/domain/payment"

	"gorm.io/gorm"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) CreateBatch(ctx context.Context, ps []*paymentDomain.Payment) error {
	if len(ps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(ps).Error
}

func (r *PaymentRepository) GetByPaymentID(ctx context.Context, paymentID string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&out)
	return &out, res.Error
}

func (r *PaymentRepository) GetByPaymentIDForUpdate(ctx context.Context, paymentID string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := forUpdate(r.db.WithContext(ctx)).Where("payment_id = ?", paymentID).First(&out)
	return &out, res.Error
}

func (r *PaymentRepository) ListDue(ctx context.Context, now time.Time) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Where("status <> ? AND due_date <= ?", paymentDomain.StatusPaid, now.UTC()).
		Order("due_date ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *PaymentRepository) ListUnpaidByBorrower(ctx context.Context, borrowerID string) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Select("payments.*").
		Joins("JOIN loans ON loans.loan_id = payments.loan_id").
		Where("loans.borrower_id = ? AND payments.status <> ?", borrowerID, paymentDomain.StatusPaid).
		Order("payments.due_date ASC, payments.id ASC").
		Find(&out)
	return out, res.Error
}

func (r *PaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("due_date ASC, id ASC").Find(&out)
	return out, res.Error
}

func (r *PaymentRepository) CountUnpaidByLoan(ctx context.Context, loanID string) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&paymentDomain.Payment{}).
		Where("loan_id = ? AND status <> ?", loanID, paymentDomain.StatusPaid).
		Count(&n)
	return n, res.Error
}

func (r *PaymentRepository) Save(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}
