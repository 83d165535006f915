package payment

import (
	"context"
	"time"
)

type Repository interface {
	CreateBatch(ctx context.Context, ps []*Payment) error
	GetByPaymentID(ctx context.Context, paymentID string) (*Payment, error)
	GetByPaymentIDForUpdate(ctx context.Context, paymentID string) (*Payment, error)
	// ListDue returns every non-paid payment due on or before now.
	ListDue(ctx context.Context, now time.Time) ([]Payment, error)
	ListUnpaidByBorrower(ctx context.Context, borrowerID string) ([]Payment, error)
	ListByLoan(ctx context.Context, loanID string) ([]Payment, error)
	CountUnpaidByLoan(ctx context.Context, loanID string) (int64, error)
	Save(ctx context.Context, p *Payment) error
}
