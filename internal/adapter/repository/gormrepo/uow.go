package gormrepo

import (
	"context"

	"p2p-lending/internal/domain/payment"
	"p2p-lending/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// Repos returns repositories bound to db, which may be a transaction.
func Repos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Users:        &UserRepository{db: db},
		Wallets:      &WalletRepository{db: db},
		Transfers:    &TransferRepository{db: db},
		LoanRequests: &LoanRequestRepository{db: db},
		Offers:       &OfferRepository{db: db},
		Loans:        &LoanRepository{db: db},
		Payments:     &PaymentRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos(tx))
	})
}

func (u *GormUoW) WithinPaymentTx(ctx context.Context, paymentID string, fn func(r uow.Repos, p *payment.Payment) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := Repos(tx)
		// lock the payment row up-front so concurrent settlements serialize
		p, err := r.Payments.GetByPaymentIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		return fn(r, p)
	})
}
