package uow

import (
	"context"

	"p2p-lending/internal/domain/loan"
	"p2p-lending/internal/domain/loanrequest"
	"p2p-lending/internal/domain/offer"
	"p2p-lending/internal/domain/payment"
	"p2p-lending/internal/domain/transfer"
	"p2p-lending/internal/domain/user"
	"p2p-lending/internal/domain/wallet"
)

// Repos are bound to one transaction.
type Repos struct {
	Users        user.Repository
	Wallets      wallet.Repository
	Transfers    transfer.Repository
	LoanRequests loanrequest.Repository
	Offers       offer.Repository
	Loans        loan.Repository
	Payments     payment.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the payment row first, then pass it in
	WithinPaymentTx(ctx context.Context, paymentID string, fn func(r Repos, p *payment.Payment) error) error
}
