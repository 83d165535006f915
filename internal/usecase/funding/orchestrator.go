package funding

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"p2p-lending/internal/domain/apperr"
	"p2p-lending/internal/domain/event"
	"p2p-lending/internal/domain/loan"
	"p2p-lending/internal/domain/loanrequest"
	"p2p-lending/internal/domain/offer"
	"p2p-lending/internal/domain/payment"
	"p2p-lending/internal/domain/transfer"
	"p2p-lending/internal/domain/uow"
	"p2p-lending/internal/domain/user"
	"p2p-lending/internal/domain/wallet"
	"p2p-lending/internal/infrastructure/metrics"
	"p2p-lending/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Orchestrator turns an accepted offer into a funded loan.
type Orchestrator struct {
	uow     uow.UnitOfWork
	cache   loanrequest.Cache
	pub     event.Publisher
	metrics *metrics.LedgerMetrics
	log     *slog.Logger
	now     func() time.Time
}

func NewOrchestrator(tx uow.UnitOfWork, cache loanrequest.Cache, pub event.Publisher, m *metrics.LedgerMetrics, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{uow: tx, cache: cache, pub: pub, metrics: m, log: log, now: time.Now}
}

// WithClock overrides the time source.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Accept funds the offer in a single transaction: the lender pays the
// offered amount plus the admin fee, the borrower receives the offered
// amount, the installment schedule is created and every sibling offer is
// rejected. Nothing is persisted unless all of it succeeds.
func (o *Orchestrator) Accept(ctx context.Context, actor user.Identity, offerID string) (*LoanDTO, error) {
	now := o.now().UTC()
	var (
		l     *loan.Loan
		off   *offer.Offer
		total decimal.Decimal
		count int
	)

	err := o.uow.WithinTx(ctx, func(r uow.Repos) error {
		req, locked, err := LockForResponse(ctx, r, actor, offerID)
		if err != nil {
			return err
		}
		off = locked

		ws, err := r.Wallets.LockByUserIDs(ctx, off.LenderID, req.BorrowerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("wallet missing for loan parties: %v", err)
		}
		if err != nil {
			return err
		}
		lender, borrower := ws[off.LenderID], ws[req.BorrowerID]

		total = off.FundingTotal()
		if lender.Balance.LessThan(total) {
			return apperr.InsufficientFunds("lender has insufficient funds: balance %s, required %s",
				lender.Balance.StringFixed(2), total.StringFixed(2))
		}

		l = &loan.Loan{
			LoanID:             id.NewID32(),
			BorrowerID:         req.BorrowerID,
			LenderID:           off.LenderID,
			Amount:             off.OfferedAmount,
			DurationMonths:     req.RepaymentPeriodMonths,
			AnnualInterestRate: off.InterestRate,
			AdminFee:           off.AdminFee,
			Status:             loan.StatusFunded,
			StatusUpdatedAt:    now,
			FundedAt:           &now,
			LoanOfferID:        off.OfferID,
			LoanRequestID:      req.RequestID,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		if _, err := wallet.Debit(ctx, r.Wallets, lender, total); err != nil {
			return err
		}
		if _, err := wallet.Credit(ctx, r.Wallets, borrower, off.OfferedAmount); err != nil {
			return err
		}
		if err := r.Transfers.Create(ctx, &transfer.Transfer{
			TransferID:    id.NewID32(),
			UserID:        actor.UserID,
			Type:          transfer.TypeFundLoan,
			Status:        transfer.StatusCompleted,
			Amount:        total,
			FromUserID:    off.LenderID,
			ToUserID:      req.BorrowerID,
			LoanID:        l.LoanID,
			LoanRequestID: req.RequestID,
		}); err != nil {
			return err
		}

		schedule := payment.Schedule(l.LoanID, off.MonthlyPayment, l.DurationMonths, now, id.NewID32)
		if err := r.Payments.CreateBatch(ctx, schedule); err != nil {
			return err
		}
		count = len(schedule)

		off.Status = offer.StatusAccepted
		off.StatusUpdatedAt = now
		if err := r.Offers.Save(ctx, off); err != nil {
			return err
		}
		if err := r.LoanRequests.Deactivate(ctx, req); err != nil {
			return err
		}
		_, err = r.Offers.RejectSiblings(ctx, req.RequestID, off.OfferID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if o.cache != nil {
		if err := o.cache.Invalidate(ctx); err != nil {
			o.log.WarnContext(ctx, "active requests cache invalidation failed", "err", err)
		}
	}
	o.metrics.ObserveLoanFunded(l.Amount)
	event.Emit(ctx, o.pub, o.log, event.LoanFunded, event.LoanFundedEvent{
		LoanID:     l.LoanID,
		OfferID:    l.LoanOfferID,
		RequestID:  l.LoanRequestID,
		BorrowerID: l.BorrowerID,
		LenderID:   l.LenderID,
		Principal:  l.Amount,
		Debited:    total,
		Timestamp:  now,
	})
	o.log.InfoContext(ctx, "loan funded", "loan_id", l.LoanID, "offer_id", l.LoanOfferID, "debited", total.StringFixed(2))

	return &LoanDTO{
		ID:                 l.LoanID,
		Borrower:           l.BorrowerID,
		Lender:             l.LenderID,
		Amount:             l.Amount,
		DurationMonths:     l.DurationMonths,
		AnnualInterestRate: l.AnnualInterestRate,
		AdminFee:           l.AdminFee,
		Status:             string(l.Status),
		FundedAt:           l.FundedAt,
		LoanOffer:          l.LoanOfferID,
		LoanRequest:        l.LoanRequestID,
		MonthlyPayment:     off.MonthlyPayment,
		Debited:            total,
		Installments:       count,
	}, nil
}
