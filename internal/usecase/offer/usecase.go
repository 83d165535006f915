package offer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"p2p-lending/internal/domain/apperr"
	"p2p-lending/internal/domain/money"
	domain "p2p-lending/internal/domain/offer"
	"p2p-lending/internal/domain/uow"
	"p2p-lending/internal/domain/user"
	"p2p-lending/internal/infrastructure/metrics"
	"p2p-lending/internal/usecase/funding"
	"p2p-lending/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Usecase struct {
	uow           uow.UnitOfWork
	funding       *funding.Orchestrator
	processingFee decimal.Decimal
	metrics       *metrics.LedgerMetrics
	log           *slog.Logger
	now           func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, f *funding.Orchestrator, processingFee decimal.Decimal, m *metrics.LedgerMetrics, log *slog.Logger) *Usecase {
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{uow: tx, funding: f, processingFee: processingFee, metrics: m, log: log, now: time.Now}
}

// WithClock overrides the time source.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Create records a pending offer. The lender must be able to cover the
// requested amount grossed up by the processing fee, whatever they offer.
func (u *Usecase) Create(ctx context.Context, actor user.Identity, in CreateInput) (*OfferDTO, error) {
	if actor.Role != user.RoleLender {
		return nil, apperr.Forbidden("only lenders can make offers")
	}

	var o *domain.Offer
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		req, err := r.LoanRequests.GetActiveByRequestID(ctx, in.LoanRequestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("active loan request %s not found", in.LoanRequestID)
		}
		if err != nil {
			return err
		}

		if err := money.Positive("offered_amount", in.OfferedAmount); err != nil {
			return err
		}
		if in.OfferedAmount.GreaterThan(req.RequestedAmount) {
			return apperr.Validation("offered_amount", "must not exceed the requested amount %s", req.RequestedAmount.StringFixed(2))
		}
		if !in.InterestRate.IsPositive() {
			return apperr.Validation("interest_rate", "must be greater than 0")
		}

		w, err := r.Wallets.GetByUserID(ctx, actor.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("wallet for user %s not found", actor.UserID)
		}
		if err != nil {
			return err
		}
		if floor := domain.SolvencyFloor(req.RequestedAmount, u.processingFee); w.Balance.LessThan(floor) {
			return apperr.InsufficientFunds("insufficient funds: balance %s, required %s",
				w.Balance.StringFixed(2), floor.StringFixed(2))
		}

		monthly := domain.MonthlyPayment(in.OfferedAmount, in.InterestRate, req.RepaymentPeriodMonths)
		o = &domain.Offer{
			OfferID:              id.NewID32(),
			LoanRequestID:        req.RequestID,
			LenderID:             actor.UserID,
			OfferedAmount:        in.OfferedAmount,
			InterestRate:         in.InterestRate,
			AdminFee:             u.processingFee,
			MonthlyPayment:       monthly,
			TotalRepayableAmount: domain.TotalRepayable(monthly, req.RepaymentPeriodMonths, in.OfferedAmount, u.processingFee),
			Status:               domain.StatusPending,
			StatusUpdatedAt:      u.now().UTC(),
		}
		return r.Offers.Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	dto := toDTO(o)
	return &dto, nil
}

// List is role-scoped: lenders see the offers they made, everyone else the
// offers made on their requests.
func (u *Usecase) List(ctx context.Context, actor user.Identity) (*ListDTO, error) {
	out := &ListDTO{OffersType: OffersTypeReceived}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var (
			list []domain.Offer
			err  error
		)
		if actor.Role == user.RoleLender {
			out.OffersType = OffersTypeOffered
			list, err = r.Offers.ListByLender(ctx, actor.UserID)
		} else {
			list, err = r.Offers.ListByBorrower(ctx, actor.UserID)
		}
		if err != nil {
			return err
		}
		out.Offers = make([]OfferDTO, 0, len(list))
		for i := range list {
			out.Offers = append(out.Offers, toDTO(&list[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Respond applies the borrower's decision. Accepting funds the loan.
func (u *Usecase) Respond(ctx context.Context, actor user.Identity, offerID, action string) (*RespondDTO, error) {
	if action == ActionAccept {
		l, err := u.funding.Accept(ctx, actor, offerID)
		if err != nil {
			return nil, err
		}
		u.metrics.ObserveOfferResponse(action)
		return &RespondDTO{Message: "offer accepted", Loan: l}, nil
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		_, o, err := funding.LockForResponse(ctx, r, actor, offerID)
		if err != nil {
			return err
		}
		if action != ActionReject {
			return apperr.Validation("action", "must be %q or %q", ActionAccept, ActionReject)
		}
		o.Status = domain.StatusRejected
		o.StatusUpdatedAt = u.now().UTC()
		return r.Offers.Save(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	u.metrics.ObserveOfferResponse(action)
	return &RespondDTO{Message: "offer rejected"}, nil
}

func toDTO(o *domain.Offer) OfferDTO {
	return OfferDTO{
		ID:                   o.OfferID,
		LoanRequest:          o.LoanRequestID,
		Lender:               o.LenderID,
		OfferedAmount:        o.OfferedAmount,
		InterestRate:         o.InterestRate,
		AdminFee:             o.AdminFee,
		MonthlyPayment:       o.MonthlyPayment,
		TotalRepayableAmount: o.TotalRepayableAmount,
		Status:               string(o.Status),
		StatusUpdatedAt:      o.StatusUpdatedAt,
		Created:              o.CreatedAt,
	}
}
