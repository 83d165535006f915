package settlement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"p2p-lending/internal/domain/apperr"
	"p2p-lending/internal/domain/event"
	"p2p-lending/internal/domain/loan"
	"p2p-lending/internal/domain/payment"
	"p2p-lending/internal/domain/transfer"
	"p2p-lending/internal/domain/uow"
	"p2p-lending/internal/domain/user"
	"p2p-lending/internal/domain/wallet"
	"p2p-lending/internal/infrastructure/metrics"
	"p2p-lending/pkg/id"

	"gorm.io/gorm"
)

const (
	sourceManual = "manual"
	sourceSweep  = "sweep"
)

type Usecase struct {
	uow     uow.UnitOfWork
	pub     event.Publisher
	metrics *metrics.LedgerMetrics
	log     *slog.Logger
	now     func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, pub event.Publisher, m *metrics.LedgerMetrics, log *slog.Logger) *Usecase {
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{uow: tx, pub: pub, metrics: m, log: log, now: time.Now}
}

// WithClock overrides the time source.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// outcome is what one settlement changed, reported after commit.
type outcome struct {
	loan      *loan.Loan
	payment   *payment.Payment
	completed bool
}

// settle moves one installment from borrower to lender. The payment and
// its loan must already be locked. The borrower debit is checked before
// anything is written.
func settle(ctx context.Context, r uow.Repos, l *loan.Loan, p *payment.Payment, now time.Time) (bool, error) {
	ws, err := r.Wallets.LockByUserIDs(ctx, l.BorrowerID, l.LenderID)
	if err != nil {
		return false, err
	}
	if _, err := wallet.Debit(ctx, r.Wallets, ws[l.BorrowerID], p.Amount); err != nil {
		return false, err
	}
	if _, err := wallet.Credit(ctx, r.Wallets, ws[l.LenderID], p.Amount); err != nil {
		return false, err
	}

	p.MarkPaid(now)
	if err := r.Payments.Save(ctx, p); err != nil {
		return false, err
	}
	if err := r.Transfers.Create(ctx, &transfer.Transfer{
		TransferID:    id.NewID32(),
		UserID:        l.BorrowerID,
		Type:          transfer.TypeMonthlyPayment,
		Status:        transfer.StatusCompleted,
		Amount:        p.Amount,
		FromUserID:    l.BorrowerID,
		ToUserID:      l.LenderID,
		LoanID:        l.LoanID,
		LoanRequestID: l.LoanRequestID,
	}); err != nil {
		return false, err
	}

	left, err := r.Payments.CountUnpaidByLoan(ctx, l.LoanID)
	if err != nil {
		return false, err
	}
	if left > 0 {
		return false, nil
	}
	l.Status = loan.StatusCompleted
	l.StatusUpdatedAt = now
	return true, r.Loans.Save(ctx, l)
}

// Pay settles one installment on the borrower's request.
func (u *Usecase) Pay(ctx context.Context, actor user.Identity, paymentID string) (*PaymentDTO, error) {
	now := u.now().UTC()
	var res outcome
	err := u.uow.WithinPaymentTx(ctx, paymentID, func(r uow.Repos, p *payment.Payment) error {
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, p.LoanID)
		if err != nil {
			return err
		}
		if l.BorrowerID != actor.UserID {
			return apperr.Forbidden("payment %s belongs to another borrower", paymentID)
		}
		if p.Status == payment.StatusPaid {
			return apperr.Validation("payment", "payment %s is already paid", paymentID)
		}
		completed, err := settle(ctx, r, l, p, now)
		if err != nil {
			return err
		}
		res = outcome{loan: l, payment: p, completed: completed}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("payment %s not found", paymentID)
	}
	if err != nil {
		return nil, err
	}
	u.afterSettle(ctx, res, sourceManual, now)
	dto := toDTO(res.payment)
	return &dto, nil
}

// SettleDue runs one sweep over every non-paid installment due by now. Each
// installment gets its own transaction; a borrower who cannot pay is
// flagged overdue and any other failure is left for the next sweep.
func (u *Usecase) SettleDue(ctx context.Context) (*SweepResult, error) {
	start := time.Now()
	now := u.now().UTC()

	var due []payment.Payment
	if err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		due, err = r.Payments.ListDue(ctx, now)
		return err
	}); err != nil {
		return nil, err
	}

	out := &SweepResult{Considered: len(due)}
	for i := range due {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		paymentID := due[i].PaymentID

		var (
			res     outcome
			skipped bool
			overdue bool
			flagged bool
		)
		err := u.uow.WithinPaymentTx(ctx, paymentID, func(r uow.Repos, p *payment.Payment) error {
			if p.Status == payment.StatusPaid {
				skipped = true
				return nil
			}
			l, err := r.Loans.GetByLoanIDForUpdate(ctx, p.LoanID)
			if err != nil {
				return err
			}
			completed, err := settle(ctx, r, l, p, now)
			if errors.Is(err, apperr.ErrInsufficientFunds) {
				overdue = true
				res = outcome{loan: l, payment: p}
				if p.Status == payment.StatusOverdue {
					return nil
				}
				flagged = true
				p.MarkOverdue(now)
				return r.Payments.Save(ctx, p)
			}
			if err != nil {
				return err
			}
			res = outcome{loan: l, payment: p, completed: completed}
			return nil
		})

		switch {
		case err != nil:
			out.Failed++
			u.log.ErrorContext(ctx, "sweep: payment settlement failed", "payment_id", paymentID, "err", err)
		case skipped:
			out.Skipped++
		case overdue:
			out.Overdue++
			if flagged {
				u.metrics.ObservePaymentOverdue()
				event.Emit(ctx, u.pub, u.log, event.PaymentOverdue, paymentEvent(res, now))
			}
		default:
			out.Settled++
			if res.completed {
				out.CompletedLoans = append(out.CompletedLoans, res.loan.LoanID)
			}
			u.afterSettle(ctx, res, sourceSweep, now)
		}
	}

	u.metrics.ObserveSweep(time.Since(start), out.Failed)
	u.log.InfoContext(ctx, "sweep finished",
		"considered", out.Considered, "settled", out.Settled, "overdue", out.Overdue,
		"skipped", out.Skipped, "failed", out.Failed)
	return out, nil
}

// ListOutstanding returns the caller's non-paid installments, earliest due
// first.
func (u *Usecase) ListOutstanding(ctx context.Context, actor user.Identity) ([]PaymentDTO, error) {
	var out []PaymentDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		ps, err := r.Payments.ListUnpaidByBorrower(ctx, actor.UserID)
		if err != nil {
			return err
		}
		out = make([]PaymentDTO, 0, len(ps))
		for i := range ps {
			out = append(out, toDTO(&ps[i]))
		}
		return nil
	})
	return out, err
}

func (u *Usecase) afterSettle(ctx context.Context, res outcome, source string, now time.Time) {
	u.metrics.ObservePaymentSettled(source, res.payment.IsLatePayment)
	event.Emit(ctx, u.pub, u.log, event.PaymentSettled, paymentEvent(res, now))
	if res.completed {
		u.metrics.ObserveLoanCompleted()
		event.Emit(ctx, u.pub, u.log, event.LoanCompleted, event.PaymentEvent{
			LoanID:     res.loan.LoanID,
			BorrowerID: res.loan.BorrowerID,
			LenderID:   res.loan.LenderID,
			Amount:     res.loan.Amount,
			Timestamp:  now,
		})
	}
}

func paymentEvent(res outcome, now time.Time) event.PaymentEvent {
	return event.PaymentEvent{
		PaymentID:  res.payment.PaymentID,
		LoanID:     res.loan.LoanID,
		BorrowerID: res.loan.BorrowerID,
		LenderID:   res.loan.LenderID,
		Amount:     res.payment.Amount,
		Late:       res.payment.IsLatePayment,
		Timestamp:  now,
	}
}

func toDTO(p *payment.Payment) PaymentDTO {
	return PaymentDTO{
		ID:                    p.PaymentID,
		Loan:                  p.LoanID,
		PaymentAmount:         p.Amount,
		PaymentDueDate:        p.DueDate.Format(time.DateOnly),
		PaymentStatus:         string(p.Status),
		PaymentStatusChanged:  p.StatusChangedAt,
		LatePaymentFeesAmount: p.LateFee,
		IsLatePayment:         p.IsLatePayment,
		Created:               p.CreatedAt,
		Modified:              p.UpdatedAt,
	}
}
