package wallet

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"p2p-lending/internal/domain/apperr"
	"p2p-lending/internal/domain/event"
	"p2p-lending/internal/domain/money"
	"p2p-lending/internal/domain/transfer"
	"p2p-lending/internal/domain/uow"
	domainWallet "p2p-lending/internal/domain/wallet"
	"p2p-lending/internal/infrastructure/metrics"
	"p2p-lending/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
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

func (u *Usecase) Get(ctx context.Context, userID string) (*WalletDTO, error) {
	var dto *WalletDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		w, err := r.Wallets.GetByUserID(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("wallet for user %s not found", userID)
		}
		if err != nil {
			return err
		}
		dto = &WalletDTO{UserID: w.UserID, Balance: w.Balance, Currency: w.Currency, UpdatedAt: w.UpdatedAt}
		return nil
	})
	return dto, err
}

// Deposit credits money entering the platform and records an add_money
// transfer.
func (u *Usecase) Deposit(ctx context.Context, userID string, in MoneyInput) (*BalanceDTO, error) {
	return u.move(ctx, userID, in, transfer.TypeAddMoney)
}

// Withdraw debits money leaving the platform and records a withdrawal
// transfer.
func (u *Usecase) Withdraw(ctx context.Context, userID string, in MoneyInput) (*BalanceDTO, error) {
	return u.move(ctx, userID, in, transfer.TypeWithdrawal)
}

func (u *Usecase) move(ctx context.Context, userID string, in MoneyInput, kind transfer.Type) (*BalanceDTO, error) {
	if err := money.Positive("amount", in.Amount); err != nil {
		return nil, err
	}

	var balance decimal.Decimal
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		locked, err := r.Wallets.LockByUserIDs(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("wallet for user %s not found", userID)
		}
		if err != nil {
			return err
		}
		w := locked[userID]

		t := &transfer.Transfer{
			TransferID: id.NewID32(),
			UserID:     userID,
			Type:       kind,
			Status:     transfer.StatusCompleted,
			Amount:     in.Amount,
		}
		if kind == transfer.TypeWithdrawal {
			balance, err = domainWallet.Debit(ctx, r.Wallets, w, in.Amount)
			t.FromUserID = userID
		} else {
			balance, err = domainWallet.Credit(ctx, r.Wallets, w, in.Amount)
			t.ToUserID = userID
		}
		if err != nil {
			return err
		}
		return r.Transfers.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	key := event.WalletDeposit
	if kind == transfer.TypeWithdrawal {
		key = event.WalletWithdraw
	}
	u.metrics.ObserveWalletMovement(string(kind))
	event.Emit(ctx, u.pub, u.log, key, event.WalletEvent{
		UserID:    userID,
		Amount:    in.Amount,
		Balance:   balance,
		Timestamp: u.now().UTC(),
	})
	return &BalanceDTO{Balance: balance}, nil
}

// History lists transfers the user initiated, sent or received, newest
// first.
func (u *Usecase) History(ctx context.Context, userID string) ([]TransferDTO, error) {
	var out []TransferDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		ts, err := r.Transfers.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		out = make([]TransferDTO, 0, len(ts))
		for _, t := range ts {
			out = append(out, TransferDTO{
				TransferID:    t.TransferID,
				Amount:        t.Amount,
				Type:          string(t.Type),
				Status:        string(t.Status),
				FromAccount:   t.FromUserID,
				ToAccount:     t.ToUserID,
				LoanID:        t.LoanID,
				LoanRequestID: t.LoanRequestID,
				Created:       t.CreatedAt,
			})
		}
		return nil
	})
	return out, err
}
