package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// Routing keys for ledger events, published after the owning transaction
// commits.
const (
	LoanFunded     = "loan.funded"
	LoanCompleted  = "loan.completed"
	PaymentSettled = "payment.settled"
	PaymentOverdue = "payment.overdue"
	WalletDeposit  = "wallet.deposit"
	WalletWithdraw = "wallet.withdrawal"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type LoanFundedEvent struct {
	LoanID     string          `json:"loan_id"`
	OfferID    string          `json:"offer_id"`
	RequestID  string          `json:"loan_request_id"`
	BorrowerID string          `json:"borrower_id"`
	LenderID   string          `json:"lender_id"`
	Principal  decimal.Decimal `json:"principal"`
	Debited    decimal.Decimal `json:"debited"`
	Timestamp  time.Time       `json:"timestamp"`
}

type PaymentEvent struct {
	PaymentID  string          `json:"payment_id"`
	LoanID     string          `json:"loan_id"`
	BorrowerID string          `json:"borrower_id"`
	LenderID   string          `json:"lender_id"`
	Amount     decimal.Decimal `json:"amount"`
	Late       bool            `json:"late"`
	Timestamp  time.Time       `json:"timestamp"`
}

type WalletEvent struct {
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
	Timestamp time.Time       `json:"timestamp"`
}

// Emit publishes after commit. A broker failure never undoes ledger state,
// so it is only logged.
func Emit(ctx context.Context, pub Publisher, log *slog.Logger, routingKey string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, routingKey, payload); err != nil {
		log.WarnContext(ctx, "event publish failed", "routing_key", routingKey, "err", err)
	}
}
