package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

type MoneyInput struct {
	Amount decimal.Decimal `json:"amount"`
}

type WalletDTO struct {
	UserID    string          `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type BalanceDTO struct {
	Balance decimal.Decimal `json:"balance"`
}

type TransferDTO struct {
	TransferID    string          `json:"transfer_id"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"transfer_type"`
	Status        string          `json:"transfer_status"`
	FromAccount   string          `json:"from_account,omitempty"`
	ToAccount     string          `json:"to_account,omitempty"`
	LoanID        string          `json:"loan_id,omitempty"`
	LoanRequestID string          `json:"loan_request_id,omitempty"`
	Created       time.Time       `json:"created"`
}
