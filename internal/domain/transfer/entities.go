package transfer

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeFundLoan       Type = "fund_loan"
	TypeMonthlyPayment Type = "monthly_payment"
	TypeAddMoney       Type = "add_money"
	TypeWithdrawal     Type = "withdrawal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Transfer is an append-only ledger entry. From/To are user ids; an empty
// side means money entering or leaving the platform. Loan and loan request
// references use public ids.
type Transfer struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	TransferID    string          `gorm:"size:32;not null;uniqueIndex:ux_transfers_transfer_id" json:"transfer_id"`
	UserID        string          `gorm:"size:32;not null;index:idx_transfers_user" json:"user_id"`
	Type          Type            `gorm:"size:20;not null" json:"transfer_type"`
	Status        Status          `gorm:"size:20;not null" json:"transfer_status"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	FromUserID    string          `gorm:"size:32;index:idx_transfers_from" json:"from_account,omitempty"`
	ToUserID      string          `gorm:"size:32;index:idx_transfers_to" json:"to_account,omitempty"`
	LoanID        string          `gorm:"size:32;index:idx_transfers_loan" json:"loan_id,omitempty"`
	LoanRequestID string          `gorm:"size:32" json:"loan_request_id,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created"`
}

func (Transfer) TableName() string { return "transfers" }
