package offer

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

type Offer struct {
	ID                   uint64          `gorm:"primaryKey;column:id" json:"-"`
	OfferID              string          `gorm:"size:32;not null;uniqueIndex:ux_loan_offers_offer_id" json:"id"`
	LoanRequestID        string          `gorm:"size:32;not null;index:idx_loan_offers_request" json:"loan_request"`
	LenderID             string          `gorm:"size:32;not null;index:idx_loan_offers_lender" json:"lender"`
	OfferedAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"offered_amount"`
	InterestRate         decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"interest_rate"`
	AdminFee             decimal.Decimal `gorm:"type:decimal(6,4);not null" json:"admin_fee"`
	MonthlyPayment       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"monthly_payment"`
	TotalRepayableAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_repayable_amount"`
	Status               Status          `gorm:"size:20;not null" json:"offer_status"`
	StatusUpdatedAt      time.Time       `json:"status_updated_at"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Offer) TableName() string { return "loan_offers" }

// FundingTotal is what the lender pays on acceptance: the principal plus
// the platform-retained admin fee.
func (o *Offer) FundingTotal() decimal.Decimal {
	return o.OfferedAmount.Mul(decimal.NewFromInt(1).Add(o.AdminFee)).Round(2)
}
