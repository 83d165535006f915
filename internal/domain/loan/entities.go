package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	// StatusPending is reserved for a pre-funding stage; loans are created funded.
	StatusPending   Status = "pending"
	StatusFunded    Status = "funded"
	StatusCompleted Status = "completed"
)

// Loan terms are frozen from the accepted offer.
type Loan struct {
	ID                 uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID             string          `gorm:"size:32;not null;uniqueIndex:ux_loans_loan_id" json:"id"`
	BorrowerID         string          `gorm:"size:32;not null;index:idx_loans_borrower" json:"borrower"`
	LenderID           string          `gorm:"size:32;index:idx_loans_lender" json:"lender"`
	Amount             decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	DurationMonths     int             `gorm:"not null" json:"duration_months"`
	AnnualInterestRate decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"annual_interest_rate"`
	AdminFee           decimal.Decimal `gorm:"type:decimal(6,4);not null" json:"admin_fee"`
	Status             Status          `gorm:"size:20;not null" json:"status"`
	StatusUpdatedAt    time.Time       `json:"status_updated_at"`
	FundedAt           *time.Time      `json:"funded_at"`
	LoanOfferID        string          `gorm:"size:32;not null;uniqueIndex:ux_loans_loan_offer" json:"loan_offer"`
	LoanRequestID      string          `gorm:"size:32;not null" json:"loan_request"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }
