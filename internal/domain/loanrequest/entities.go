package loanrequest

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LoanRequest struct {
	ID                    uint64          `gorm:"primaryKey;column:id" json:"-"`
	RequestID             string          `gorm:"size:32;not null;uniqueIndex:ux_loan_requests_request_id" json:"id"`
	BorrowerID            string          `gorm:"size:32;not null;index:idx_loan_requests_borrower" json:"borrower"`
	RequestedAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"requested_amount"`
	RepaymentPeriodMonths int             `gorm:"not null" json:"repayment_period_months"`
	IsActive              bool            `gorm:"not null;index:idx_loan_requests_active" json:"is_active"`
	CreatedAt             time.Time       `gorm:"autoCreateTime" json:"created"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"updated"`
	DeletedAt             gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (LoanRequest) TableName() string { return "loan_requests" }
