package loanrequest

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateInput struct {
	RequestedAmount       decimal.Decimal `json:"requested_amount"`
	RepaymentPeriodMonths int             `json:"repayment_period_months" validate:"required,gt=0,lte=360"`
}

type LoanRequestDTO struct {
	ID                    string          `json:"id"`
	Borrower              string          `json:"borrower"`
	RequestedAmount       decimal.Decimal `json:"requested_amount"`
	RepaymentPeriodMonths int             `json:"repayment_period_months"`
	IsActive              bool            `json:"is_active"`
	Created               time.Time       `json:"created"`
	Updated               time.Time       `json:"updated"`
}
