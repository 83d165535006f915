package offer

import (
	"time"

	"p2p-lending/internal/usecase/funding"

	"github.com/shopspring/decimal"
)

const (
	ActionAccept = "accept"
	ActionReject = "reject"

	OffersTypeOffered  = "offered"
	OffersTypeReceived = "received"
)

type CreateInput struct {
	LoanRequestID string          `json:"loan_request" validate:"required,hex32"`
	OfferedAmount decimal.Decimal `json:"offered_amount"`
	InterestRate  decimal.Decimal `json:"interest_rate"`
}

type OfferDTO struct {
	ID                   string          `json:"id"`
	LoanRequest          string          `json:"loan_request"`
	Lender               string          `json:"lender"`
	OfferedAmount        decimal.Decimal `json:"offered_amount"`
	InterestRate         decimal.Decimal `json:"interest_rate"`
	AdminFee             decimal.Decimal `json:"admin_fee"`
	MonthlyPayment       decimal.Decimal `json:"monthly_payment"`
	TotalRepayableAmount decimal.Decimal `json:"total_repayable_amount"`
	Status               string          `json:"offer_status"`
	StatusUpdatedAt      time.Time       `json:"status_updated_at"`
	Created              time.Time       `json:"created"`
}

type ListDTO struct {
	OffersType string     `json:"offers_type"`
	Offers     []OfferDTO `json:"offers"`
}

type RespondDTO struct {
	Message string           `json:"message"`
	Loan    *funding.LoanDTO `json:"loan,omitempty"`
}
