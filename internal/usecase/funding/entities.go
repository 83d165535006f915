package funding

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanDTO struct {
	ID                 string          `json:"id"`
	Borrower           string          `json:"borrower"`
	Lender             string          `json:"lender"`
	Amount             decimal.Decimal `json:"amount"`
	DurationMonths     int             `json:"duration_months"`
	AnnualInterestRate decimal.Decimal `json:"annual_interest_rate"`
	AdminFee           decimal.Decimal `json:"admin_fee"`
	Status             string          `json:"status"`
	FundedAt           *time.Time      `json:"funded_at"`
	LoanOffer          string          `json:"loan_offer"`
	LoanRequest        string          `json:"loan_request"`
	MonthlyPayment     decimal.Decimal `json:"monthly_payment"`
	Debited            decimal.Decimal `json:"debited"`
	Installments       int             `json:"installments"`
}
