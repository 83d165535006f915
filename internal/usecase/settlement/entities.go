package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentDTO struct {
	ID                    string              `json:"id"`
	Loan                  string              `json:"loan"`
	PaymentAmount         decimal.Decimal     `json:"payment_amount"`
	PaymentDueDate        string              `json:"payment_due_date"`
	PaymentStatus         string              `json:"payment_status"`
	PaymentStatusChanged  *time.Time          `json:"payment_status_changed"`
	LatePaymentFeesAmount decimal.NullDecimal `json:"late_payment_fees_amount"`
	IsLatePayment         bool                `json:"is_late_payment"`
	Created               time.Time           `json:"created"`
	Modified              time.Time           `json:"modified"`
}

// SweepResult tallies one pass over due payments.
type SweepResult struct {
	Considered     int      `json:"considered"`
	Settled        int      `json:"settled"`
	Overdue        int      `json:"overdue"`
	Skipped        int      `json:"skipped"`
	Failed         int      `json:"failed"`
	CompletedLoans []string `json:"completed_loans,omitempty"`
}
