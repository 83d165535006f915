package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

const (
	// InstallmentInterval separates consecutive due dates.
	InstallmentInterval = 30 * 24 * time.Hour
	intervalDays        = 30
)

var lateFeeRate = decimal.RequireFromString("0.05")

type Payment struct {
	ID              uint64              `gorm:"primaryKey;column:id" json:"-"`
	PaymentID       string              `gorm:"size:32;not null;uniqueIndex:ux_payments_payment_id" json:"id"`
	LoanID          string              `gorm:"size:32;not null;index:idx_payments_loan" json:"loan"`
	Amount          decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"payment_amount"`
	DueDate         time.Time           `gorm:"type:date;not null;index:idx_payments_due" json:"payment_due_date"`
	Status          Status              `gorm:"size:20;not null;index:idx_payments_status" json:"payment_status"`
	StatusChangedAt *time.Time          `json:"payment_status_changed"`
	LateFee         decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"late_payment_fees_amount"`
	IsLatePayment   bool                `gorm:"not null" json:"is_late_payment"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"created"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime" json:"modified"`
}

func (Payment) TableName() string { return "payments" }

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Schedule builds months pending installments of amount for loanID, the
// first due 30 days after fundedAt and each following one 30 days later.
// newID supplies public ids.
func Schedule(loanID string, amount decimal.Decimal, months int, fundedAt time.Time, newID func() string) []*Payment {
	start := DateOf(fundedAt)
	out := make([]*Payment, 0, months)
	for k := 1; k <= months; k++ {
		out = append(out, &Payment{
			PaymentID: newID(),
			LoanID:    loanID,
			Amount:    amount,
			DueDate:   start.AddDate(0, 0, intervalDays*k),
			Status:    StatusPending,
		})
	}
	return out
}

// MarkPaid transitions the installment to paid at now, flagging it late
// when the due date precedes now's calendar date and recording the late
// fee once.
func (p *Payment) MarkPaid(now time.Time) {
	now = now.UTC()
	p.Status = StatusPaid
	p.StatusChangedAt = &now
	p.IsLatePayment = DateOf(p.DueDate).Before(DateOf(now))
	if p.IsLatePayment && !p.LateFee.Valid {
		p.LateFee = decimal.NewNullDecimal(p.Amount.Mul(lateFeeRate).Round(2))
	}
}

func (p *Payment) MarkOverdue(now time.Time) {
	now = now.UTC()
	p.Status = StatusOverdue
	p.StatusChangedAt = &now
}
