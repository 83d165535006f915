package wallet

import (
	"time"

	"p2p-lending/internal/domain/apperr"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "USD"

type Wallet struct {
	ID        uint64          `gorm:"primaryKey;column:id" json:"-"`
	UserID    string          `gorm:"size:32;not null;uniqueIndex:ux_wallets_user_id" json:"user_id"`
	Balance   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"balance"`
	Currency  string          `gorm:"size:3;not null" json:"currency"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Wallet) TableName() string { return "wallets" }

// New returns the zero-balance wallet provisioned alongside a user.
func New(userID, currency string) *Wallet {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Wallet{UserID: userID, Balance: decimal.Zero, Currency: currency}
}

// Credit adds amount to the in-memory balance.
func (w *Wallet) Credit(amount decimal.Decimal) {
	w.Balance = w.Balance.Add(amount)
}

// Debit subtracts amount, refusing to take the balance below zero.
func (w *Wallet) Debit(amount decimal.Decimal) error {
	if amount.GreaterThan(w.Balance) {
		return apperr.InsufficientFunds("insufficient funds: balance %s, required %s",
			w.Balance.StringFixed(2), amount.StringFixed(2))
	}
	w.Balance = w.Balance.Sub(amount)
	return nil
}
