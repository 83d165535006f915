package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=64,alphanum"`
	Role     string `json:"role" validate:"required,oneof=borrower lender"`
}

type UserDTO struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterDTO struct {
	User      UserDTO         `json:"user"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}
