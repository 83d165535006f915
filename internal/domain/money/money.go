package money

import (
	"p2p-lending/internal/domain/apperr"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every stored amount carries.
const Scale = 2

// Positive rejects zero, negative and sub-cent amounts for field.
func Positive(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return apperr.Validation(field, "must be greater than 0")
	}
	if !d.Equal(d.Round(Scale)) {
		return apperr.Validation(field, "must have at most %d decimal places", Scale)
	}
	return nil
}
