package offer

import (
	"github.com/shopspring/decimal"
)

var (
	one              = decimal.NewFromInt(1)
	monthsPerYearPct = decimal.NewFromInt(1200)
)

// MonthlyPayment is the equal installment of an amortized annuity:
//
//	M = P * r(1+r)^n / ((1+r)^n - 1),  r = annualRate/100/12
//
// rounded to cents. A zero rate degenerates to P/n, left unrounded.
func MonthlyPayment(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	n := decimal.NewFromInt(int64(months))
	r := annualRate.Div(monthsPerYearPct)
	if r.IsZero() {
		return principal.Div(n)
	}
	growth := one.Add(r).Pow(n)
	return principal.Mul(r).Mul(growth).Div(growth.Sub(one)).Round(2)
}

// TotalRepayable is every installment plus the admin fee on the principal.
func TotalRepayable(monthly decimal.Decimal, months int, principal, adminFee decimal.Decimal) decimal.Decimal {
	return monthly.Mul(decimal.NewFromInt(int64(months))).
		Add(principal.Mul(adminFee)).
		Round(2)
}

// SolvencyFloor is the balance a lender must hold to make any offer on a
// request: the requested amount grossed up by the processing fee.
func SolvencyFloor(requested, processingFee decimal.Decimal) decimal.Decimal {
	return requested.Mul(one.Add(processingFee)).Round(2)
}
