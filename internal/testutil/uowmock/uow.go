package uowmock

import (
	"context"
	"errors"

	"p2p-lending/internal/domain/payment"
	"p2p-lending/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn        func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinPaymentTxFn func(ctx context.Context, paymentID string, fn func(r uow.Repos, p *payment.Payment) error) error
}

// Passthrough runs every body against repos without a real transaction.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinPaymentTxFn: func(ctx context.Context, paymentID string, fn func(uow.Repos, *payment.Payment) error) error {
			p, err := repos.Payments.GetByPaymentIDForUpdate(ctx, paymentID)
			if err != nil {
				return err
			}
			return fn(repos, p)
		},
	}
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinPaymentTx(fn func(context.Context, string, func(uow.Repos, *payment.Payment) error) error) *UoW {
	m.WithinPaymentTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinPaymentTx(ctx context.Context, paymentID string, fn func(r uow.Repos, p *payment.Payment) error) error {
	if m.WithinPaymentTxFn != nil {
		return m.WithinPaymentTxFn(ctx, paymentID, fn)
	}
	return errUnimplemented
}
