package uowmock

import (
	"context"
	"errors"
	"testing"

	"p2p-lending/internal/domain/offer"
	"p2p-lending/internal/domain/payment"
	"p2p-lending/internal/domain/uow"
	"p2p-lending/internal/testutil/loanmock"
	"p2p-lending/internal/testutil/offermock"
)

type paymentsStub struct {
	payment.Repository
	got string
}

func (s *paymentsStub) GetByPaymentIDForUpdate(_ context.Context, paymentID string) (*payment.Payment, error) {
	s.got = paymentID
	return &payment.Payment{PaymentID: paymentID}, nil
}

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()

	loans := &loanmock.Repo{}
	offers := &offermock.Repo{}
	repos := uow.Repos{Loans: loans, Offers: offers}

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			if fn == nil {
				t.Fatalf("WithinTx: fn is nil")
			}
			// simulate transaction body
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Loans != loans || r.Offers != offers {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_WithinTx_PropagatesError(t *testing.T) {
	ctx := context.Background()
	sentinel := errors.New("boom")

	m := &UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error {
			return sentinel
		},
	}
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_Default_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := &UoW{} // no funcs set
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	if err := m.WithinPaymentTx(ctx, "PM-X", func(uow.Repos, *payment.Payment) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinPaymentTx default: want errUnimplemented, got %v", err)
	}
}

func TestUoW_WithinPaymentTx_Happy(t *testing.T) {
	ctx := context.Background()
	lock := &payment.Payment{ID: 7, PaymentID: "PM-7"}
	offers := &offermock.Repo{}

	m := &UoW{
		WithinPaymentTxFn: func(gotCtx context.Context, paymentID string, fn func(r uow.Repos, p *payment.Payment) error) error {
			if paymentID != "PM-7" {
				t.Fatalf("WithinPaymentTx: paymentID mismatch, got %s", paymentID)
			}
			return fn(uow.Repos{Offers: offers}, lock)
		},
	}

	innerCalled := false
	err := m.WithinPaymentTx(ctx, "PM-7", func(r uow.Repos, p *payment.Payment) error {
		innerCalled = true
		if r.Offers != offers {
			t.Fatalf("WithinPaymentTx: repos not forwarded")
		}
		if p != lock {
			t.Fatalf("WithinPaymentTx: payment not forwarded: %+v", p)
		}
		return nil
	})
	if err != nil || !innerCalled {
		t.Fatalf("WithinPaymentTx: err=%v called=%v", err, innerCalled)
	}
}

func TestPassthrough_LocksPaymentFirst(t *testing.T) {
	ctx := context.Background()
	stub := &paymentsStub{}
	m := Passthrough(uow.Repos{Payments: stub, Offers: &offermock.Repo{}})

	err := m.WithinPaymentTx(ctx, "PM-9", func(r uow.Repos, p *payment.Payment) error {
		if p.PaymentID != "PM-9" {
			t.Fatalf("unexpected payment %+v", p)
		}
		_, err := r.Offers.GetByOfferID(ctx, "OF-1")
		return err
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want default offermock error, got %v", err)
	}
	if stub.got != "PM-9" {
		t.Fatalf("payment lock not taken, got %q", stub.got)
	}

	var seen *offer.Offer
	if err := m.WithinTx(ctx, func(r uow.Repos) error { seen = &offer.Offer{}; return nil }); err != nil || seen == nil {
		t.Fatalf("WithinTx passthrough failed: %v", err)
	}
}

func TestUoW_FluentSetters_And_Reset(t *testing.T) {
	m := New()
	if m.WithinTxFn != nil || m.WithinPaymentTxFn != nil {
		t.Fatalf("New should start with nil funcs")
	}

	// set via fluent setters
	m.WithWithinTx(func(context.Context, func(uow.Repos) error) error { return nil }).
		WithWithinPaymentTx(func(context.Context, string, func(uow.Repos, *payment.Payment) error) error { return nil })

	if m.WithinTxFn == nil || m.WithinPaymentTxFn == nil {
		t.Fatalf("fluent setters didn't assign funcs")
	}

	// reset clears funcs
	m.Reset()
	if m.WithinTxFn != nil || m.WithinPaymentTxFn != nil {
		t.Fatalf("Reset should clear function fields")
	}
}
