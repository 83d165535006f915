package loanmock

import (
	"context"
	"errors"
	"testing"

	domain "p2p-lending/internal/domain/loan"
)

func TestRepo_Create(t *testing.T) {
	ctx := context.Background()
	l := &domain.Loan{LoanID: "LN-1"}

	// Uses provided func
	called := false
	wantErr := errors.New("boom")
	m := &Repo{
		CreateFn: func(gotCtx context.Context, got *domain.Loan) error {
			called = true
			if gotCtx != ctx {
				t.Fatalf("Create ctx mismatch")
			}
			if got != l {
				t.Fatalf("Create arg mismatch")
			}
			return wantErr
		},
	}
	if err := m.Create(ctx, l); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("CreateFn not called")
	}

	// Default (nil func) → no-op, nil error
	m = &Repo{}
	if err := m.Create(ctx, l); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
}

func TestRepo_GetByLoanID(t *testing.T) {
	ctx := context.Background()
	want := &domain.Loan{LoanID: "LN-2"}

	m := &Repo{
		GetByLoanIDFn: func(_ context.Context, loanID string) (*domain.Loan, error) {
			if loanID != "LN-2" {
				t.Fatalf("GetByLoanID loanID mismatch: got %s", loanID)
			}
			return want, nil
		},
	}
	got, err := m.GetByLoanID(ctx, "LN-2")
	if err != nil || got != want {
		t.Fatalf("GetByLoanID: got %+v, %v", got, err)
	}

	// Default (nil func) → context.Canceled
	m = &Repo{}
	got, err = m.GetByLoanID(ctx, "LN-2")
	if err != context.Canceled || got != nil {
		t.Fatalf("GetByLoanID default: got %+v, %v", got, err)
	}
}

func TestRepo_GetByLoanIDForUpdate(t *testing.T) {
	ctx := context.Background()
	want := &domain.Loan{LoanID: "LN-5"}

	called := false
	m := &Repo{
		GetByLoanIDForUpdateFn: func(_ context.Context, loanID string) (*domain.Loan, error) {
			called = true
			return want, nil
		},
	}
	if got, err := m.GetByLoanIDForUpdate(ctx, "LN-5"); err != nil || got != want || !called {
		t.Fatalf("GetByLoanIDForUpdate: got %+v, %v", got, err)
	}

	m = &Repo{}
	if _, err := m.GetByLoanIDForUpdate(ctx, "LN-5"); err != context.Canceled {
		t.Fatalf("GetByLoanIDForUpdate default: want context.Canceled, got %v", err)
	}
}

func TestRepo_ListByBorrower(t *testing.T) {
	ctx := context.Background()
	m := &Repo{
		ListByBorrowerFn: func(_ context.Context, borrowerID string) ([]domain.Loan, error) {
			return []domain.Loan{{BorrowerID: borrowerID}}, nil
		},
	}
	got, err := m.ListByBorrower(ctx, "BR-1")
	if err != nil || len(got) != 1 || got[0].BorrowerID != "BR-1" {
		t.Fatalf("ListByBorrower: got %+v, %v", got, err)
	}

	m = &Repo{}
	if _, err := m.ListByBorrower(ctx, "BR-1"); err != context.Canceled {
		t.Fatalf("ListByBorrower default: want context.Canceled, got %v", err)
	}
}

func TestRepo_Save(t *testing.T) {
	ctx := context.Background()
	l := &domain.Loan{LoanID: "LN-3"}

	wantErr := errors.New("save-fail")
	m := &Repo{SaveFn: func(context.Context, *domain.Loan) error { return wantErr }}
	if err := m.Save(ctx, l); !errors.Is(err, wantErr) {
		t.Fatalf("Save: want %v, got %v", wantErr, err)
	}

	// Default (nil func) → no-op, nil error
	m = &Repo{}
	if err := m.Save(ctx, l); err != nil {
		t.Fatalf("Save default: want nil, got %v", err)
	}
}
