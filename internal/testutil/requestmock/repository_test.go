package requestmock

import (
	"context"
	"errors"
	"testing"

	domain "p2p-lending/internal/domain/loanrequest"
)

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}
	r := &domain.LoanRequest{RequestID: "RQ-1"}

	if err := m.Create(ctx, r); err != nil {
		t.Fatalf("Create default: %v", err)
	}
	if err := m.Deactivate(ctx, r); err != nil {
		t.Fatalf("Deactivate default: %v", err)
	}
	if err := m.Delete(ctx, r); err != nil {
		t.Fatalf("Delete default: %v", err)
	}
	if _, err := m.GetByRequestID(ctx, "RQ-1"); err != context.Canceled {
		t.Fatalf("GetByRequestID default: %v", err)
	}
	if _, err := m.GetActiveByRequestID(ctx, "RQ-1"); err != context.Canceled {
		t.Fatalf("GetActiveByRequestID default: %v", err)
	}
	if _, err := m.GetByRequestIDForUpdate(ctx, "RQ-1"); err != context.Canceled {
		t.Fatalf("GetByRequestIDForUpdate default: %v", err)
	}
	if _, err := m.ListActive(ctx); err != context.Canceled {
		t.Fatalf("ListActive default: %v", err)
	}
}

func TestRepo_UsesFuncs(t *testing.T) {
	ctx := context.Background()
	want := &domain.LoanRequest{RequestID: "RQ-2"}
	wantErr := errors.New("boom")
	m := &Repo{
		GetActiveByRequestIDFn: func(_ context.Context, id string) (*domain.LoanRequest, error) {
			if id != "RQ-2" {
				t.Fatalf("id mismatch: %s", id)
			}
			return want, nil
		},
		CreateFn: func(context.Context, *domain.LoanRequest) error { return wantErr },
	}
	if got, err := m.GetActiveByRequestID(ctx, "RQ-2"); err != nil || got != want {
		t.Fatalf("GetActiveByRequestID: got %+v, %v", got, err)
	}
	if err := m.Create(ctx, want); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
}

func TestCache_CountsInvalidations(t *testing.T) {
	ctx := context.Background()
	c := &Cache{}
	if _, _, ok, err := c.Get(ctx); ok || err != nil {
		t.Fatalf("default Get should miss: ok=%v err=%v", ok, err)
	}
	_ = c.Invalidate(ctx)
	_ = c.Invalidate(ctx)
	if c.Invalidations != 2 {
		t.Fatalf("Invalidations = %d", c.Invalidations)
	}
}
