package requestmock

import (
	"context"

	domain "p2p-lending/internal/domain/loanrequest"
)

var (
	_ domain.Repository = (*Repo)(nil)
	_ domain.Cache      = (*Cache)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a nil error, reads to context.Canceled.
type Repo struct {
	CreateFn                  func(ctx context.Context, r *domain.LoanRequest) error
	GetByRequestIDFn          func(ctx context.Context, requestID string) (*domain.LoanRequest, error)
	GetActiveByRequestIDFn    func(ctx context.Context, requestID string) (*domain.LoanRequest, error)
	GetByRequestIDForUpdateFn func(ctx context.Context, requestID string) (*domain.LoanRequest, error)
	ListActiveFn              func(ctx context.Context) ([]domain.LoanRequest, error)
	DeactivateFn              func(ctx context.Context, r *domain.LoanRequest) error
	DeleteFn                  func(ctx context.Context, r *domain.LoanRequest) error
}

func (m *Repo) Create(ctx context.Context, r *domain.LoanRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByRequestID(ctx context.Context, requestID string) (*domain.LoanRequest, error) {
	if m.GetByRequestIDFn != nil {
		return m.GetByRequestIDFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetActiveByRequestID(ctx context.Context, requestID string) (*domain.LoanRequest, error) {
	if m.GetActiveByRequestIDFn != nil {
		return m.GetActiveByRequestIDFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*domain.LoanRequest, error) {
	if m.GetByRequestIDForUpdateFn != nil {
		return m.GetByRequestIDForUpdateFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListActive(ctx context.Context) ([]domain.LoanRequest, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) Deactivate(ctx context.Context, r *domain.LoanRequest) error {
	if m.DeactivateFn != nil {
		return m.DeactivateFn(ctx, r)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, r *domain.LoanRequest) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, r)
	}
	return nil
}

// Cache is a function-backed domain.Cache. With no funcs set it always
// misses and uses the invalidation count as its generation.
type Cache struct {
	GetFn         func(ctx context.Context) ([]domain.LoanRequest, int64, bool, error)
	SetFn         func(ctx context.Context, gen int64, list []domain.LoanRequest) (bool, error)
	InvalidateFn  func(ctx context.Context) error
	Invalidations int
}

func (c *Cache) Get(ctx context.Context) ([]domain.LoanRequest, int64, bool, error) {
	if c.GetFn != nil {
		return c.GetFn(ctx)
	}
	return nil, int64(c.Invalidations), false, nil
}

func (c *Cache) Set(ctx context.Context, gen int64, list []domain.LoanRequest) (bool, error) {
	if c.SetFn != nil {
		return c.SetFn(ctx, gen, list)
	}
	return gen == int64(c.Invalidations), nil
}

func (c *Cache) Invalidate(ctx context.Context) error {
	c.Invalidations++
	if c.InvalidateFn != nil {
		return c.InvalidateFn(ctx)
	}
	return nil
}
