package loanrequest

import "context"

type Repository interface {
	Create(ctx context.Context, r *LoanRequest) error
	GetByRequestID(ctx context.Context, requestID string) (*LoanRequest, error)
	GetActiveByRequestID(ctx context.Context, requestID string) (*LoanRequest, error)
	GetByRequestIDForUpdate(ctx context.Context, requestID string) (*LoanRequest, error)
	ListActive(ctx context.Context) ([]LoanRequest, error)
	Deactivate(ctx context.Context, r *LoanRequest) error
	Delete(ctx context.Context, r *LoanRequest) error
}

// Cache is the external read-through view of active loan requests. Every
// Invalidate bumps a generation; Set writes only when the generation it is
// given is still current, so a fill that raced an invalidation is dropped.
type Cache interface {
	// Get returns the cached set, the current generation and whether it hit.
	Get(ctx context.Context) ([]LoanRequest, int64, bool, error)
	// Set stores list if gen is still current and reports whether it wrote.
	Set(ctx context.Context, gen int64, list []LoanRequest) (bool, error)
	Invalidate(ctx context.Context) error
}
