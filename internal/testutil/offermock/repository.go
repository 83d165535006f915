package offermock

import (
	"context"

	domain "p2p-lending/internal/domain/offer"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a nil error, reads to context.Canceled.
type Repo struct {
	CreateFn                func(ctx context.Context, o *domain.Offer) error
	GetByOfferIDFn          func(ctx context.Context, offerID string) (*domain.Offer, error)
	GetByOfferIDForUpdateFn func(ctx context.Context, offerID string) (*domain.Offer, error)
	ListByLenderFn          func(ctx context.Context, lenderID string) ([]domain.Offer, error)
	ListByBorrowerFn        func(ctx context.Context, borrowerID string) ([]domain.Offer, error)
	ListByRequestFn         func(ctx context.Context, requestID string) ([]domain.Offer, error)
	SaveFn                  func(ctx context.Context, o *domain.Offer) error
	RejectSiblingsFn        func(ctx context.Context, requestID, acceptedOfferID string) (int64, error)
}

func (m *Repo) Create(ctx context.Context, o *domain.Offer) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, o)
	}
	return nil
}

func (m *Repo) GetByOfferID(ctx context.Context, offerID string) (*domain.Offer, error) {
	if m.GetByOfferIDFn != nil {
		return m.GetByOfferIDFn(ctx, offerID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByOfferIDForUpdate(ctx context.Context, offerID string) (*domain.Offer, error) {
	if m.GetByOfferIDForUpdateFn != nil {
		return m.GetByOfferIDForUpdateFn(ctx, offerID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByLender(ctx context.Context, lenderID string) ([]domain.Offer, error) {
	if m.ListByLenderFn != nil {
		return m.ListByLenderFn(ctx, lenderID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByBorrower(ctx context.Context, borrowerID string) ([]domain.Offer, error) {
	if m.ListByBorrowerFn != nil {
		return m.ListByBorrowerFn(ctx, borrowerID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByRequest(ctx context.Context, requestID string) ([]domain.Offer, error) {
	if m.ListByRequestFn != nil {
		return m.ListByRequestFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, o *domain.Offer) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, o)
	}
	return nil
}

func (m *Repo) RejectSiblings(ctx context.Context, requestID, acceptedOfferID string) (int64, error) {
	if m.RejectSiblingsFn != nil {
		return m.RejectSiblingsFn(ctx, requestID, acceptedOfferID)
	}
	return 0, nil
}
