package offer

import "context"

type Repository interface {
	Create(ctx context.Context, o *Offer) error
	GetByOfferID(ctx context.Context, offerID string) (*Offer, error)
	GetByOfferIDForUpdate(ctx context.Context, offerID string) (*Offer, error)
	ListByLender(ctx context.Context, lenderID string) ([]Offer, error)
	ListByBorrower(ctx context.Context, borrowerID string) ([]Offer, error)
	ListByRequest(ctx context.Context, requestID string) ([]Offer, error)
	Save(ctx context.Context, o *Offer) error
	// RejectSiblings moves every other offer on the request to rejected and
	// reports how many rows changed.
	RejectSiblings(ctx context.Context, requestID, acceptedOfferID string) (int64, error)
}
