package funding

import (
	"context"
	"errors"

	"p2p-lending/internal/domain/apperr"
	"p2p-lending/internal/domain/loanrequest"
	"p2p-lending/internal/domain/offer"
	"p2p-lending/internal/domain/uow"
	"p2p-lending/internal/domain/user"

	"gorm.io/gorm"
)

// LockForResponse resolves offerID and takes the request lock before the
// offer lock. It fails NotFound for an unknown offer, Forbidden when actor
// does not own the request or the request is no longer active, and
// Conflict when the offer has already left pending.
func LockForResponse(ctx context.Context, r uow.Repos, actor user.Identity, offerID string) (*loanrequest.LoanRequest, *offer.Offer, error) {
	peek, err := r.Offers.GetByOfferID(ctx, offerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperr.NotFound("loan offer %s not found", offerID)
	}
	if err != nil {
		return nil, nil, err
	}

	req, err := r.LoanRequests.GetByRequestIDForUpdate(ctx, peek.LoanRequestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperr.NotFound("loan request %s not found", peek.LoanRequestID)
	}
	if err != nil {
		return nil, nil, err
	}
	if req.BorrowerID != actor.UserID {
		return nil, nil, apperr.Forbidden("loan request %s belongs to another borrower", req.RequestID)
	}
	if !req.IsActive {
		return nil, nil, apperr.Forbidden("loan request %s is no longer active", req.RequestID)
	}

	o, err := r.Offers.GetByOfferIDForUpdate(ctx, offerID)
	if err != nil {
		return nil, nil, err
	}
	if o.Status != offer.StatusPending {
		return nil, nil, apperr.Conflict("loan offer %s is already %s", o.OfferID, o.Status)
	}
	return req, o, nil
}
