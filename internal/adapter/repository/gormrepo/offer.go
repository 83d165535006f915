package gormrepo

import (
	"context"
	"time"

	offerDomain "p2p-lending/internal/domain/offer"

	"gorm.io/gorm"
)

type OfferRepository struct{ db *gorm.DB }

func NewOfferRepository(db *gorm.DB) *OfferRepository { return &OfferRepository{db: db} }

func (r *OfferRepository) Create(ctx context.Context, o *offerDomain.Offer) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OfferRepository) GetByOfferID(ctx context.Context, offerID string) (*offerDomain.Offer, error) {
	var out offerDomain.Offer
	res := r.db.WithContext(ctx).Where("offer_id = ?", offerID).First(&out)
	return &out, res.Error
}

func (r *OfferRepository) GetByOfferIDForUpdate(ctx context.Context, offerID string) (*offerDomain.Offer, error) {
	var out offerDomain.Offer
	res := forUpdate(r.db.WithContext(ctx)).Where("offer_id = ?", offerID).First(&out)
	return &out, res.Error
}

func (r *OfferRepository) ListByLender(ctx context.Context, lenderID string) ([]offerDomain.Offer, error) {
	var out []offerDomain.Offer
	res := r.db.WithContext(ctx).Where("lender_id = ?", lenderID).Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}

func (r *OfferRepository) ListByBorrower(ctx context.Context, borrowerID string) ([]offerDomain.Offer, error) {
	var out []offerDomain.Offer
	res := r.db.WithContext(ctx).
		Select("loan_offers.*").
		Joins("JOIN loan_requests ON loan_requests.request_id = loan_offers.loan_request_id").
		Where("loan_requests.borrower_id = ?", borrowerID).
		Order("loan_offers.created_at DESC, loan_offers.id DESC").
		Find(&out)
	return out, res.Error
}

func (r *OfferRepository) ListByRequest(ctx context.Context, requestID string) ([]offerDomain.Offer, error) {
	var out []offerDomain.Offer
	res := r.db.WithContext(ctx).Where("loan_request_id = ?", requestID).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *OfferRepository) Save(ctx context.Context, o *offerDomain.Offer) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *OfferRepository) RejectSiblings(ctx context.Context, requestID, acceptedOfferID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&offerDomain.Offer{}).
		Where("loan_request_id = ? AND offer_id <> ? AND status <> ?", requestID, acceptedOfferID, offerDomain.StatusRejected).
		Updates(map[string]any{
			"status":            offerDomain.StatusRejected,
			"status_updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}
