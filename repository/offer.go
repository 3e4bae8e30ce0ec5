package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/VishalDET/ASG/model"
)

// Offer ...
type Offer interface {
	FindOffersEligibleFor(
		ctx context.Context, targetings []model.Targeting, now time.Time,
	) ([]model.Offer, error)
	GetOffer(ctx context.Context, offerID int64) (model.NullOffer, error)
	GetOffers(ctx context.Context) ([]model.Offer, error)
	InsertOffer(ctx context.Context, offer model.Offer) (int64, error)
	UpdateOffer(ctx context.Context, offer model.Offer) error
	UpdateOfferStatus(ctx context.Context, offerID int64, status model.OfferStatus) error
	IncrementAllotted(ctx context.Context, offerID int64) error
	IncrementRevealed(ctx context.Context, offerID int64) error
	IncrementRedeemed(ctx context.Context, offerID int64) error
}

type offerImpl struct {
}

// NewOffer ...
func NewOffer() Offer {
	return &offerImpl{}
}

const offerColumns = `
id, title, description, status, weight, targeting,
discount_type, discount_value, start_date, end_date,
allotted_count, revealed_count, redeemed_count
`

// FindOffersEligibleFor ...
func (o *offerImpl) FindOffersEligibleFor(
	ctx context.Context, targetings []model.Targeting, now time.Time,
) ([]model.Offer, error) {
	query := `
SELECT ` + offerColumns + `
FROM offer
WHERE status = ? AND start_date <= ? AND end_date >= ? AND targeting IN (?)
`
	query, args, err := sqlx.In(query, model.OfferStatusActive, now, now, targetings)
	if err != nil {
		return nil, err
	}

	var result []model.Offer
	err = GetReadonly(ctx).SelectContext(ctx, &result, query, args...)
	return result, err
}

// GetOffer ...
func (o *offerImpl) GetOffer(ctx context.Context, offerID int64) (model.NullOffer, error) {
	query := `SELECT ` + offerColumns + ` FROM offer WHERE id = ?`

	var offer model.Offer
	err := GetReadonly(ctx).GetContext(ctx, &offer, query, offerID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NullOffer{}, nil
	}
	if err != nil {
		return model.NullOffer{}, err
	}
	return model.NullOffer{Valid: true, Offer: offer}, nil
}

// GetOffers ...
func (o *offerImpl) GetOffers(ctx context.Context) ([]model.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offer ORDER BY id`

	var result []model.Offer
	err := GetReadonly(ctx).SelectContext(ctx, &result, query)
	return result, err
}

// InsertOffer ...
func (o *offerImpl) InsertOffer(ctx context.Context, offer model.Offer) (int64, error) {
	query := `
INSERT INTO offer (
	title, description, status, weight, targeting,
	discount_type, discount_value, start_date, end_date
) VALUES (
	:title, :description, :status, :weight, :targeting,
	:discount_type, :discount_value, :start_date, :end_date
)
`
	result, err := GetTx(ctx).NamedExecContext(ctx, query, offer)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateOffer ...
func (o *offerImpl) UpdateOffer(ctx context.Context, offer model.Offer) error {
	query := `
UPDATE offer
SET title = :title,
	description = :description,
	status = :status,
	weight = :weight,
	targeting = :targeting,
	discount_type = :discount_type,
	discount_value = :discount_value,
	start_date = :start_date,
	end_date = :end_date
WHERE id = :id
`
	_, err := GetTx(ctx).NamedExecContext(ctx, query, offer)
	return err
}

// UpdateOfferStatus ...
func (o *offerImpl) UpdateOfferStatus(
	ctx context.Context, offerID int64, status model.OfferStatus,
) error {
	query := `UPDATE offer SET status = ? WHERE id = ?`
	_, err := GetTx(ctx).ExecContext(ctx, query, status, offerID)
	return err
}

// IncrementAllotted ...
func (o *offerImpl) IncrementAllotted(ctx context.Context, offerID int64) error {
	query := `UPDATE offer SET allotted_count = allotted_count + 1 WHERE id = ?`
	_, err := GetTx(ctx).ExecContext(ctx, query, offerID)
	return err
}

// IncrementRevealed ...
func (o *offerImpl) IncrementRevealed(ctx context.Context, offerID int64) error {
	query := `UPDATE offer SET revealed_count = revealed_count + 1 WHERE id = ?`
	_, err := GetTx(ctx).ExecContext(ctx, query, offerID)
	return err
}

// IncrementRedeemed ...
func (o *offerImpl) IncrementRedeemed(ctx context.Context, offerID int64) error {
	query := `UPDATE offer SET redeemed_count = redeemed_count + 1 WHERE id = ?`
	_, err := GetTx(ctx).ExecContext(ctx, query, offerID)
	return err
}
