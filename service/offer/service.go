package offer

import (
	"context"
	"errors"
	"time"

	"github.com/VishalDET/ASG/model"
	"github.com/VishalDET/ASG/repository"
)

// ErrOfferNotFound ...
var ErrOfferNotFound = errors.New("offer not found")

// ErrInvalidWindow when the validity window is empty or reversed
var ErrInvalidWindow = errors.New("offer end date before start date")

// ErrNegativeWeight ...
var ErrNegativeWeight = errors.New("offer weight must not be negative")

// ErrOfferImmutable once any coupon references the offer; only the
// status may still flip, via SetStatus
var ErrOfferImmutable = errors.New("offer already referenced by coupons, only status can change")

// Service manages the offer catalogue. An offer referenced by issued
// coupons is never hard deleted; staff flip it inactive instead.
type Service struct {
	provider  repository.Provider
	offerRepo repository.Offer
}

// NewService ...
func NewService(provider repository.Provider, offerRepo repository.Offer) *Service {
	return &Service{
		provider:  provider,
		offerRepo: offerRepo,
	}
}

func validate(offer model.Offer) error {
	if offer.Weight < 0 {
		return ErrNegativeWeight
	}
	if offer.EndDate.Before(offer.StartDate) {
		return ErrInvalidWindow
	}
	return nil
}

// Create ...
func (s *Service) Create(ctx context.Context, offer model.Offer) (model.Offer, error) {
	if err := validate(offer); err != nil {
		return model.Offer{}, err
	}
	if offer.Status == 0 {
		offer.Status = model.OfferStatusActive
	}

	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		id, err := s.offerRepo.InsertOffer(ctx, offer)
		if err != nil {
			return err
		}
		offer.ID = id
		return nil
	})
	if err != nil {
		return model.Offer{}, err
	}
	return offer, nil
}

// Update rewrites the offer. The core fields are frozen as soon as a
// coupon has been allotted against the offer; a status-only change still
// goes through (SetStatus is the shorter path for that).
func (s *Service) Update(ctx context.Context, offer model.Offer) error {
	if err := validate(offer); err != nil {
		return err
	}

	return s.provider.Transact(ctx, func(ctx context.Context) error {
		existing, err := s.offerRepo.GetOffer(ctx, offer.ID)
		if err != nil {
			return err
		}
		if !existing.Valid {
			return ErrOfferNotFound
		}
		if existing.Offer.AllottedCount > 0 && coreChanged(existing.Offer, offer) {
			return ErrOfferImmutable
		}
		return s.offerRepo.UpdateOffer(ctx, offer)
	})
}

func coreChanged(existing, updated model.Offer) bool {
	if existing.Title != updated.Title ||
		existing.Description != updated.Description ||
		existing.Weight != updated.Weight ||
		existing.Targeting != updated.Targeting ||
		existing.DiscountType != updated.DiscountType {
		return true
	}
	if existing.DiscountValue.Valid != updated.DiscountValue.Valid {
		return true
	}
	if existing.DiscountValue.Valid &&
		!existing.DiscountValue.Decimal.Equal(updated.DiscountValue.Decimal) {
		return true
	}
	return !existing.StartDate.Equal(updated.StartDate) ||
		!existing.EndDate.Equal(updated.EndDate)
}

// SetStatus toggles an offer active or inactive.
func (s *Service) SetStatus(ctx context.Context, offerID int64, status model.OfferStatus) error {
	return s.provider.Transact(ctx, func(ctx context.Context) error {
		existing, err := s.offerRepo.GetOffer(ctx, offerID)
		if err != nil {
			return err
		}
		if !existing.Valid {
			return ErrOfferNotFound
		}
		return s.offerRepo.UpdateOfferStatus(ctx, offerID, status)
	})
}

// Get ...
func (s *Service) Get(ctx context.Context, offerID int64) (model.Offer, error) {
	ctx = s.provider.Readonly(ctx)

	nullOffer, err := s.offerRepo.GetOffer(ctx, offerID)
	if err != nil {
		return model.Offer{}, err
	}
	if !nullOffer.Valid {
		return model.Offer{}, ErrOfferNotFound
	}
	return nullOffer.Offer, nil
}

// List ...
func (s *Service) List(ctx context.Context) ([]model.Offer, error) {
	ctx = s.provider.Readonly(ctx)
	return s.offerRepo.GetOffers(ctx)
}

// Summary is the per offer analytics projection.
type Summary struct {
	OfferID  int64
	Title    string
	Status   model.OfferStatus
	Allotted int64
	Revealed int64
	Redeemed int64
	EndDate  time.Time
}

// Summaries reads the issuance/reveal/redemption counters per offer.
func (s *Service) Summaries(ctx context.Context) ([]Summary, error) {
	offers, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]Summary, 0, len(offers))
	for _, o := range offers {
		result = append(result, Summary{
			OfferID:  o.ID,
			Title:    o.Title,
			Status:   o.Status,
			Allotted: o.AllottedCount,
			Revealed: o.RevealedCount,
			Redeemed: o.RedeemedCount,
			EndDate:  o.EndDate,
		})
	}
	return result, nil
}
