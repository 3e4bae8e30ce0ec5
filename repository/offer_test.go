package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/VishalDET/ASG/model"
	"github.com/VishalDET/ASG/pkg/integration"
)

type repoTest struct {
	tc       *integration.TestCase
	provider Provider
}

func newRepoTest(t *testing.T) *repoTest {
	tc := integration.NewTestCase(t)
	return &repoTest{
		tc:       tc,
		provider: NewProvider(tc.DB),
	}
}

func newContext() context.Context {
	return context.Background()
}

func newTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newNullDecimal(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return decimal.NewNullDecimal(d)
}

func (r *repoTest) insertOffer(t *testing.T, offer model.Offer) int64 {
	var id int64
	err := r.provider.Transact(newContext(), func(ctx context.Context) error {
		var err error
		id, err = NewOffer().InsertOffer(ctx, offer)
		return err
	})
	assert.Equal(t, nil, err)
	return id
}

func TestOffer(t *testing.T) {
	r := newRepoTest(t)
	r.tc.Truncate("offer")

	repo := NewOffer()
	ctx := r.provider.Readonly(newContext())

	// Get non existing
	nullOffer, err := repo.GetOffer(ctx, 100)
	assert.Equal(t, nil, err)
	assert.Equal(t, false, nullOffer.Valid)

	offer01 := model.Offer{
		Title:       "10% OFF",
		Description: "Ten percent off the bill",
		Status:      model.OfferStatusActive,
		Weight:      50,
		Targeting:   model.TargetingAll,

		DiscountType:  model.DiscountTypePercent,
		DiscountValue: newNullDecimal("10.00"),

		StartDate: newTime("2024-03-01T00:00:00+05:30"),
		EndDate:   newTime("2024-03-31T23:59:59+05:30"),
	}

	// Insert
	id01 := r.insertOffer(t, offer01)
	assert.Greater(t, id01, int64(0))

	// Get
	nullOffer, err = repo.GetOffer(ctx, id01)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, nullOffer.Valid)
	assert.Equal(t, "10% OFF", nullOffer.Offer.Title)
	assert.Equal(t, model.OfferStatusActive, nullOffer.Offer.Status)
	assert.Equal(t, int64(50), nullOffer.Offer.Weight)
	assert.Equal(t, int64(0), nullOffer.Offer.AllottedCount)

	//--------------------------------------------------
	// Eligibility filter
	//--------------------------------------------------
	offer02 := offer01
	offer02.Title = "Loyal 50% OFF"
	offer02.Targeting = model.TargetingFrequent
	id02 := r.insertOffer(t, offer02)

	offer03 := offer01
	offer03.Title = "Paused"
	offer03.Status = model.OfferStatusInactive
	r.insertOffer(t, offer03)

	offer04 := offer01
	offer04.Title = "Ended"
	offer04.EndDate = newTime("2024-03-05T00:00:00+05:30")
	r.insertOffer(t, offer04)

	now := newTime("2024-03-08T12:00:00+05:30")

	offers, err := repo.FindOffersEligibleFor(ctx,
		[]model.Targeting{model.TargetingAll, model.TargetingNew}, now)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(offers))
	assert.Equal(t, id01, offers[0].ID)

	offers, err = repo.FindOffersEligibleFor(ctx,
		[]model.Targeting{model.TargetingAll, model.TargetingFrequent}, now)
	assert.Equal(t, nil, err)

	ids := make([]int64, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.ID)
	}
	assert.ElementsMatch(t, []int64{id01, id02}, ids)

	//--------------------------------------------------
	// Update status and counters
	//--------------------------------------------------
	err = r.provider.Transact(newContext(), func(ctx context.Context) error {
		if err := repo.UpdateOfferStatus(ctx, id01, model.OfferStatusInactive); err != nil {
			return err
		}
		if err := repo.IncrementAllotted(ctx, id01); err != nil {
			return err
		}
		if err := repo.IncrementRevealed(ctx, id01); err != nil {
			return err
		}
		return repo.IncrementRedeemed(ctx, id01)
	})
	assert.Equal(t, nil, err)

	nullOffer, err = repo.GetOffer(ctx, id01)
	assert.Equal(t, nil, err)
	assert.Equal(t, model.OfferStatusInactive, nullOffer.Offer.Status)
	assert.Equal(t, int64(1), nullOffer.Offer.AllottedCount)
	assert.Equal(t, int64(1), nullOffer.Offer.RevealedCount)
	assert.Equal(t, int64(1), nullOffer.Offer.RedeemedCount)

	offers, err = repo.FindOffersEligibleFor(ctx,
		[]model.Targeting{model.TargetingAll}, now)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(offers))
}

func TestOffer_Update(t *testing.T) {
	r := newRepoTest(t)
	r.tc.Truncate("offer")

	repo := NewOffer()
	ctx := r.provider.Readonly(newContext())

	id := r.insertOffer(t, model.Offer{
		Title:     "10% OFF",
		Status:    model.OfferStatusActive,
		Weight:    50,
		Targeting: model.TargetingAll,
		StartDate: newTime("2024-03-01T00:00:00+05:30"),
		EndDate:   newTime("2024-03-31T23:59:59+05:30"),
	})

	nullOffer, err := repo.GetOffer(ctx, id)
	assert.Equal(t, nil, err)

	updated := nullOffer.Offer
	updated.Title = "15% OFF"
	updated.Weight = 30

	err = r.provider.Transact(newContext(), func(ctx context.Context) error {
		return repo.UpdateOffer(ctx, updated)
	})
	assert.Equal(t, nil, err)

	nullOffer, err = repo.GetOffer(ctx, id)
	assert.Equal(t, nil, err)
	assert.Equal(t, "15% OFF", nullOffer.Offer.Title)
	assert.Equal(t, int64(30), nullOffer.Offer.Weight)
}
