package offer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VishalDET/ASG/model"
	"github.com/VishalDET/ASG/repository/memrepo"
)

func newService() (*Service, *memrepo.Store) {
	store := memrepo.New()
	return NewService(store.Provider(), store.Offer()), store
}

func newTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newOffer() model.Offer {
	return model.Offer{
		Title:     "10% OFF",
		Weight:    50,
		Targeting: model.TargetingAll,
		StartDate: newTime("2024-03-01T00:00:00+05:30"),
		EndDate:   newTime("2024-03-31T23:59:59+05:30"),
	}
}

func TestService_Create(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	created, err := service.Create(ctx, newOffer())
	require.NoError(t, err)

	assert.Greater(t, created.ID, int64(0))
	// defaults to active
	assert.Equal(t, model.OfferStatusActive, created.Status)

	found, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "10% OFF", found.Title)
}

func TestService_Create_Invalid(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	reversed := newOffer()
	reversed.StartDate, reversed.EndDate = reversed.EndDate, reversed.StartDate
	_, err := service.Create(ctx, reversed)
	assert.Equal(t, ErrInvalidWindow, err)

	negative := newOffer()
	negative.Weight = -1
	_, err = service.Create(ctx, negative)
	assert.Equal(t, ErrNegativeWeight, err)
}

func TestService_Update(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	created, err := service.Create(ctx, newOffer())
	require.NoError(t, err)

	created.Title = "15% OFF"
	created.Weight = 30
	err = service.Update(ctx, created)
	require.NoError(t, err)

	found, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "15% OFF", found.Title)
	assert.Equal(t, int64(30), found.Weight)

	missing := newOffer()
	missing.ID = created.ID + 100
	err = service.Update(ctx, missing)
	assert.Equal(t, ErrOfferNotFound, err)
}

func TestService_Update_FrozenOnceAllotted(t *testing.T) {
	service, store := newService()
	ctx := context.Background()

	created, err := service.Create(ctx, newOffer())
	require.NoError(t, err)

	// a coupon has been drawn against the offer
	require.NoError(t, store.Offer().IncrementAllotted(ctx, created.ID))

	frozen, err := service.Get(ctx, created.ID)
	require.NoError(t, err)

	// core fields are locked in
	changed := frozen
	changed.Title = "90% OFF"
	changed.Weight = 5
	changed.EndDate = newTime("2024-06-30T23:59:59+05:30")
	err = service.Update(ctx, changed)
	assert.Equal(t, ErrOfferImmutable, err)

	found, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "10% OFF", found.Title)
	assert.Equal(t, int64(50), found.Weight)

	// a status-only update still goes through
	statusOnly := frozen
	statusOnly.Status = model.OfferStatusInactive
	err = service.Update(ctx, statusOnly)
	require.NoError(t, err)

	found, err = service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OfferStatusInactive, found.Status)
	assert.Equal(t, "10% OFF", found.Title)
}

func TestService_SetStatus(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	created, err := service.Create(ctx, newOffer())
	require.NoError(t, err)

	err = service.SetStatus(ctx, created.ID, model.OfferStatusInactive)
	require.NoError(t, err)

	found, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OfferStatusInactive, found.Status)

	err = service.SetStatus(ctx, created.ID+100, model.OfferStatusActive)
	assert.Equal(t, ErrOfferNotFound, err)
}

func TestService_Get_NotFound(t *testing.T) {
	service, _ := newService()

	_, err := service.Get(context.Background(), 404)
	assert.Equal(t, ErrOfferNotFound, err)
}

func TestService_Summaries(t *testing.T) {
	service, store := newService()
	ctx := context.Background()

	created, err := service.Create(ctx, newOffer())
	require.NoError(t, err)

	require.NoError(t, store.Offer().IncrementAllotted(ctx, created.ID))
	require.NoError(t, store.Offer().IncrementAllotted(ctx, created.ID))
	require.NoError(t, store.Offer().IncrementRevealed(ctx, created.ID))
	require.NoError(t, store.Offer().IncrementRedeemed(ctx, created.ID))

	summaries, err := service.Summaries(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, len(summaries))

	assert.Equal(t, created.ID, summaries[0].OfferID)
	assert.Equal(t, "10% OFF", summaries[0].Title)
	assert.Equal(t, int64(2), summaries[0].Allotted)
	assert.Equal(t, int64(1), summaries[0].Revealed)
	assert.Equal(t, int64(1), summaries[0].Redeemed)
}
