package redemption

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/VishalDET/ASG/model"
)

func newTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func evalCoupon(status model.CouponStatus) model.NullCoupon {
	return model.NullCoupon{
		Valid: true,
		Coupon: model.Coupon{
			ID:        11,
			Code:      "RESTO-AAAAAAAAAA",
			OfferID:   21,
			Status:    status,
			IssuedAt:  newTime("2024-03-08T12:00:00+05:30"),
			ExpiresAt: newTime("2024-03-08T14:00:00+05:30"),
		},
	}
}

func evalOffer() model.NullOffer {
	return model.NullOffer{
		Valid: true,
		Offer: model.Offer{
			ID:      21,
			Status:  model.OfferStatusActive,
			EndDate: newTime("2024-03-31T23:59:59+05:30"),
		},
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("not-found", func(t *testing.T) {
		status := Evaluate(model.NullCoupon{}, evalOffer(), newTime("2024-03-08T12:30:00+05:30"))
		assert.Equal(t, StatusNotFound, status)
	})

	t.Run("valid-inside-window", func(t *testing.T) {
		status := Evaluate(
			evalCoupon(model.CouponStatusGenerated), evalOffer(),
			newTime("2024-03-08T13:59:00+05:30"),
		)
		assert.Equal(t, StatusValid, status)
	})

	t.Run("expired-just-after-window", func(t *testing.T) {
		status := Evaluate(
			evalCoupon(model.CouponStatusGenerated), evalOffer(),
			newTime("2024-03-08T14:01:00+05:30"),
		)
		assert.Equal(t, StatusExpired, status)
	})

	t.Run("expired-exactly-at-boundary", func(t *testing.T) {
		status := Evaluate(
			evalCoupon(model.CouponStatusGenerated), evalOffer(),
			newTime("2024-03-08T14:00:00+05:30"),
		)
		assert.Equal(t, StatusExpired, status)
	})

	t.Run("already-redeemed", func(t *testing.T) {
		status := Evaluate(
			evalCoupon(model.CouponStatusRedeemed), evalOffer(),
			newTime("2024-03-08T12:30:00+05:30"),
		)
		assert.Equal(t, StatusAlreadyRedeemed, status)
	})

	t.Run("stored-expired", func(t *testing.T) {
		status := Evaluate(
			evalCoupon(model.CouponStatusExpired), evalOffer(),
			newTime("2024-03-08T12:30:00+05:30"),
		)
		assert.Equal(t, StatusExpired, status)
	})

	t.Run("expiry-wins-over-stale-generated", func(t *testing.T) {
		// nothing ever flipped the stored status; expiry still decides
		status := Evaluate(
			evalCoupon(model.CouponStatusGenerated), evalOffer(),
			newTime("2024-03-09T09:00:00+05:30"),
		)
		assert.Equal(t, StatusExpired, status)
	})

	t.Run("offer-end-date-passed", func(t *testing.T) {
		offer := evalOffer()
		offer.Offer.EndDate = newTime("2024-03-08T13:00:00+05:30")

		coupon := evalCoupon(model.CouponStatusGenerated)
		status := Evaluate(coupon, offer, newTime("2024-03-08T13:30:00+05:30"))
		assert.Equal(t, StatusExpired, status)
	})

	t.Run("missing-offer", func(t *testing.T) {
		status := Evaluate(
			evalCoupon(model.CouponStatusGenerated), model.NullOffer{},
			newTime("2024-03-08T12:30:00+05:30"),
		)
		assert.Equal(t, StatusNotFound, status)
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "valid", StatusValid.String())
	assert.Equal(t, "already_redeemed", StatusAlreadyRedeemed.String())
	assert.Equal(t, "expired", StatusExpired.String())
	assert.Equal(t, "not_found", StatusNotFound.String())
}

func TestStatusError(t *testing.T) {
	assert.Equal(t, nil, StatusError(StatusValid))
	assert.Equal(t, ErrAlreadyRedeemed, StatusError(StatusAlreadyRedeemed))
	assert.Equal(t, ErrCouponExpired, StatusError(StatusExpired))
	assert.Equal(t, ErrCouponNotFound, StatusError(StatusNotFound))
}
