package redemption

import (
	"time"

	"github.com/VishalDET/ASG/model"
)

// Status is the outcome of evaluating a coupon against the redemption
// state machine at a point in time.
type Status int

const (
	// StatusValid ...
	StatusValid Status = 1

	// StatusAlreadyRedeemed ...
	StatusAlreadyRedeemed Status = 2

	// StatusExpired ...
	StatusExpired Status = 3

	// StatusNotFound ...
	StatusNotFound Status = 4
)

// String ...
func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusAlreadyRedeemed:
		return "already_redeemed"
	case StatusExpired:
		return "expired"
	default:
		return "not_found"
	}
}

// Evaluate is the pure read side of the state machine. A coupon is
// redeemable iff its stored status is Generated, its own expiry has not
// passed, and the issuing offer end date has not passed. Both windows
// are enforced in every code path. Expiry takes precedence over a stale
// Generated flag: a coupon past its expiry evaluates to Expired even
// when nothing has updated the stored status.
func Evaluate(coupon model.NullCoupon, offer model.NullOffer, now time.Time) Status {
	if !coupon.Valid {
		return StatusNotFound
	}

	switch coupon.Coupon.Status {
	case model.CouponStatusRedeemed:
		return StatusAlreadyRedeemed
	case model.CouponStatusExpired:
		return StatusExpired
	}

	if !now.Before(coupon.Coupon.ExpiresAt) {
		return StatusExpired
	}

	// a coupon referencing a missing offer cannot be honored
	if !offer.Valid {
		return StatusNotFound
	}
	if now.After(offer.Offer.EndDate) {
		return StatusExpired
	}

	return StatusValid
}
