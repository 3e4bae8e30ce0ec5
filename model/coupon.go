package model

import (
	"database/sql"
	"time"
)

// Coupon is the unit a customer holds after a scratch draw. The stored
// status only ever moves from Generated to Redeemed; Expired is computed
// from the timestamps at read time.
type Coupon struct {
	ID       int64  `db:"id"`
	CodeHash uint32 `db:"code_hash"`
	Code     string `db:"code"`

	OfferID    int64 `db:"offer_id"`
	CustomerID int64 `db:"customer_id"`

	Status CouponStatus `db:"status"`

	IssuedAt   time.Time    `db:"issued_at"`
	ExpiresAt  time.Time    `db:"expires_at"`
	Revealed   bool         `db:"revealed"`
	RedeemedAt sql.NullTime `db:"redeemed_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NullCoupon ...
type NullCoupon struct {
	Valid  bool
	Coupon Coupon
}

// CouponStatus ...
type CouponStatus int

const (
	// CouponStatusGenerated ...
	CouponStatusGenerated CouponStatus = 1

	// CouponStatusRedeemed ...
	CouponStatusRedeemed CouponStatus = 2

	// CouponStatusExpired is never written by the issuance path; it exists
	// for rows flipped by reporting tools and for display projections.
	CouponStatusExpired CouponStatus = 3
)
