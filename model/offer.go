package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Offer ...
type Offer struct {
	ID          int64       `db:"id"`
	Title       string      `db:"title"`
	Description string      `db:"description"`
	Status      OfferStatus `db:"status"`

	Weight    int64     `db:"weight"`
	Targeting Targeting `db:"targeting"`

	DiscountType  DiscountType        `db:"discount_type"`
	DiscountValue decimal.NullDecimal `db:"discount_value"`

	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`

	AllottedCount int64 `db:"allotted_count"`
	RevealedCount int64 `db:"revealed_count"`
	RedeemedCount int64 `db:"redeemed_count"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NullOffer ...
type NullOffer struct {
	Valid bool
	Offer Offer
}

// OfferStatus ...
type OfferStatus int

const (
	// OfferStatusActive ...
	OfferStatusActive OfferStatus = 1

	// OfferStatusInactive ...
	OfferStatusInactive OfferStatus = 2
)

// Targeting selects which customer segment an offer may be issued to.
type Targeting int

const (
	// TargetingAll ...
	TargetingAll Targeting = 1

	// TargetingNew ...
	TargetingNew Targeting = 2

	// TargetingFrequent ...
	TargetingFrequent Targeting = 3

	// TargetingInactive ...
	TargetingInactive Targeting = 4
)

// DiscountType ...
type DiscountType int

const (
	// DiscountTypePercent ...
	DiscountTypePercent DiscountType = 1

	// DiscountTypeAmount ...
	DiscountTypeAmount DiscountType = 2

	// DiscountTypeItem for free-item offers without a monetary value
	DiscountTypeItem DiscountType = 3
)
