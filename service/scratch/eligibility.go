package scratch

import (
	"time"

	"github.com/VishalDET/ASG/model"
)

const (
	frequentVisitCount = 10
	inactiveAfterDays  = 30
)

// Gate decides whether a customer may draw a new offer today and which
// offer segments apply to them.
type Gate struct {
	loc *time.Location
}

// NewGate ...
func NewGate(loc *time.Location) *Gate {
	return &Gate{loc: loc}
}

// DayBounds returns the half open interval [start, end) of "today" in
// the business reporting timezone.
func (g *Gate) DayBounds(now time.Time) (time.Time, time.Time) {
	local := now.In(g.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, g.loc)
	return start, start.AddDate(0, 0, 1)
}

// IssuedToday reports whether the coupon blocks a new draw. The rule
// keys on the issuance date only: a coupon already redeemed or expired
// today still blocks a second draw today.
func (g *Gate) IssuedToday(coupon model.NullCoupon, now time.Time) bool {
	if !coupon.Valid {
		return false
	}
	start, end := g.DayBounds(now)
	issued := coupon.Coupon.IssuedAt
	return !issued.Before(start) && issued.Before(end)
}

// Segments computes the targeting segments the customer falls into.
// TargetingAll always applies.
func (g *Gate) Segments(customer model.Customer, now time.Time) []model.Targeting {
	segments := []model.Targeting{model.TargetingAll}

	if customer.VisitCount == 0 {
		segments = append(segments, model.TargetingNew)
	}
	if customer.VisitCount >= frequentVisitCount {
		segments = append(segments, model.TargetingFrequent)
	}
	if customer.LastVisitAt.Valid {
		inactiveSince := now.AddDate(0, 0, -inactiveAfterDays)
		if customer.LastVisitAt.Time.Before(inactiveSince) {
			segments = append(segments, model.TargetingInactive)
		}
	}
	return segments
}
