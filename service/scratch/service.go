package scratch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/VishalDET/ASG/model"
	"github.com/VishalDET/ASG/pkg/metrics"
	"github.com/VishalDET/ASG/pkg/otellib"
	"github.com/VishalDET/ASG/pkg/util"
	"github.com/VishalDET/ASG/repository"
)

// ErrCustomerNotFound ...
var ErrCustomerNotFound = errors.New("customer not found")

// ErrDailyLimitReached when the customer already drew a coupon today
var ErrDailyLimitReached = errors.New("daily scratch limit reached")

// ErrNoEligibleOffers when no active offer matches the customer segments
var ErrNoEligibleOffers = errors.New("no offers available")

// ErrCouponNotFound ...
var ErrCouponNotFound = errors.New("coupon not found")

// maxCodeAttempts bounds regeneration on duplicate codes; with 50 bits
// of token entropy more than a couple of attempts never happens.
const maxCodeAttempts = 5

// Result of a successful scratch draw.
type Result struct {
	Coupon model.Coupon
	Offer  model.Offer
}

// Service runs the issuance path: eligibility gate, weighted selection
// and coupon minting inside one per-customer transaction.
type Service struct {
	provider     repository.Provider
	offerRepo    repository.Offer
	customerRepo repository.Customer
	couponRepo   repository.Coupon

	selector *Selector
	gate     *Gate
	codes    *CodeGenerator

	validity time.Duration
	now      func() time.Time
}

// NewService ...
func NewService(
	provider repository.Provider,
	offerRepo repository.Offer,
	customerRepo repository.Customer,
	couponRepo repository.Coupon,
	selector *Selector,
	gate *Gate,
	codes *CodeGenerator,
	validity time.Duration,
) *Service {
	return &Service{
		provider:     provider,
		offerRepo:    offerRepo,
		customerRepo: customerRepo,
		couponRepo:   couponRepo,

		selector: selector,
		gate:     gate,
		codes:    codes,

		validity: validity,
		now:      time.Now,
	}
}

// WithNow overrides the clock, for tests
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Scratch issues a new coupon for the customer. The coupon exists from
// this moment on; the scratch gesture in the client only reveals it.
// The daily gate is re-checked under the customer row lock so two
// concurrent requests cannot both mint a coupon for the same day.
func (s *Service) Scratch(ctx context.Context, customerID int64) (Result, error) {
	var result Result
	now := s.now()

	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		err := s.customerRepo.LockCustomer(ctx, customerID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCustomerNotFound
		}
		if err != nil {
			return fmt.Errorf("lock customer: %w", err)
		}

		nullCustomer, err := s.customerRepo.GetCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if !nullCustomer.Valid {
			return ErrCustomerNotFound
		}
		customer := nullCustomer.Customer

		dayStart, dayEnd := s.gate.DayBounds(now)
		today, err := s.couponRepo.FindTodayCoupon(ctx, customerID, dayStart, dayEnd)
		if err != nil {
			return err
		}
		if s.gate.IssuedToday(today, now) {
			return ErrDailyLimitReached
		}

		offers, err := s.offerRepo.FindOffersEligibleFor(ctx, s.gate.Segments(customer, now), now)
		if err != nil {
			return err
		}
		if len(offers) == 0 {
			return ErrNoEligibleOffers
		}

		offer := s.selector.Pick(offers)

		coupon, err := s.insertWithFreshCode(ctx, customer, offer, now)
		if err != nil {
			return err
		}

		if err := s.offerRepo.IncrementAllotted(ctx, offer.ID); err != nil {
			return err
		}

		result = Result{Coupon: coupon, Offer: offer}
		return nil
	})
	if err != nil {
		reason := "error"
		switch {
		case errors.Is(err, ErrDailyLimitReached):
			reason = "daily_limit"
		case errors.Is(err, ErrNoEligibleOffers):
			reason = "no_offers"
		case errors.Is(err, ErrCustomerNotFound):
			reason = "customer_not_found"
		}
		metrics.IssueRejected.WithLabelValues(reason).Inc()
		return Result{}, err
	}

	metrics.CouponsIssued.Inc()
	otellib.Extract(ctx).Info("coupon issued",
		zap.Int64("customer_id", customerID),
		zap.Int64("offer_id", result.Offer.ID),
		zap.String("code", result.Coupon.Code),
	)
	return result, nil
}

func (s *Service) insertWithFreshCode(
	ctx context.Context, customer model.Customer, offer model.Offer, now time.Time,
) (model.Coupon, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.codes.NewCode()
		coupon := model.Coupon{
			CodeHash:   util.HashFunc(code),
			Code:       code,
			OfferID:    offer.ID,
			CustomerID: customer.ID,
			Status:     model.CouponStatusGenerated,
			IssuedAt:   now,
			ExpiresAt:  now.Add(s.validity),
		}

		id, err := s.couponRepo.InsertCoupon(ctx, coupon)
		if repository.IsDuplicateKey(err) {
			continue
		}
		if err != nil {
			return model.Coupon{}, err
		}

		coupon.ID = id
		return coupon, nil
	}
	return model.Coupon{}, errors.New("scratch: could not generate a unique coupon code")
}

// Reveal records the completion of the scratch gesture. It is idempotent
// and only bumps the offer revealed counter on the first call.
func (s *Service) Reveal(ctx context.Context, code string) (model.Coupon, error) {
	var coupon model.Coupon

	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		nullCoupon, err := s.couponRepo.FindCouponByCode(ctx, util.HashFunc(code), code)
		if err != nil {
			return err
		}
		if !nullCoupon.Valid {
			return ErrCouponNotFound
		}
		coupon = nullCoupon.Coupon

		first, err := s.couponRepo.MarkRevealed(ctx, coupon.ID)
		if err != nil {
			return err
		}
		if !first {
			return nil
		}
		coupon.Revealed = true

		metrics.CouponsRevealed.Inc()
		return s.offerRepo.IncrementRevealed(ctx, coupon.OfferID)
	})
	if err != nil {
		return model.Coupon{}, err
	}
	return coupon, nil
}

// History returns the customer coupon history, newest first.
func (s *Service) History(ctx context.Context, customerID int64) ([]model.Coupon, error) {
	ctx = s.provider.Readonly(ctx)
	return s.couponRepo.GetCouponsByCustomer(ctx, customerID)
}
