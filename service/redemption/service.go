package redemption

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/VishalDET/ASG/model"
	"github.com/VishalDET/ASG/pkg/couponcache"
	"github.com/VishalDET/ASG/pkg/metrics"
	"github.com/VishalDET/ASG/pkg/otellib"
	"github.com/VishalDET/ASG/pkg/util"
	"github.com/VishalDET/ASG/repository"
)

// ErrCouponNotFound for unknown codes; the terminal shows the generic
// invalid-or-expired message so codes cannot be probed.
var ErrCouponNotFound = errors.New("invalid or expired code")

// ErrAlreadyRedeemed ...
var ErrAlreadyRedeemed = errors.New("coupon already redeemed")

// ErrCouponExpired ...
var ErrCouponExpired = errors.New("coupon expired")

// ErrConfirmationMismatch when the confirmed customer/offer identity does
// not match the coupon being redeemed
var ErrConfirmationMismatch = errors.New("confirmation does not match coupon")

// Messages shown on the terminal, one per taxonomy entry.
const (
	msgValid           = "Coupon is valid"
	msgNotFound        = "Invalid or Expired Code"
	msgAlreadyRedeemed = "Coupon has already been redeemed"
	msgExpired         = "Coupon has expired"
)

// ValidationResult is the display projection returned to the terminal,
// filled regardless of outcome so staff can see who holds the coupon.
type ValidationResult struct {
	IsValid bool
	Status  Status
	Message string

	Code          string
	CustomerID    int64
	CustomerName  string
	CustomerPhone string
	OfferID       int64
	OfferTitle    string

	RevealedAt   time.Time
	ExpiresAt    time.Time
	OfferEndDate time.Time
}

// Service implements the two call terminal protocol on top of the
// redemption state machine.
type Service struct {
	provider     repository.Provider
	couponRepo   repository.Coupon
	customerRepo repository.Customer
	offerRepo    repository.Offer

	cache *couponcache.Cache

	now func() time.Time
}

// NewService ...
func NewService(
	provider repository.Provider,
	couponRepo repository.Coupon,
	customerRepo repository.Customer,
	offerRepo repository.Offer,
	cache *couponcache.Cache,
) *Service {
	return &Service{
		provider:     provider,
		couponRepo:   couponRepo,
		customerRepo: customerRepo,
		offerRepo:    offerRepo,

		cache: cache,

		now: time.Now,
	}
}

// WithNow overrides the clock, for tests
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Validate looks up the code and evaluates it, without mutating
// anything. Safe to call any number of times. Terminal coupon states are
// served from the cache when possible; a still-Generated cached row is
// re-read from the database so a just-redeemed coupon is never reported
// valid from a stale entry.
func (s *Service) Validate(ctx context.Context, code string) (ValidationResult, error) {
	ctx = s.provider.Readonly(ctx)
	now := s.now()

	nullCoupon, err := s.lookupCoupon(ctx, code, now)
	if err != nil {
		return ValidationResult{}, err
	}

	result, err := s.buildResult(ctx, code, nullCoupon, now)
	if err != nil {
		return ValidationResult{}, err
	}
	if !result.IsValid {
		metrics.RedeemRejected.WithLabelValues("validate_" + result.Status.String()).Inc()
	}
	return result, nil
}

func (s *Service) lookupCoupon(
	ctx context.Context, code string, now time.Time,
) (model.NullCoupon, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, code)
		if err != nil {
			otellib.Extract(ctx).Warn("coupon cache read failed", zap.Error(err))
		} else if cached.Valid && usableFromCache(cached.Coupon, now) {
			return cached, nil
		}
	}

	nullCoupon, err := s.couponRepo.FindCouponByCode(ctx, util.HashFunc(code), code)
	if err != nil {
		return model.NullCoupon{}, err
	}

	if s.cache != nil && nullCoupon.Valid {
		if err := s.cache.Set(ctx, nullCoupon.Coupon); err != nil {
			otellib.Extract(ctx).Warn("coupon cache write failed", zap.Error(err))
		}
	}
	return nullCoupon, nil
}

// usableFromCache reports whether the cached row alone decides the
// outcome: terminal stored states and past-expiry rows cannot flip back,
// anything else needs the authoritative database row.
func usableFromCache(coupon model.Coupon, now time.Time) bool {
	if coupon.Status != model.CouponStatusGenerated {
		return true
	}
	return !now.Before(coupon.ExpiresAt)
}

func (s *Service) buildResult(
	ctx context.Context, code string, nullCoupon model.NullCoupon, now time.Time,
) (ValidationResult, error) {
	if !nullCoupon.Valid {
		return ValidationResult{
			IsValid: false,
			Status:  StatusNotFound,
			Message: msgNotFound,
			Code:    code,
		}, nil
	}
	coupon := nullCoupon.Coupon

	nullOffer, err := s.offerRepo.GetOffer(ctx, coupon.OfferID)
	if err != nil {
		return ValidationResult{}, err
	}
	nullCustomer, err := s.customerRepo.GetCustomer(ctx, coupon.CustomerID)
	if err != nil {
		return ValidationResult{}, err
	}

	status := Evaluate(nullCoupon, nullOffer, now)

	result := ValidationResult{
		IsValid: status == StatusValid,
		Status:  status,
		Message: statusMessage(status),

		Code:       coupon.Code,
		CustomerID: coupon.CustomerID,
		OfferID:    coupon.OfferID,

		RevealedAt: coupon.IssuedAt,
		ExpiresAt:  coupon.ExpiresAt,
	}
	if nullCustomer.Valid {
		result.CustomerName = nullCustomer.Customer.Name
		result.CustomerPhone = nullCustomer.Customer.Phone
	}
	if nullOffer.Valid {
		result.OfferTitle = nullOffer.Offer.Title
		result.OfferEndDate = nullOffer.Offer.EndDate
	}
	return result, nil
}

func statusMessage(status Status) string {
	switch status {
	case StatusValid:
		return msgValid
	case StatusAlreadyRedeemed:
		return msgAlreadyRedeemed
	case StatusExpired:
		return msgExpired
	default:
		return msgNotFound
	}
}

// StatusError maps a non-valid status to its sentinel error.
func StatusError(status Status) error {
	switch status {
	case StatusAlreadyRedeemed:
		return ErrAlreadyRedeemed
	case StatusExpired:
		return ErrCouponExpired
	case StatusNotFound:
		return ErrCouponNotFound
	default:
		return nil
	}
}

// Redeem consumes the coupon. The earlier Validate result is never
// trusted: the code is re-read and re-evaluated inside the transaction,
// then flipped with a conditional update so concurrent calls produce
// exactly one success. The losing call reports AlreadyRedeemed. The
// terminal must not retry on its own, a retry is a fresh operator action.
func (s *Service) Redeem(
	ctx context.Context, code string, confirmedCustomerID, confirmedOfferID int64,
) (model.Coupon, error) {
	var redeemed model.Coupon
	now := s.now()

	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		nullCoupon, err := s.couponRepo.FindCouponByCode(ctx, util.HashFunc(code), code)
		if err != nil {
			return err
		}

		nullOffer := model.NullOffer{}
		if nullCoupon.Valid {
			nullOffer, err = s.offerRepo.GetOffer(ctx, nullCoupon.Coupon.OfferID)
			if err != nil {
				return err
			}
		}

		status := Evaluate(nullCoupon, nullOffer, now)
		if status != StatusValid {
			return StatusError(status)
		}
		coupon := nullCoupon.Coupon

		if coupon.CustomerID != confirmedCustomerID || coupon.OfferID != confirmedOfferID {
			return ErrConfirmationMismatch
		}

		ok, err := s.couponRepo.MarkRedeemed(ctx, coupon.ID, now)
		if err != nil {
			return fmt.Errorf("mark redeemed: %w", err)
		}
		if !ok {
			// lost the race; the stored row decides which way
			current, err := s.couponRepo.FindCouponByCode(ctx, util.HashFunc(code), code)
			if err != nil {
				return err
			}
			if current.Valid && current.Coupon.Status == model.CouponStatusRedeemed {
				return ErrAlreadyRedeemed
			}
			return ErrCouponExpired
		}

		if err := s.customerRepo.IncrementVisit(ctx, coupon.CustomerID, now); err != nil {
			return err
		}
		if err := s.offerRepo.IncrementRedeemed(ctx, coupon.OfferID); err != nil {
			return err
		}

		coupon.Status = model.CouponStatusRedeemed
		redeemed = coupon
		return nil
	})

	if s.cache != nil {
		// drop the cached row whatever happened; the database decided
		if cacheErr := s.cache.Delete(ctx, code); cacheErr != nil {
			otellib.Extract(ctx).Warn("coupon cache invalidation failed", zap.Error(cacheErr))
		}
	}

	if err != nil {
		reason := "error"
		switch {
		case errors.Is(err, ErrCouponNotFound):
			reason = "not_found"
		case errors.Is(err, ErrAlreadyRedeemed):
			reason = "already_redeemed"
		case errors.Is(err, ErrCouponExpired):
			reason = "expired"
		case errors.Is(err, ErrConfirmationMismatch):
			reason = "confirmation_mismatch"
		}
		metrics.RedeemRejected.WithLabelValues(reason).Inc()
		return model.Coupon{}, err
	}

	metrics.CouponsRedeemed.Inc()
	otellib.Extract(ctx).Info("coupon redeemed",
		zap.String("code", redeemed.Code),
		zap.Int64("customer_id", redeemed.CustomerID),
		zap.Int64("offer_id", redeemed.OfferID),
	)
	return redeemed, nil
}
