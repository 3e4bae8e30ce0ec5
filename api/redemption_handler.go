package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/VishalDET/ASG/service/redemption"
)

func (h *Handler) validateCoupon(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeBadRequest(w, "code is required")
		return
	}

	result, err := h.redemptions.Validate(r.Context(), code)
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	dto := toValidationDTO(result)
	if result.IsValid {
		writeData(w, dto)
		return
	}
	// still return the projection so staff see who holds the coupon
	writeOutcome(w, dto, dto.Message)
}

type redeemRequest struct {
	Code       string `json:"code"`
	CustomerID int64  `json:"customerId"`
	OfferID    int64  `json:"offerId"`
}

func (h *Handler) redeemCoupon(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Code == "" {
		writeBadRequest(w, "code is required")
		return
	}

	coupon, err := h.redemptions.Redeem(r.Context(), req.Code, req.CustomerID, req.OfferID)
	switch {
	case errors.Is(err, redemption.ErrCouponNotFound):
		writeOutcome(w, nil, "Invalid or Expired Code")
		return
	case errors.Is(err, redemption.ErrAlreadyRedeemed):
		writeOutcome(w, nil, "Coupon has already been redeemed")
		return
	case errors.Is(err, redemption.ErrCouponExpired):
		writeOutcome(w, nil, "Coupon has expired")
		return
	case errors.Is(err, redemption.ErrConfirmationMismatch):
		writeOutcome(w, nil, "Confirmation does not match the coupon, validate again")
		return
	case err != nil:
		writeInternal(w, r, err)
		return
	}

	writeData(w, toCouponDTO(coupon, time.Now()))
}
