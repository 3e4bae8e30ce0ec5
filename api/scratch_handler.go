package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/VishalDET/ASG/service/scratch"
)

type scratchRequest struct {
	CustomerID int64 `json:"customerId"`
}

type scratchResponse struct {
	Coupon CouponDTO `json:"coupon"`
	Offer  OfferDTO  `json:"offer"`
}

func (h *Handler) scratchDraw(w http.ResponseWriter, r *http.Request) {
	var req scratchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.CustomerID == 0 {
		writeBadRequest(w, "customerId is required")
		return
	}

	result, err := h.scratches.Scratch(r.Context(), req.CustomerID)
	switch {
	case errors.Is(err, scratch.ErrCustomerNotFound):
		writeOutcome(w, nil, "Customer not found")
		return
	case errors.Is(err, scratch.ErrDailyLimitReached):
		writeOutcome(w, nil, "You have already scratched today, come back tomorrow")
		return
	case errors.Is(err, scratch.ErrNoEligibleOffers):
		writeOutcome(w, nil, "No offers available right now")
		return
	case err != nil:
		writeInternal(w, r, err)
		return
	}

	writeData(w, scratchResponse{
		Coupon: toCouponDTO(result.Coupon, time.Now()),
		Offer:  toOfferDTO(result.Offer),
	})
}

type revealRequest struct {
	Code string `json:"code"`
}

func (h *Handler) scratchReveal(w http.ResponseWriter, r *http.Request) {
	var req revealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Code == "" {
		writeBadRequest(w, "code is required")
		return
	}

	coupon, err := h.scratches.Reveal(r.Context(), req.Code)
	if errors.Is(err, scratch.ErrCouponNotFound) {
		writeOutcome(w, nil, "Invalid or Expired Code")
		return
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeData(w, toCouponDTO(coupon, time.Now()))
}
