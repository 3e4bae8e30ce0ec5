package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/VishalDET/ASG/service/offer"
)

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.offers.List(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	dtos := make([]OfferDTO, 0, len(offers))
	for _, o := range offers {
		dtos = append(dtos, toOfferDTO(o))
	}
	writeData(w, dtos)
}

func (h *Handler) createOffer(w http.ResponseWriter, r *http.Request) {
	var dto OfferDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	parsed, err := fromOfferDTO(dto)
	if err != nil {
		writeBadRequest(w, "invalid offer payload")
		return
	}

	created, err := h.offers.Create(r.Context(), parsed)
	if errors.Is(err, offer.ErrInvalidWindow) || errors.Is(err, offer.ErrNegativeWeight) {
		writeBadRequest(w, err.Error())
		return
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeData(w, toOfferDTO(created))
}

func (h *Handler) updateOffer(w http.ResponseWriter, r *http.Request) {
	offerID, err := strconv.ParseInt(chi.URLParam(r, "offerID"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid offer id")
		return
	}

	var dto OfferDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	dto.ID = offerID

	parsed, err := fromOfferDTO(dto)
	if err != nil {
		writeBadRequest(w, "invalid offer payload")
		return
	}

	err = h.offers.Update(r.Context(), parsed)
	if errors.Is(err, offer.ErrOfferNotFound) {
		writeOutcome(w, nil, "Offer not found")
		return
	}
	if errors.Is(err, offer.ErrOfferImmutable) {
		writeOutcome(w, nil, "Offer already has issued coupons, only status can change")
		return
	}
	if errors.Is(err, offer.ErrInvalidWindow) || errors.Is(err, offer.ErrNegativeWeight) {
		writeBadRequest(w, err.Error())
		return
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeData(w, nil)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) setOfferStatus(w http.ResponseWriter, r *http.Request) {
	offerID, err := strconv.ParseInt(chi.URLParam(r, "offerID"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid offer id")
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	status, ok := offerStatusValues[req.Status]
	if !ok {
		writeBadRequest(w, "status must be active or inactive")
		return
	}

	err = h.offers.SetStatus(r.Context(), offerID, status)
	if errors.Is(err, offer.ErrOfferNotFound) {
		writeOutcome(w, nil, "Offer not found")
		return
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeData(w, nil)
}

func (h *Handler) analyticsSummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.offers.Summaries(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	type summaryDTO struct {
		OfferID  int64  `json:"offerId"`
		Title    string `json:"title"`
		Status   string `json:"status"`
		Allotted int64  `json:"allotted"`
		Revealed int64  `json:"revealed"`
		Redeemed int64  `json:"redeemed"`
	}

	dtos := make([]summaryDTO, 0, len(summaries))
	for _, s := range summaries {
		dtos = append(dtos, summaryDTO{
			OfferID:  s.OfferID,
			Title:    s.Title,
			Status:   offerStatusNames[s.Status],
			Allotted: s.Allotted,
			Revealed: s.Revealed,
			Redeemed: s.Redeemed,
		})
	}
	writeData(w, dtos)
}
