package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/VishalDET/ASG/service/customer"
)

type registerRequest struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	DateOfBirth       string `json:"dob"`
	Gender            string `json:"gender"`
	FoodPreference    string `json:"foodPreference"`
	AlcoholPreference string `json:"alcoholPreference"`
}

func (h *Handler) registerCustomer(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Phone == "" || req.Name == "" {
		writeBadRequest(w, "name and phone are required")
		return
	}

	reg := customer.Registration{
		Phone:             req.Phone,
		Name:              req.Name,
		Email:             req.Email,
		Gender:            req.Gender,
		FoodPreference:    req.FoodPreference,
		AlcoholPreference: req.AlcoholPreference,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			writeBadRequest(w, "invalid dob, expected YYYY-MM-DD")
			return
		}
		reg.DateOfBirth = &dob
	}

	created, err := h.customers.Register(r.Context(), reg)
	if errors.Is(err, customer.ErrPhoneAlreadyRegistered) {
		writeOutcome(w, nil, "Phone number already registered")
		return
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeData(w, toCustomerDTO(created))
}

func (h *Handler) getCustomers(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone != "" {
		found, err := h.customers.GetByPhone(r.Context(), phone)
		if errors.Is(err, customer.ErrCustomerNotFound) {
			writeData(w, []CustomerDTO{})
			return
		}
		if err != nil {
			writeInternal(w, r, err)
			return
		}
		writeData(w, []CustomerDTO{toCustomerDTO(found)})
		return
	}

	customers, err := h.customers.List(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	dtos := make([]CustomerDTO, 0, len(customers))
	for _, c := range customers {
		dtos = append(dtos, toCustomerDTO(c))
	}
	writeData(w, dtos)
}

func (h *Handler) getCustomerHistory(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "customerID"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid customer id")
		return
	}

	coupons, err := h.scratches.History(r.Context(), customerID)
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	now := time.Now()
	dtos := make([]CouponDTO, 0, len(coupons))
	for _, c := range coupons {
		dtos = append(dtos, toCouponDTO(c, now))
	}
	writeData(w, dtos)
}
