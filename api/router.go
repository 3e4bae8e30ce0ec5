package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/VishalDET/ASG/service/customer"
	"github.com/VishalDET/ASG/service/offer"
	"github.com/VishalDET/ASG/service/redemption"
	"github.com/VishalDET/ASG/service/scratch"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	customers   *customer.Service
	offers      *offer.Service
	scratches   *scratch.Service
	redemptions *redemption.Service
}

// NewHandler ...
func NewHandler(
	customers *customer.Service,
	offers *offer.Service,
	scratches *scratch.Service,
	redemptions *redemption.Service,
) *Handler {
	return &Handler{
		customers:   customers,
		offers:      offers,
		scratches:   scratches,
		redemptions: redemptions,
	}
}

// Routes ...
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Route("/customer", func(r chi.Router) {
			r.Post("/register", h.registerCustomer)
			r.Get("/", h.getCustomers)
			r.Get("/{customerID}/history", h.getCustomerHistory)
		})

		r.Route("/offer", func(r chi.Router) {
			r.Get("/", h.listOffers)
			r.Post("/", h.createOffer)
			r.Put("/{offerID}", h.updateOffer)
			r.Post("/{offerID}/status", h.setOfferStatus)
		})

		r.Route("/scratch", func(r chi.Router) {
			r.Post("/", h.scratchDraw)
			r.Post("/reveal", h.scratchReveal)
		})

		r.Route("/redemption", func(r chi.Router) {
			r.Get("/validate/{code}", h.validateCoupon)
			r.Post("/redeem", h.redeemCoupon)
		})

		r.Get("/analytics/summary", h.analyticsSummary)
	})

	return r
}
