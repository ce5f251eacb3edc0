package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Users     *UserReservationHandler
	Admin     *AdminHandler
	AdminAuth *AdminAuthHandler
	Stripe    *StripeWebhookHandler
	// AdminAuthMiddleware guards every /admin route except login.
	AdminAuthMiddleware mux.MiddlewareFunc
}

// RegisterRoutes mounts the public API and the admin API on r. Optional
// handlers left nil are not mounted.
func RegisterRoutes(r *mux.Router, h Handlers) {
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.Users.Health).Methods(http.MethodGet)
	api.HandleFunc("/quote", h.Users.Quote).Methods(http.MethodPost)
	api.HandleFunc("/availability", h.Users.CheckAvailability).Methods(http.MethodPost)
	api.HandleFunc("/reservations", h.Users.CreateReservation).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id}", h.Users.GetReservation).Methods(http.MethodGet)

	if h.Stripe != nil {
		api.HandleFunc("/reservations/{id}/deposit", h.Stripe.StartDeposit).Methods(http.MethodPost)
		api.HandleFunc("/stripe/webhook", h.Stripe.HandleWebhook).Methods(http.MethodPost)
	}

	if h.AdminAuth != nil {
		r.HandleFunc("/admin/login", h.AdminAuth.Login).Methods(http.MethodPost)
	}
	if h.Admin != nil && h.AdminAuthMiddleware != nil {
		admin := r.PathPrefix("/admin").Subrouter()
		admin.Use(h.AdminAuthMiddleware)
		admin.HandleFunc("/reservations", h.Admin.ListReservations).Methods(http.MethodGet)
		admin.HandleFunc("/reservations/{id}/status", h.Admin.UpdateReservationStatus).Methods(http.MethodPatch)
	}
}
