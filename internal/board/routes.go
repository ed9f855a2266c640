package board

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Middleware = func(http.Handler) http.Handler

// StaffMiddlewares narrow individual back-office routes beyond staff auth.
type StaffMiddlewares struct {
	// Refresh wraps POST /refresh (rate limiting).
	Refresh []Middleware
	// Admin wraps the routes that change the activation record.
	Admin []Middleware
}

// Mount registers the public read-only board routes.
func (h Handlers) Mount(r chi.Router) {
	r.Get("/rentals", h.Rentals)
	r.Get("/vehicles", h.Vehicles)
	r.Get("/status/{domain}", h.Canonicalize)
	r.Get("/status/{domain}/tokens", h.Tokens)
}

// MountStaff registers the back-office routes; callers wrap them in staff auth.
func (h Handlers) MountStaff(r chi.Router, mw StaffMiddlewares) {
	r.With(mw.Refresh...).Post("/refresh", h.Refresh)
	r.Get("/activations", h.Activations)
	r.Get("/activations/log", h.ActivationLog)
	r.With(mw.Admin...).Delete("/activations", h.ResetActivations)
	r.With(mw.Admin...).Delete("/activations/{key}", h.ForgetActivation)
}
