package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter mounts the API under /api/v1. metricsHandler, when non-nil, is
// served at /metrics outside the API prefix.
func NewRouter(h *Handler, observer RequestObserver, metricsHandler http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, loggingMiddleware(observer))

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.Stats).Methods(http.MethodGet)
	api.HandleFunc("/invoices/compare", h.CompareInvoices).Methods(http.MethodGet)

	api.HandleFunc("/vehicles", h.ListVehicles).Methods(http.MethodGet)
	api.HandleFunc("/vehicles", h.CreateVehicle).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{plate}", h.GetVehicle).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{plate}", h.UpdateVehicle).Methods(http.MethodPut)
	api.HandleFunc("/vehicles/{plate}", h.DeleteVehicle).Methods(http.MethodDelete)
	api.HandleFunc("/vehicles/{plate}/invoice", h.Invoice).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{plate}/availability", h.Availability).Methods(http.MethodGet)

	api.HandleFunc("/vehicles/{plate}/rentals", h.RentalPeriods).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{plate}/rentals", h.Rent).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{plate}/rentals/extend", h.Extend).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{plate}/rentals/{start}", h.Finish).Methods(http.MethodDelete)

	return r
}
