package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"drivequest-fleet/internal/domain"
	"drivequest-fleet/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrVehicleNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidVehicle), errors.Is(err, domain.ErrInvalidPeriod):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicatePlate), errors.Is(err, domain.ErrAmbiguousPeriod):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: err.Error(), RequestID: RequestIDFrom(r.Context())}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Error = domain.ErrInvalidVehicle.Error()
		resp.Fields = verr.Fields
	}
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err, "request_id", resp.RequestID)
		resp.Error = "internal error"
	}
	writeJSON(w, status, resp)
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg, RequestID: RequestIDFrom(r.Context())})
}

// writeConflict answers a booking operation the calendar refused.
func writeConflict(w http.ResponseWriter, r *http.Request, msg string) {
	writeJSON(w, http.StatusConflict, ErrorResponse{Error: msg, RequestID: RequestIDFrom(r.Context())})
}
