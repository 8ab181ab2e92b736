package http

import (
	"drivequest-fleet/internal/domain"
)

// VehicleRequest is the body of vehicle create and update calls. Capacity is
// kilograms for CARGO and seats for PASSENGER.
type VehicleRequest struct {
	Plate      string             `json:"plate"`
	Model      string             `json:"model"`
	Year       int                `json:"year"`
	DailyPrice float64            `json:"daily_price"`
	RentalDays int                `json:"rental_days"`
	Type       domain.VehicleType `json:"type"`
	Capacity   int                `json:"capacity"`
}

type VehicleResponse struct {
	Plate      string             `json:"plate"`
	Model      string             `json:"model"`
	Year       int                `json:"year"`
	DailyPrice float64            `json:"daily_price"`
	RentalDays int                `json:"rental_days"`
	Available  bool               `json:"available"`
	LongTerm   bool               `json:"long_term"`
	Type       domain.VehicleType `json:"type"`
	Capacity   int                `json:"capacity"`
}

// RentalRequest books a vehicle. Exactly one form is used: start and end,
// until (from today), or from with duration_days (0 means open ended).
type RentalRequest struct {
	Start        *domain.Date `json:"start,omitempty"`
	End          *domain.Date `json:"end,omitempty"`
	Until        *domain.Date `json:"until,omitempty"`
	From         *domain.Date `json:"from,omitempty"`
	DurationDays int          `json:"duration_days,omitempty"`
}

type ExtendRequest struct {
	OriginalEnd domain.Date `json:"original_end"`
	NewEnd      domain.Date `json:"new_end"`
}

type RentalPeriodResponse struct {
	Start domain.Date `json:"start"`
	End   domain.Date `json:"end"`
	Days  int         `json:"days"`
}

type RentalPeriodsResponse struct {
	Plate   string                 `json:"plate"`
	Periods []RentalPeriodResponse `json:"periods"`
}

type AvailabilityResponse struct {
	Plate     string      `json:"plate"`
	Start     domain.Date `json:"start"`
	End       domain.Date `json:"end"`
	Available bool        `json:"available"`
}

type ErrorResponse struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}
