package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

const (
	MinVehicleYear       = 1900
	MaxRentalDays        = 365
	MaxLoadCapacityKg    = 20000
	MaxPassengerCapacity = 50
)

var platePattern = regexp.MustCompile(`^[A-Z]{2,4}\d{2,4}$`)

// NormalizePlate strips whitespace and upper-cases a license plate.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), ""))
}

func IsValidPlate(plate string) bool {
	return platePattern.MatchString(NormalizePlate(plate))
}

func IsValidPrice(price float64) bool {
	return price > 0 && !math.IsInf(price, 0) && !math.IsNaN(price)
}

func IsValidRentalDays(days int) bool {
	return days >= 1 && days <= MaxRentalDays
}

// Validate checks every field and returns a *ValidationError naming all failures, or nil.
func (v *Vehicle) Validate() error {
	return v.validateAt(time.Now().Year())
}

func (v *Vehicle) validateAt(currentYear int) error {
	fields := map[string]string{}

	if !IsValidPlate(v.Plate) {
		fields["plate"] = "must match LLLL99 or LL9999"
	}
	if strings.TrimSpace(v.Model) == "" {
		fields["model"] = "must not be empty"
	}
	if v.Year < MinVehicleYear || v.Year > currentYear {
		fields["year"] = fmt.Sprintf("must be between %d and %d", MinVehicleYear, currentYear)
	}
	if !IsValidPrice(v.DailyPrice) {
		fields["daily_price"] = "must be a finite number greater than zero"
	}
	if !IsValidRentalDays(v.RentalDays) {
		fields["rental_days"] = fmt.Sprintf("must be between 1 and %d", MaxRentalDays)
	}

	switch k := v.Kind.(type) {
	case Cargo:
		if k.LoadCapacityKg < 1 || k.LoadCapacityKg > MaxLoadCapacityKg {
			fields["load_capacity_kg"] = fmt.Sprintf("must be between 1 and %d", MaxLoadCapacityKg)
		}
	case Passenger:
		if k.PassengerCapacity < 1 || k.PassengerCapacity > MaxPassengerCapacity {
			fields["passenger_capacity"] = fmt.Sprintf("must be between 1 and %d", MaxPassengerCapacity)
		}
	default:
		fields["kind"] = "must be cargo or passenger"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
