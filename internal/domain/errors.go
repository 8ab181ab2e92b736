package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidVehicle  = errors.New("invalid vehicle")
	ErrDuplicatePlate  = errors.New("duplicate license plate")
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrPersistence     = errors.New("persistence failure")
	ErrAmbiguousPeriod = errors.New("more than one rental period ends on that date")
	ErrInvalidPeriod   = errors.New("invalid rental period")
)

// ValidationError lists every failed field of a vehicle. It matches ErrInvalidVehicle with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidVehicle, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidVehicle
}
