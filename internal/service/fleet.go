package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drivequest-fleet/internal/domain"
	"drivequest-fleet/internal/logger"
	"drivequest-fleet/internal/metrics"
	"drivequest-fleet/internal/rentalperiod"
	"drivequest-fleet/internal/repository"
)

// Booking operation labels reported to the BookingRecorder.
const (
	OperationRent   = "rent"
	OperationExtend = "extend"
	OperationFinish = "finish"
)

type fleetService struct {
	vehicles VehicleService
	tracker  *rentalperiod.Tracker
	periods  repository.RentalPeriodRepository
	recorder BookingRecorder

	locks *plateLocks
	now   func() time.Time
}

// NewFleetService wires the registry to the period tracker. recorder may be nil.
func NewFleetService(
	vehicles VehicleService,
	tracker *rentalperiod.Tracker,
	periods repository.RentalPeriodRepository,
	recorder BookingRecorder,
) FleetService {
	return &fleetService{
		vehicles: vehicles,
		tracker:  tracker,
		periods:  periods,
		recorder: recorder,
		locks:    newPlateLocks(),
		now:      time.Now,
	}
}

// lockPlate serializes booking operations on one plate.
func (s *fleetService) lockPlate(plate string) func() {
	return s.locks.lock(plate)
}

func (s *fleetService) IsVehicleAvailable(ctx context.Context, plate string, start, end domain.Date) bool {
	v, err := s.vehicles.FindByPlate(ctx, plate)
	if err != nil || !v.Available {
		return false
	}
	return s.tracker.IsAvailable(v.Plate, start, end)
}

func (s *fleetService) RentVehicle(ctx context.Context, plate string, start, end domain.Date) (bool, error) {
	plate = domain.NormalizePlate(plate)
	logger.EnterMethod("fleetService.RentVehicle", "plate", plate, "start", start, "end", end)

	ok, err := s.rent(ctx, plate, start, end)
	s.observe(ctx, OperationRent, ok, err)
	if err != nil {
		logger.ExitMethodWithError("fleetService.RentVehicle", err, "plate", plate)
		return false, err
	}
	logger.ExitMethod("fleetService.RentVehicle", "plate", plate, "success", ok)
	return ok, nil
}

func (s *fleetService) rent(ctx context.Context, plate string, start, end domain.Date) (bool, error) {
	days, err := bookingDays(start, end)
	if err != nil {
		return false, err
	}

	unlock := s.lockPlate(plate)
	defer unlock()

	v, err := s.vehicles.FindByPlate(ctx, plate)
	if err != nil {
		return false, err
	}
	if !v.Available {
		return false, nil
	}
	if !s.tracker.Book(plate, start, end) {
		return false, nil
	}

	v.RentalDays = days
	v.Available = false
	if err := s.commit(ctx, v); err != nil {
		s.tracker.Cancel(plate, start)
		s.repersistPeriods(ctx, plate)
		return false, err
	}
	return true, nil
}

// RentVehicleUntil books from today through until.
func (s *fleetService) RentVehicleUntil(ctx context.Context, plate string, until domain.Date) (bool, error) {
	return s.RentVehicle(ctx, plate, domain.DateOf(s.now()), until)
}

// RentVehicleFrom books from through from+durationDays. A zero duration is an
// open-ended booking capped at the longest allowed rental.
func (s *fleetService) RentVehicleFrom(ctx context.Context, plate string, from domain.Date, durationDays int) (bool, error) {
	if durationDays < 0 {
		return false, fmt.Errorf("duration %d: %w", durationDays, domain.ErrInvalidPeriod)
	}
	end := from.AddDays(durationDays)
	if durationDays == 0 {
		end = from.AddDays(domain.MaxRentalDays - 1)
	}
	return s.RentVehicle(ctx, plate, from, end)
}

func (s *fleetService) ExtendRental(ctx context.Context, plate string, originalEnd, newEnd domain.Date) (bool, error) {
	plate = domain.NormalizePlate(plate)
	logger.EnterMethod("fleetService.ExtendRental", "plate", plate, "originalEnd", originalEnd, "newEnd", newEnd)

	ok, err := s.extend(ctx, plate, originalEnd, newEnd)
	s.observe(ctx, OperationExtend, ok, err)
	if err != nil {
		logger.ExitMethodWithError("fleetService.ExtendRental", err, "plate", plate)
		return false, err
	}
	logger.ExitMethod("fleetService.ExtendRental", "plate", plate, "success", ok)
	return ok, nil
}

func (s *fleetService) extend(ctx context.Context, plate string, originalEnd, newEnd domain.Date) (bool, error) {
	unlock := s.lockPlate(plate)
	defer unlock()

	v, err := s.vehicles.FindByPlate(ctx, plate)
	if err != nil {
		return false, err
	}

	start, matches := s.tracker.EndingOn(plate, originalEnd)
	switch {
	case matches == 0:
		return false, nil
	case matches > 1:
		return false, fmt.Errorf("extend %s from %s: %w", plate, originalEnd, domain.ErrAmbiguousPeriod)
	}
	days, err := bookingDays(start, newEnd)
	if err != nil {
		return false, err
	}
	if !s.tracker.Extend(plate, originalEnd, newEnd) {
		return false, nil
	}

	v.RentalDays = days
	if err := s.commit(ctx, v); err != nil {
		if !s.tracker.Extend(plate, newEnd, originalEnd) {
			logger.Error("Failed to revert rental extension", "plate", plate, "start", start, "end", originalEnd)
		}
		s.repersistPeriods(ctx, plate)
		return false, err
	}
	return true, nil
}

func (s *fleetService) FinishRental(ctx context.Context, plate string, start domain.Date) (bool, error) {
	plate = domain.NormalizePlate(plate)
	logger.EnterMethod("fleetService.FinishRental", "plate", plate, "start", start)

	ok, err := s.finish(ctx, plate, start)
	s.observe(ctx, OperationFinish, ok, err)
	if err != nil {
		logger.ExitMethodWithError("fleetService.FinishRental", err, "plate", plate)
		return false, err
	}
	logger.ExitMethod("fleetService.FinishRental", "plate", plate, "success", ok)
	return ok, nil
}

func (s *fleetService) finish(ctx context.Context, plate string, start domain.Date) (bool, error) {
	unlock := s.lockPlate(plate)
	defer unlock()

	v, err := s.vehicles.FindByPlate(ctx, plate)
	if err != nil {
		return false, err
	}
	if v.Available {
		return false, nil
	}
	end, booked := s.tracker.Periods(plate)[start]
	if !booked || !s.tracker.Cancel(plate, start) {
		return false, nil
	}

	v.Available = true
	if err := s.commit(ctx, v); err != nil {
		s.tracker.Book(plate, start, end)
		// The registry only changes after a successful write, so the vehicle
		// is still flagged rented here; that matches the restored interval.
		if len(s.tracker.Periods(plate)) == 0 {
			logger.Error("Rental period lost while reverting finish", "plate", plate, "start", start)
		}
		s.repersistPeriods(ctx, plate)
		return false, err
	}
	return true, nil
}

func (s *fleetService) VehicleRentalPeriods(ctx context.Context, plate string) map[domain.Date]domain.Date {
	return s.tracker.Periods(domain.NormalizePlate(plate))
}

// UpdateVehicle replaces a vehicle's descriptive fields. The availability flag
// belongs to the booking workflow and is carried over from the stored record,
// as are the rental days while the vehicle is rented.
func (s *fleetService) UpdateVehicle(ctx context.Context, vehicle *domain.Vehicle) error {
	plate := domain.NormalizePlate(vehicle.Plate)
	unlock := s.lockPlate(plate)
	defer unlock()

	current, err := s.vehicles.FindByPlate(ctx, plate)
	if err != nil {
		return err
	}
	v := *vehicle
	v.Plate = plate
	v.Available = current.Available
	if !current.Available {
		v.RentalDays = current.RentalDays
	}
	if err := s.vehicles.Update(ctx, &v); err != nil {
		return err
	}
	s.recordFleet(ctx)
	return nil
}

// RemoveVehicle deletes the vehicle together with its rental periods.
func (s *fleetService) RemoveVehicle(ctx context.Context, plate string) (bool, error) {
	plate = domain.NormalizePlate(plate)
	logger.EnterMethod("fleetService.RemoveVehicle", "plate", plate)

	unlock := s.lockPlate(plate)
	defer unlock()

	if !s.vehicles.Exists(ctx, plate) {
		logger.ExitMethod("fleetService.RemoveVehicle", "plate", plate, "removed", false)
		return false, nil
	}
	if err := s.periods.DeleteByVehicle(ctx, plate); err != nil {
		logger.ExitMethodWithError("fleetService.RemoveVehicle", err, "plate", plate)
		return false, err
	}
	removed, err := s.vehicles.Remove(ctx, plate)
	if err != nil {
		s.repersistPeriods(ctx, plate)
		logger.ExitMethodWithError("fleetService.RemoveVehicle", err, "plate", plate)
		return false, err
	}
	s.tracker.Forget(plate)
	s.recordFleet(ctx)

	logger.ExitMethod("fleetService.RemoveVehicle", "plate", plate, "removed", removed)
	return removed, nil
}

// RestorePeriods seeds the tracker from the period repository. Periods of
// unknown vehicles and overlapping sets are skipped with a warning. Skipped
// plates and plates with nothing stored are cleared, so a second call resyncs
// the tracker.
func (s *fleetService) RestorePeriods(ctx context.Context) error {
	logger.EnterMethod("fleetService.RestorePeriods")

	byPlate, err := s.periods.LoadAll(ctx)
	if err != nil {
		logger.ExitMethodWithError("fleetService.RestorePeriods", err)
		return err
	}
	for plate := range s.tracker.Snapshot() {
		if _, stored := byPlate[plate]; !stored {
			s.tracker.Forget(plate)
		}
	}
	restored := 0
	for plate, periods := range byPlate {
		if !s.vehicles.Exists(ctx, plate) {
			logger.Warn("Skipping rental periods of unknown vehicle", "plate", plate, "count", len(periods))
			s.tracker.Forget(plate)
			continue
		}
		if !s.tracker.Restore(plate, periods) {
			logger.Warn("Skipping overlapping rental periods", "plate", plate, "count", len(periods))
			s.tracker.Forget(plate)
			continue
		}
		restored += len(periods)
	}
	s.recordFleet(ctx)

	logger.ExitMethod("fleetService.RestorePeriods", "restored", restored)
	return nil
}

// OverdueVehicles lists rented vehicles whose last booked day is before today.
func (s *fleetService) OverdueVehicles(ctx context.Context, today domain.Date) []domain.OverdueRental {
	var overdue []domain.OverdueRental
	for _, v := range s.vehicles.List(ctx) {
		if v.Available {
			continue
		}
		periods := s.tracker.Periods(v.Plate)
		if len(periods) == 0 {
			continue
		}
		var last domain.Date
		for _, end := range periods {
			if end.After(last) {
				last = end
			}
		}
		if last.Before(today) {
			overdue = append(overdue, domain.OverdueRental{
				Plate:    v.Plate,
				LastEnd:  last,
				DaysLate: today.DaysSince(last),
			})
		}
	}
	return overdue
}

// commit persists the plate's periods, then the vehicle record.
func (s *fleetService) commit(ctx context.Context, v *domain.Vehicle) error {
	if err := s.persistPeriods(ctx, v.Plate); err != nil {
		return err
	}
	return s.vehicles.Update(ctx, v)
}

func (s *fleetService) persistPeriods(ctx context.Context, plate string) error {
	return s.periods.Replace(ctx, plate, domain.SortedPeriods(plate, s.tracker.Periods(plate)))
}

// repersistPeriods writes the reverted tracker state back after a failed
// commit. Failure here is logged only; the original error is what the caller sees.
func (s *fleetService) repersistPeriods(ctx context.Context, plate string) {
	if err := s.persistPeriods(ctx, plate); err != nil {
		logger.Error("Failed to restore persisted rental periods", "plate", plate, "error", err)
	}
}

func (s *fleetService) observe(ctx context.Context, operation string, ok bool, err error) {
	if s.recorder == nil {
		return
	}
	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil && errors.Is(err, domain.ErrPersistence):
		outcome = metrics.OutcomeError
	case err != nil:
		outcome = metrics.OutcomeRejected
	case !ok:
		outcome = metrics.OutcomeConflict
	}
	s.recorder.RecordBooking(operation, outcome)
	if ok {
		s.recordFleet(ctx)
	}
}

func (s *fleetService) recordFleet(ctx context.Context) {
	if s.recorder != nil {
		s.recorder.RecordFleet(s.vehicles.Stats(ctx))
	}
}

// bookingDays returns the inclusive length of [start, end].
func bookingDays(start, end domain.Date) (int, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("%s ends before it starts (%s): %w", end, start, domain.ErrInvalidPeriod)
	}
	days := end.DaysSince(start) + 1
	if days > domain.MaxRentalDays {
		return 0, fmt.Errorf("%d days exceeds %d: %w", days, domain.MaxRentalDays, domain.ErrInvalidPeriod)
	}
	return days, nil
}
