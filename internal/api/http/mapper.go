package http

import (
	"fmt"

	"drivequest-fleet/internal/domain"
)

func toDomainVehicle(req *VehicleRequest) (*domain.Vehicle, error) {
	kind, ok := domain.KindOf(req.Type, req.Capacity)
	if !ok {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"type": fmt.Sprintf("must be %s or %s", domain.VehicleTypeCargo, domain.VehicleTypePassenger),
		}}
	}
	return &domain.Vehicle{
		Plate:      req.Plate,
		Model:      req.Model,
		Year:       req.Year,
		DailyPrice: req.DailyPrice,
		RentalDays: req.RentalDays,
		Kind:       kind,
	}, nil
}

func toVehicleResponse(v *domain.Vehicle) VehicleResponse {
	resp := VehicleResponse{
		Plate:      v.Plate,
		Model:      v.Model,
		Year:       v.Year,
		DailyPrice: v.DailyPrice,
		RentalDays: v.RentalDays,
		Available:  v.Available,
		LongTerm:   v.IsLongTermRental(),
		Type:       v.Type(),
	}
	if v.Kind != nil {
		resp.Capacity = v.Kind.Capacity()
	}
	return resp
}

func toVehicleResponses(vehicles []domain.Vehicle) []VehicleResponse {
	out := make([]VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		out = append(out, toVehicleResponse(&vehicles[i]))
	}
	return out
}

func toRentalPeriodsResponse(plate string, periods map[domain.Date]domain.Date) RentalPeriodsResponse {
	sorted := domain.SortedPeriods(plate, periods)
	out := RentalPeriodsResponse{Plate: plate, Periods: make([]RentalPeriodResponse, 0, len(sorted))}
	for _, p := range sorted {
		out.Periods = append(out.Periods, RentalPeriodResponse{Start: p.Start, End: p.End, Days: p.Days()})
	}
	return out
}
