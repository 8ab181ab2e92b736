package flatfile

import (
	"fmt"
	"strconv"
	"strings"

	"drivequest-fleet/internal/domain"
)

// Vehicle records: TYPE;PLATE;MODEL;YEAR;DAILY_PRICE;RENTAL_DAYS;CAPACITY;AVAILABLE.
// AVAILABLE is optional on read and defaults to true.
const (
	vehicleFields       = 8
	legacyVehicleFields = 7
	rentalPeriodFields  = 3
)

func encodeVehicle(v *domain.Vehicle) string {
	capacity := 0
	if v.Kind != nil {
		capacity = v.Kind.Capacity()
	}
	return strings.Join([]string{
		string(v.Type()),
		v.Plate,
		fieldSanitizer.Replace(v.Model),
		strconv.Itoa(v.Year),
		strconv.FormatFloat(v.DailyPrice, 'f', -1, 64),
		strconv.Itoa(v.RentalDays),
		strconv.Itoa(capacity),
		strconv.FormatBool(v.Available),
	}, separator)
}

func decodeVehicle(line string) (domain.Vehicle, error) {
	parts := strings.Split(line, separator)
	if len(parts) != vehicleFields && len(parts) != legacyVehicleFields {
		return domain.Vehicle{}, fmt.Errorf("expected %d or %d fields, got %d", legacyVehicleFields, vehicleFields, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	year, err := strconv.Atoi(parts[3])
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("year %q: %w", parts[3], err)
	}
	price, err := strconv.ParseFloat(parts[4], 64)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("daily price %q: %w", parts[4], err)
	}
	days, err := strconv.Atoi(parts[5])
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("rental days %q: %w", parts[5], err)
	}
	capacity, err := strconv.Atoi(parts[6])
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("capacity %q: %w", parts[6], err)
	}
	kind, ok := domain.KindOf(domain.VehicleType(strings.ToUpper(parts[0])), capacity)
	if !ok {
		return domain.Vehicle{}, fmt.Errorf("unknown vehicle type %q", parts[0])
	}
	available := true
	if len(parts) == vehicleFields {
		available, err = strconv.ParseBool(parts[7])
		if err != nil {
			return domain.Vehicle{}, fmt.Errorf("available %q: %w", parts[7], err)
		}
	}

	return domain.Vehicle{
		Plate:      domain.NormalizePlate(parts[1]),
		Model:      parts[2],
		Year:       year,
		DailyPrice: price,
		RentalDays: days,
		Available:  available,
		Kind:       kind,
	}, nil
}

// Rental period records: PLATE;START;END with yyyy-mm-dd dates.
func encodeRentalPeriod(p domain.RentalPeriod) string {
	return strings.Join([]string{p.Plate, p.Start.String(), p.End.String()}, separator)
}

func decodeRentalPeriod(line string) (domain.RentalPeriod, error) {
	parts := strings.Split(line, separator)
	if len(parts) != rentalPeriodFields {
		return domain.RentalPeriod{}, fmt.Errorf("expected %d fields, got %d", rentalPeriodFields, len(parts))
	}
	start, err := domain.ParseDate(strings.TrimSpace(parts[1]))
	if err != nil {
		return domain.RentalPeriod{}, err
	}
	end, err := domain.ParseDate(strings.TrimSpace(parts[2]))
	if err != nil {
		return domain.RentalPeriod{}, err
	}
	return domain.RentalPeriod{
		Plate: domain.NormalizePlate(parts[0]),
		Start: start,
		End:   end,
	}, nil
}
