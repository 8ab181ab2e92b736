package domain

import "sort"

// RentalPeriod is one booking of a vehicle. Start and End are both inclusive.
type RentalPeriod struct {
	Plate string `json:"plate"`
	Start Date   `json:"start"`
	End   Date   `json:"end"`
}

// Days returns the inclusive length of the period.
func (p RentalPeriod) Days() int {
	return p.End.DaysSince(p.Start) + 1
}

// Overlaps reports whether the two closed ranges share at least one day.
// Touching ranges (one ends on N, the other starts on N+1) do not overlap.
func Overlaps(start, end, otherStart, otherEnd Date) bool {
	return !(end.Before(otherStart) || start.After(otherEnd))
}

// SortedPeriods flattens a start->end mapping into periods ordered by start.
func SortedPeriods(plate string, periods map[Date]Date) []RentalPeriod {
	out := make([]RentalPeriod, 0, len(periods))
	for start, end := range periods {
		out = append(out, RentalPeriod{Plate: plate, Start: start, End: end})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// OverdueRental is a vehicle still flagged rented whose bookings all ended before a reference day.
type OverdueRental struct {
	Plate    string `json:"plate"`
	LastEnd  Date   `json:"last_end"`
	DaysLate int    `json:"days_late"`
}
