package domain

type VehicleType string

const (
	VehicleTypeCargo     VehicleType = "CARGO"
	VehicleTypePassenger VehicleType = "PASSENGER"
)

// LongTermRentalDays is the rental length from which a rental counts as long-term.
const LongTermRentalDays = 7

// VehicleKind carries the type-specific capacity of a vehicle. It is either
// Cargo or Passenger.
type VehicleKind interface {
	Type() VehicleType
	Capacity() int
	isVehicleKind()
}

// Cargo is a load-carrying vehicle; capacity is in kilograms.
type Cargo struct {
	LoadCapacityKg int `json:"load_capacity_kg"`
}

func (Cargo) Type() VehicleType { return VehicleTypeCargo }
func (c Cargo) Capacity() int   { return c.LoadCapacityKg }
func (Cargo) isVehicleKind()    {}

// Passenger is a people-carrying vehicle; capacity is in seats.
type Passenger struct {
	PassengerCapacity int `json:"passenger_capacity"`
}

func (Passenger) Type() VehicleType { return VehicleTypePassenger }
func (p Passenger) Capacity() int   { return p.PassengerCapacity }
func (Passenger) isVehicleKind()    {}

// KindOf builds the variant for a type tag. ok is false for unknown tags.
func KindOf(t VehicleType, capacity int) (kind VehicleKind, ok bool) {
	switch t {
	case VehicleTypeCargo:
		return Cargo{LoadCapacityKg: capacity}, true
	case VehicleTypePassenger:
		return Passenger{PassengerCapacity: capacity}, true
	}
	return nil, false
}

type Vehicle struct {
	Plate      string      `json:"plate"`
	Model      string      `json:"model"`
	Year       int         `json:"year"`
	DailyPrice float64     `json:"daily_price"`
	RentalDays int         `json:"rental_days"`
	Available  bool        `json:"available"`
	Kind       VehicleKind `json:"-"`
}

func (v *Vehicle) Type() VehicleType {
	if v.Kind == nil {
		return ""
	}
	return v.Kind.Type()
}

func (v *Vehicle) IsLongTermRental() bool {
	return v.RentalDays >= LongTermRentalDays
}

// VehicleQuery filters a vehicle listing. Zero values match everything.
type VehicleQuery struct {
	Year     int
	MinPrice float64
	MaxPrice float64
	Type     VehicleType
}

func (q VehicleQuery) Matches(v *Vehicle) bool {
	if q.Year != 0 && v.Year != q.Year {
		return false
	}
	if q.MinPrice != 0 && v.DailyPrice < q.MinPrice {
		return false
	}
	if q.MaxPrice != 0 && v.DailyPrice > q.MaxPrice {
		return false
	}
	if q.Type != "" && v.Type() != q.Type {
		return false
	}
	return true
}

// FleetStats summarizes the registry contents.
type FleetStats struct {
	Total         int                 `json:"total"`
	LongTermCount int                 `json:"long_term_count"`
	RentedCount   int                 `json:"rented_count"`
	MinPrice      float64             `json:"min_price"`
	MaxPrice      float64             `json:"max_price"`
	AvgPrice      float64             `json:"avg_price"`
	SumPrice      float64             `json:"sum_price"`
	ByType        map[VehicleType]int `json:"by_type"`
	ByYear        map[int]int         `json:"by_year"`
}
