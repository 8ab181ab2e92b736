package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCargo() *Vehicle {
	return &Vehicle{
		Plate:      "ABCD12",
		Model:      "Volvo FH",
		Year:       2020,
		DailyPrice: 10000,
		RentalDays: 1,
		Available:  true,
		Kind:       Cargo{LoadCapacityKg: 8000},
	}
}

func TestParseDate(t *testing.T) {
	t.Run("Valid date", func(t *testing.T) {
		d, err := ParseDate("2024-01-15")
		require.NoError(t, err)
		assert.Equal(t, Date{Year: 2024, Month: time.January, Day: 15}, d)
		assert.Equal(t, "2024-01-15", d.String())
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseDate("2024/01/15")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "expected yyyy-mm-dd")
	})

	t.Run("Invalid day", func(t *testing.T) {
		_, err := ParseDate("2024-02-30")
		assert.Error(t, err)
	})
}

func TestDateArithmetic(t *testing.T) {
	jan31 := NewDate(2024, time.January, 31)
	assert.Equal(t, NewDate(2024, time.February, 1), jan31.AddDays(1))
	assert.Equal(t, NewDate(2024, time.March, 1), NewDate(2024, time.February, 28).AddDays(2))
	assert.Equal(t, 29, NewDate(2024, time.March, 1).DaysSince(NewDate(2024, time.February, 1)))
	assert.Equal(t, NewDate(2025, time.January, 31), jan31.AddYears(1))
	assert.True(t, jan31.Before(jan31.AddDays(1)))
	assert.True(t, jan31.After(jan31.AddDays(-1)))
	assert.False(t, jan31.Before(jan31))
}

func TestDateText(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalText([]byte("2024-03-05")))
	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", string(out))
	assert.Error(t, d.UnmarshalText([]byte("yesterday")))
}

func TestOverlaps(t *testing.T) {
	d := func(day int) Date { return NewDate(2024, time.January, day) }

	tests := []struct {
		name     string
		a, b     [2]Date
		expected bool
	}{
		{"shared boundary day", [2]Date{d(1), d(10)}, [2]Date{d(10), d(12)}, true},
		{"adjacent", [2]Date{d(1), d(10)}, [2]Date{d(11), d(12)}, false},
		{"contained", [2]Date{d(1), d(10)}, [2]Date{d(3), d(4)}, true},
		{"before", [2]Date{d(5), d(10)}, [2]Date{d(1), d(4)}, false},
		{"single day inside", [2]Date{d(5), d(5)}, [2]Date{d(1), d(9)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlaps(tt.a[0], tt.a[1], tt.b[0], tt.b[1]))
			assert.Equal(t, tt.expected, Overlaps(tt.b[0], tt.b[1], tt.a[0], tt.a[1]))
		})
	}
}

func TestRentalPeriod_Days(t *testing.T) {
	p := RentalPeriod{Start: NewDate(2024, time.March, 1), End: NewDate(2024, time.March, 5)}
	assert.Equal(t, 5, p.Days())
}

func TestSortedPeriods(t *testing.T) {
	periods := map[Date]Date{
		NewDate(2024, time.May, 1):   NewDate(2024, time.May, 3),
		NewDate(2024, time.April, 1): NewDate(2024, time.April, 2),
	}
	sorted := SortedPeriods("ABCD12", periods)
	require.Len(t, sorted, 2)
	assert.Equal(t, NewDate(2024, time.April, 1), sorted[0].Start)
	assert.Equal(t, "ABCD12", sorted[1].Plate)
}

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "ABCD12", NormalizePlate(" ab cd12 "))
	assert.True(t, IsValidPlate("ab1234"))
	assert.False(t, IsValidPlate("A1"))
	assert.False(t, IsValidPlate("ABCDE123"))
}

func TestVehicle_Validate(t *testing.T) {
	t.Run("Valid cargo", func(t *testing.T) {
		assert.NoError(t, validCargo().Validate())
	})

	t.Run("Valid passenger", func(t *testing.T) {
		v := validCargo()
		v.Kind = Passenger{PassengerCapacity: 12}
		assert.NoError(t, v.Validate())
	})

	t.Run("Collects every failed field", func(t *testing.T) {
		v := &Vehicle{
			Plate:      "??",
			Year:       1800,
			DailyPrice: 0,
			RentalDays: 400,
			Kind:       Cargo{LoadCapacityKg: 30000},
		}
		err := v.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidVehicle))

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "plate")
		assert.Contains(t, verr.Fields, "model")
		assert.Contains(t, verr.Fields, "year")
		assert.Contains(t, verr.Fields, "daily_price")
		assert.Contains(t, verr.Fields, "rental_days")
		assert.Contains(t, verr.Fields, "load_capacity_kg")
	})

	t.Run("Future year rejected", func(t *testing.T) {
		v := validCargo()
		v.Year = time.Now().Year() + 1
		assert.ErrorIs(t, v.Validate(), ErrInvalidVehicle)
	})

	t.Run("Missing kind", func(t *testing.T) {
		v := validCargo()
		v.Kind = nil
		err := v.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "kind")
	})

	t.Run("Passenger capacity bound", func(t *testing.T) {
		v := validCargo()
		v.Kind = Passenger{PassengerCapacity: 51}
		assert.ErrorIs(t, v.Validate(), ErrInvalidVehicle)
	})
}

func TestVehicleQuery_Matches(t *testing.T) {
	v := validCargo()

	assert.True(t, VehicleQuery{}.Matches(v))
	assert.True(t, VehicleQuery{Year: 2020, Type: VehicleTypeCargo}.Matches(v))
	assert.False(t, VehicleQuery{Year: 2019}.Matches(v))
	assert.False(t, VehicleQuery{MinPrice: 10001}.Matches(v))
	assert.False(t, VehicleQuery{MaxPrice: 9999}.Matches(v))
	assert.False(t, VehicleQuery{Type: VehicleTypePassenger}.Matches(v))
}

func TestKindOf(t *testing.T) {
	k, ok := KindOf(VehicleTypePassenger, 9)
	require.True(t, ok)
	assert.Equal(t, Passenger{PassengerCapacity: 9}, k)

	_, ok = KindOf("BUS", 9)
	assert.False(t, ok)
}
