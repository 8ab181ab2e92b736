package utils

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"drivequest-fleet/internal/domain"
)

// Rates holds the tax and discount parameters applied to every invoice.
type Rates struct {
	VATRate           float64
	CargoDiscount     float64
	PassengerDiscount float64
	LongTermDays      int

	// Flat bonuses stacked on top of the percentage discount.
	CargoLongTermBonus      float64
	CargoBonusMinLoadKg     int
	PassengerLargeBonus     float64
	PassengerLargeMinSeats  int
	PassengerMediumBonus    float64
	PassengerMediumMinSeats int
}

// DefaultRates returns 19% VAT, 7% cargo and 12% passenger discounts.
func DefaultRates() Rates {
	return Rates{
		VATRate:                 0.19,
		CargoDiscount:           0.07,
		PassengerDiscount:       0.12,
		LongTermDays:            domain.LongTermRentalDays,
		CargoLongTermBonus:      5000,
		CargoBonusMinLoadKg:     5000,
		PassengerLargeBonus:     8000,
		PassengerLargeMinSeats:  15,
		PassengerMediumBonus:    3000,
		PassengerMediumMinSeats: 8,
	}
}

var ErrNoRentalDays = errors.New("rental days must be greater than zero")

func (r Rates) isLongTerm(v *domain.Vehicle) bool {
	return v.RentalDays >= r.LongTermDays
}

// Discount is the percentage discount of the vehicle's type plus any
// capacity bonus that applies.
func (r Rates) Discount(v *domain.Vehicle, subtotal float64) float64 {
	switch k := v.Kind.(type) {
	case domain.Cargo:
		discount := subtotal * r.CargoDiscount
		if r.isLongTerm(v) && k.LoadCapacityKg > r.CargoBonusMinLoadKg {
			discount += r.CargoLongTermBonus
		}
		return discount
	case domain.Passenger:
		discount := subtotal * r.PassengerDiscount
		if r.isLongTerm(v) && k.PassengerCapacity > r.PassengerLargeMinSeats {
			discount += r.PassengerLargeBonus
		} else if k.PassengerCapacity > r.PassengerMediumMinSeats {
			discount += r.PassengerMediumBonus
		}
		return discount
	}
	return 0
}

// CalculateInvoice prices the vehicle's current rental length:
// total = subtotal + VAT - discount.
func CalculateInvoice(v *domain.Vehicle, rates Rates) domain.Invoice {
	subtotal := v.DailyPrice * float64(v.RentalDays)
	vat := subtotal * rates.VATRate
	discount := rates.Discount(v, subtotal)

	return domain.Invoice{
		Plate:      v.Plate,
		Model:      v.Model,
		Year:       v.Year,
		Type:       v.Type(),
		RentalDays: v.RentalDays,
		DailyPrice: v.DailyPrice,
		Subtotal:   subtotal,
		VATRate:    rates.VATRate,
		VAT:        vat,
		Discount:   discount,
		Total:      subtotal + vat - discount,
		LongTerm:   rates.isLongTerm(v),
	}
}

// CompareCosts returns both invoices and first.Total - second.Total.
func CompareCosts(first, second *domain.Vehicle, rates Rates) domain.CostComparison {
	a := CalculateInvoice(first, rates)
	b := CalculateInvoice(second, rates)
	return domain.CostComparison{First: a, Second: b, Difference: a.Total - b.Total}
}

// AverageDailyCost is the invoice total spread over the rental days.
func AverageDailyCost(v *domain.Vehicle, rates Rates) (float64, error) {
	if v.RentalDays <= 0 {
		return 0, ErrNoRentalDays
	}
	return CalculateInvoice(v, rates).Total / float64(v.RentalDays), nil
}

// Summary renders an invoice as a plain-text receipt.
func Summary(inv domain.Invoice, capacity int) string {
	var b strings.Builder
	b.WriteString("RENTAL SUMMARY\n")
	b.WriteString("-------------------\n")
	fmt.Fprintf(&b, "Plate: %s\n", inv.Plate)
	fmt.Fprintf(&b, "Model: %s (%d)\n", inv.Model, inv.Year)
	fmt.Fprintf(&b, "Rental days: %d\n", inv.RentalDays)
	fmt.Fprintf(&b, "Daily price: $%.2f\n", inv.DailyPrice)
	switch inv.Type {
	case domain.VehicleTypeCargo:
		fmt.Fprintf(&b, "Type: Cargo\nCapacity: %d kg\n", capacity)
	case domain.VehicleTypePassenger:
		fmt.Fprintf(&b, "Type: Passenger\nCapacity: %d passengers\n", capacity)
	}
	b.WriteString("\nCOST DETAIL\n")
	b.WriteString("-------------------\n")
	fmt.Fprintf(&b, "Subtotal: $%.2f\n", inv.Subtotal)
	fmt.Fprintf(&b, "VAT (%.0f%%): $%.2f\n", inv.VATRate*100, inv.VAT)
	fmt.Fprintf(&b, "Discount: $%.2f\n", inv.Discount)
	b.WriteString("-------------------\n")
	fmt.Fprintf(&b, "TOTAL: $%.2f\n", inv.Total)
	if inv.LongTerm {
		b.WriteString("\n* Long-term rental\n")
	}
	return b.String()
}

// ComparisonReport renders a CostComparison as text.
func ComparisonReport(c domain.CostComparison) string {
	var b strings.Builder
	b.WriteString("RENTAL COMPARISON\n")
	b.WriteString("-------------------------\n")
	for i, inv := range []domain.Invoice{c.First, c.Second} {
		fmt.Fprintf(&b, "\nOPTION %d:\n", i+1)
		fmt.Fprintf(&b, "- %s (%s)\n", inv.Model, inv.Plate)
		fmt.Fprintf(&b, "- Type: %s\n", inv.Type)
		fmt.Fprintf(&b, "- Days: %d\n", inv.RentalDays)
		fmt.Fprintf(&b, "- Total cost: $%.2f\n", inv.Total)
	}
	b.WriteString("\nRESULT:\n")
	switch {
	case c.Difference > 0:
		fmt.Fprintf(&b, "Option 1 costs $%.2f more than option 2\n", math.Abs(c.Difference))
	case c.Difference < 0:
		fmt.Fprintf(&b, "Option 2 costs $%.2f more than option 1\n", math.Abs(c.Difference))
	default:
		b.WriteString("Both options cost the same\n")
	}
	return b.String()
}
