package domain

// Invoice is the cost breakdown of a vehicle's current rental length.
type Invoice struct {
	Plate      string      `json:"plate"`
	Model      string      `json:"model"`
	Year       int         `json:"year"`
	Type       VehicleType `json:"type"`
	RentalDays int         `json:"rental_days"`
	DailyPrice float64     `json:"daily_price"`
	Subtotal   float64     `json:"subtotal"`
	VATRate    float64     `json:"vat_rate"`
	VAT        float64     `json:"vat"`
	Discount   float64     `json:"discount"`
	Total      float64     `json:"total"`
	LongTerm   bool        `json:"long_term"`
}

// CostComparison compares the totals of two vehicles. Difference is First.Total - Second.Total.
type CostComparison struct {
	First      Invoice `json:"first"`
	Second     Invoice `json:"second"`
	Difference float64 `json:"difference"`
}
