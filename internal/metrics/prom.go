package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"drivequest-fleet/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Booking outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// PromRecorder records fleet and booking activity in Prometheus metrics.
type PromRecorder struct {
	bookings *prometheus.CounterVec
	vehicles *prometheus.GaugeVec
	rented   prometheus.Gauge
	requests *prometheus.HistogramVec
}

// NewPromRecorder registers the fleet metrics on reg. A nil registerer
// defaults to the global Prometheus registerer.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	bookings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "drivequest_booking_operations_total",
		Help: "Booking operations by kind and outcome",
	}, []string{"operation", "outcome"})
	vehicles := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "drivequest_fleet_vehicles",
		Help: "Registered vehicles by type",
	}, []string{"type"})
	rented := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "drivequest_fleet_rented_vehicles",
		Help: "Vehicles currently flagged as rented",
	})
	requests := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "drivequest_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	var err error
	if bookings, err = register(reg, bookings); err != nil {
		return nil, err
	}
	if vehicles, err = register(reg, vehicles); err != nil {
		return nil, err
	}
	if rented, err = register(reg, rented); err != nil {
		return nil, err
	}
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}

	return &PromRecorder{bookings: bookings, vehicles: vehicles, rented: rented, requests: requests}, nil
}

// register returns the already registered collector when one exists.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (r *PromRecorder) RecordBooking(operation, outcome string) {
	r.bookings.WithLabelValues(operation, outcome).Inc()
}

func (r *PromRecorder) RecordFleet(stats domain.FleetStats) {
	for _, t := range []domain.VehicleType{domain.VehicleTypeCargo, domain.VehicleTypePassenger} {
		r.vehicles.WithLabelValues(string(t)).Set(float64(stats.ByType[t]))
	}
	r.rented.Set(float64(stats.RentedCount))
}

func (r *PromRecorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the metrics of g. A nil gatherer serves the global registry.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
