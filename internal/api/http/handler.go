package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"drivequest-fleet/internal/domain"
	"drivequest-fleet/internal/service"
)

// Handler serves the fleet REST API.
type Handler struct {
	vehicles service.VehicleService
	fleet    service.FleetService
	invoices service.InvoiceService
}

func NewHandler(vehicles service.VehicleService, fleet service.FleetService, invoices service.InvoiceService) *Handler {
	return &Handler{
		vehicles: vehicles,
		fleet:    fleet,
		invoices: invoices,
	}
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func dateParam(r *http.Request, name string) (domain.Date, bool) {
	raw := mux.Vars(r)[name]
	if raw == "" {
		raw = r.URL.Query().Get(name)
	}
	d, err := domain.ParseDate(raw)
	return d, err == nil
}

// ListVehicles handles GET /vehicles. Optional filters: year, min_price,
// max_price, type, long_term=true.
func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if lt, _ := strconv.ParseBool(q.Get("long_term")); lt {
		writeJSON(w, http.StatusOK, toVehicleResponses(h.vehicles.ListLongTerm(r.Context())))
		return
	}

	var query domain.VehicleQuery
	var err error
	if v := q.Get("year"); v != "" {
		if query.Year, err = strconv.Atoi(v); err != nil {
			writeBadRequest(w, r, "year must be an integer")
			return
		}
	}
	if v := q.Get("min_price"); v != "" {
		if query.MinPrice, err = strconv.ParseFloat(v, 64); err != nil {
			writeBadRequest(w, r, "min_price must be a number")
			return
		}
	}
	if v := q.Get("max_price"); v != "" {
		if query.MaxPrice, err = strconv.ParseFloat(v, 64); err != nil {
			writeBadRequest(w, r, "max_price must be a number")
			return
		}
	}
	query.Type = domain.VehicleType(q.Get("type"))

	writeJSON(w, http.StatusOK, toVehicleResponses(h.vehicles.Query(r.Context(), query)))
}

func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req VehicleRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, r, "malformed vehicle: "+err.Error())
		return
	}
	v, err := toDomainVehicle(&req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	added, err := h.vehicles.Add(r.Context(), v)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/vehicles/"+added.Plate)
	writeJSON(w, http.StatusCreated, toVehicleResponse(added))
}

func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := h.vehicles.FindByPlate(r.Context(), mux.Vars(r)["plate"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleResponse(v))
}

// UpdateVehicle handles PUT /vehicles/{plate}. The path plate wins over the body.
func (h *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var req VehicleRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, r, "malformed vehicle: "+err.Error())
		return
	}
	req.Plate = mux.Vars(r)["plate"]
	v, err := toDomainVehicle(&req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.fleet.UpdateVehicle(r.Context(), v); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := h.vehicles.FindByPlate(r.Context(), v.Plate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleResponse(updated))
}

func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	removed, err := h.fleet.RemoveVehicle(r.Context(), mux.Vars(r)["plate"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !removed {
		writeError(w, r, domain.ErrVehicleNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Invoice handles GET /vehicles/{plate}/invoice; format=text returns the
// printable summary.
func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request) {
	plate := mux.Vars(r)["plate"]
	if r.URL.Query().Get("format") == "text" {
		summary, err := h.invoices.Summary(r.Context(), plate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(summary))
		return
	}

	inv, err := h.invoices.Invoice(r.Context(), plate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// CompareInvoices handles GET /invoices/compare?first=&second=.
func (h *Handler) CompareInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("first") == "" || q.Get("second") == "" {
		writeBadRequest(w, r, "first and second plates are required")
		return
	}
	c, err := h.invoices.Compare(r.Context(), q.Get("first"), q.Get("second"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	plate := mux.Vars(r)["plate"]
	start, ok1 := dateParam(r, "start")
	end, ok2 := dateParam(r, "end")
	if !ok1 || !ok2 {
		writeBadRequest(w, r, "start and end must be dates (YYYY-MM-DD)")
		return
	}
	v, err := h.vehicles.FindByPlate(r.Context(), plate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AvailabilityResponse{
		Plate:     v.Plate,
		Start:     start,
		End:       end,
		Available: h.fleet.IsVehicleAvailable(r.Context(), v.Plate, start, end),
	})
}

// Rent handles POST /vehicles/{plate}/rentals.
func (h *Handler) Rent(w http.ResponseWriter, r *http.Request) {
	plate := mux.Vars(r)["plate"]
	var req RentalRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, r, "malformed rental: "+err.Error())
		return
	}

	var (
		ok  bool
		err error
	)
	switch {
	case req.Start != nil && req.End != nil:
		ok, err = h.fleet.RentVehicle(r.Context(), plate, *req.Start, *req.End)
	case req.Until != nil:
		ok, err = h.fleet.RentVehicleUntil(r.Context(), plate, *req.Until)
	case req.From != nil:
		ok, err = h.fleet.RentVehicleFrom(r.Context(), plate, *req.From, req.DurationDays)
	default:
		writeBadRequest(w, r, "one of start+end, until, or from is required")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeConflict(w, r, "vehicle is not available for the requested dates")
		return
	}
	writeJSON(w, http.StatusCreated, toRentalPeriodsResponse(domain.NormalizePlate(plate),
		h.fleet.VehicleRentalPeriods(r.Context(), plate)))
}

// Extend handles POST /vehicles/{plate}/rentals/extend.
func (h *Handler) Extend(w http.ResponseWriter, r *http.Request) {
	plate := mux.Vars(r)["plate"]
	var req ExtendRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, r, "malformed extension: "+err.Error())
		return
	}
	ok, err := h.fleet.ExtendRental(r.Context(), plate, req.OriginalEnd, req.NewEnd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeConflict(w, r, "rental could not be extended")
		return
	}
	writeJSON(w, http.StatusOK, toRentalPeriodsResponse(domain.NormalizePlate(plate),
		h.fleet.VehicleRentalPeriods(r.Context(), plate)))
}

// Finish handles DELETE /vehicles/{plate}/rentals/{start}.
func (h *Handler) Finish(w http.ResponseWriter, r *http.Request) {
	plate := mux.Vars(r)["plate"]
	start, valid := dateParam(r, "start")
	if !valid {
		writeBadRequest(w, r, "start must be a date (YYYY-MM-DD)")
		return
	}
	ok, err := h.fleet.FinishRental(r.Context(), plate, start)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeConflict(w, r, "no active rental starts on that date")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RentalPeriods(w http.ResponseWriter, r *http.Request) {
	v, err := h.vehicles.FindByPlate(r.Context(), mux.Vars(r)["plate"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRentalPeriodsResponse(v.Plate, h.fleet.VehicleRentalPeriods(r.Context(), v.Plate)))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.vehicles.Stats(r.Context()))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
