package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"evcharge/backend/services/booking-service/internal/models"
	"evcharge/backend/services/booking-service/internal/service"
)

// StationHandlers serves the station catalog, slot grid and price quotes.
type StationHandlers struct {
	ledger *service.BookingLedger
	logger *zap.Logger
}

// NewStationHandlers returns handlers backed by ledger.
func NewStationHandlers(ledger *service.BookingLedger, logger *zap.Logger) *StationHandlers {
	return &StationHandlers{ledger: ledger, logger: logger}
}

// List handles GET /stations?q=.
func (h *StationHandlers) List(w http.ResponseWriter, r *http.Request) {
	stations := h.ledger.Stations(r.URL.Query().Get("q"))
	if stations == nil {
		stations = []models.Station{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stations": stations})
}

// Get handles GET /stations/{id}.
func (h *StationHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := stationIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid station id")
		return
	}
	station, err := h.ledger.Station(id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// Slots handles GET /stations/{id}/slots?date=YYYY-MM-DD.
func (h *StationHandlers) Slots(w http.ResponseWriter, r *http.Request) {
	id, ok := stationIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid station id")
		return
	}
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	slots, err := h.ledger.AvailableSlots(r.Context(), id, date)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stationId": id,
		"date":      date,
		"slots":     slots,
	})
}

// Price handles GET /stations/{id}/price?date=&time=&charger=.
func (h *StationHandlers) Price(w http.ResponseWriter, r *http.Request) {
	id, ok := stationIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid station id")
		return
	}
	q := r.URL.Query()
	pricing, err := h.ledger.Quote(id, q.Get("date"), q.Get("time"), q.Get("charger"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pricing)
}
