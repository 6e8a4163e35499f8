package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"evcharge/backend/services/booking-service/internal/models"
	"evcharge/backend/services/booking-service/internal/service"
)

// BookingHandlers serves the authenticated booking endpoints.
type BookingHandlers struct {
	ledger *service.BookingLedger
	logger *zap.Logger
}

// NewBookingHandlers returns handlers backed by ledger.
func NewBookingHandlers(ledger *service.BookingLedger, logger *zap.Logger) *BookingHandlers {
	return &BookingHandlers{ledger: ledger, logger: logger}
}

// Create handles POST /bookings.
func (h *BookingHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req service.BookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	booking, err := h.ledger.BookSlot(r.Context(), sessionFrom(r), req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// Mine handles GET /bookings/me.
func (h *BookingHandlers) Mine(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	bookings, err := h.ledger.GetUserBookings(r.Context(), sess.UserID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if bookings == nil {
		bookings = []models.BookingView{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bookings": bookings})
}

// Cancel handles DELETE /bookings/{id}.
func (h *BookingHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	booking, err := h.ledger.CancelBooking(r.Context(), sessionFrom(r), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "cancelled",
		"id":     booking.ID,
	})
}
