package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"evcharge/backend/services/booking-service/internal/catalog"
	"evcharge/backend/services/booking-service/internal/metrics"
	"evcharge/backend/services/booking-service/internal/models"
	"evcharge/backend/services/booking-service/internal/store"
)

// StationLookup resolves station reference data.
type StationLookup interface {
	Get(id int64) (models.Station, error)
	List() []models.Station
	Search(query string) []models.Station
}

// EventPublisher receives ledger changes.
type EventPublisher interface {
	Publish(event models.BookingEvent)
}

// BookRequest is the input of BookSlot.
type BookRequest struct {
	StationID   int64               `json:"stationId"`
	Date        string              `json:"date"`
	Time        string              `json:"time"`
	ChargerType string              `json:"chargerType"`
	Payment     *models.PaymentInfo `json:"payment"`
}

// LedgerOption customises a BookingLedger.
type LedgerOption func(*BookingLedger)

// WithClock overrides the time source.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *BookingLedger) { l.now = now }
}

// WithLocation sets the zone used to decide whether a booking is in the past.
func WithLocation(loc *time.Location) LedgerOption {
	return func(l *BookingLedger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// WithPublisher attaches an event sink.
func WithPublisher(p EventPublisher) LedgerOption {
	return func(l *BookingLedger) { l.publisher = p }
}

// BookingLedger owns booking creation, cancellation and lookup.
//
// Bookings live in the store as a JSON list per user under "bookings:<userID>". Each
// confirmed booking also holds "slot:<stationID>:<date>:<time>", claimed with SetNX, so a
// physical slot can be booked once.
type BookingLedger struct {
	stations  StationLookup
	pricing   *PricingEngine
	store     store.KeyValueStore
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
	loc       *time.Location

	mu sync.Mutex
}

// NewBookingLedger builds the ledger.
func NewBookingLedger(stations StationLookup, pricing *PricingEngine, kv store.KeyValueStore, logger *zap.Logger, opts ...LedgerOption) *BookingLedger {
	l := &BookingLedger{
		stations: stations,
		pricing:  pricing,
		store:    kv,
		logger:   logger,
		now:      time.Now,
		loc:      time.UTC,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func userKey(userID string) string {
	return "bookings:" + userID
}

func slotKey(stationID int64, date, clock string) string {
	return fmt.Sprintf("slot:%d:%s:%s", stationID, date, clock)
}

// Stations returns all stations matching query; blank returns all.
func (l *BookingLedger) Stations(query string) []models.Station {
	return l.stations.Search(query)
}

// Station returns one station.
func (l *BookingLedger) Station(id int64) (models.Station, error) {
	st, err := l.stations.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrStationNotFound) {
			return models.Station{}, notFoundError("station %d", id)
		}
		return models.Station{}, err
	}
	return st, nil
}

// AvailableSlots returns the generated grid with already booked slots marked unavailable.
func (l *BookingLedger) AvailableSlots(ctx context.Context, stationID int64, date string) ([]models.TimeSlot, error) {
	if _, err := l.Station(stationID); err != nil {
		return nil, err
	}
	slots, err := GenerateSlots(stationID, date)
	if err != nil {
		return nil, err
	}
	for i := range slots {
		if !slots[i].IsAvailable {
			continue
		}
		_, err := l.store.Get(ctx, slotKey(stationID, date, slots[i].Time))
		switch {
		case err == nil:
			slots[i].IsAvailable = false
		case errors.Is(err, store.ErrKeyNotFound):
		default:
			return nil, fmt.Errorf("ledger: slot lookup: %w", err)
		}
	}
	return slots, nil
}

// Quote prices a slot at a known station. A charger type the station offers is priced under
// the station's spelling of it.
func (l *BookingLedger) Quote(stationID int64, date, clock, chargerType string) (models.PricingBreakdown, error) {
	station, err := l.Station(stationID)
	if err != nil {
		return models.PricingBreakdown{}, err
	}
	if charger, ok := station.Charger(chargerType); ok {
		chargerType = charger.Type
	}
	pricing, err := l.pricing.Quote(date, clock, stationID, chargerType)
	if err != nil {
		return models.PricingBreakdown{}, err
	}
	metrics.PriceQuoted(pricing.FinalPrice)
	return pricing, nil
}

// BookSlot confirms a booking for the session user.
func (l *BookingLedger) BookSlot(ctx context.Context, sess Session, req BookRequest) (*models.Booking, error) {
	booking, err := l.bookSlot(ctx, sess, req)
	if err != nil {
		metrics.BookingFailed(failureReason(err))
		return nil, err
	}
	metrics.BookingCreated(booking.StationID)
	l.publish(models.EventBookingCreated, booking)
	l.logger.Info("booking confirmed",
		zap.String("booking_id", booking.ID),
		zap.String("user_id", booking.UserID),
		zap.Int64("station_id", booking.StationID),
		zap.String("date", booking.Date),
		zap.String("time", booking.Time),
		zap.Float64("price", booking.Price),
	)
	return booking, nil
}

func (l *BookingLedger) bookSlot(ctx context.Context, sess Session, req BookRequest) (*models.Booking, error) {
	if !sess.Authenticated() {
		return nil, fmt.Errorf("you must be logged in to book a slot: %w", ErrAuthRequired)
	}

	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	req.ChargerType = strings.TrimSpace(req.ChargerType)
	switch {
	case req.Date == "":
		return nil, validationError("date is required")
	case req.Time == "":
		return nil, validationError("time is required")
	case req.ChargerType == "":
		return nil, validationError("charger type is required")
	case req.Payment == nil:
		return nil, validationError("payment information is required")
	}
	day, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	req.Date = day.Format(dateLayout)
	clock, err := CanonicalClock(req.Time)
	if err != nil {
		return nil, err
	}
	if !OnGrid(clock) {
		return nil, validationError("time %q is not a bookable slot", req.Time)
	}
	req.Time = clock

	station, err := l.Station(req.StationID)
	if err != nil {
		return nil, err
	}
	charger, ok := station.Charger(req.ChargerType)
	if !ok {
		return nil, validationError("station %d has no %q charger", station.ID, req.ChargerType)
	}
	req.ChargerType = charger.Type

	pricing, err := l.pricing.Quote(req.Date, req.Time, station.ID, req.ChargerType)
	if err != nil {
		return nil, err
	}
	paymentMethod, err := PaymentSummary(req.Payment)
	if err != nil {
		return nil, err
	}

	now := l.now().UTC()
	booking := &models.Booking{
		ID:             fmt.Sprintf("booking-%d-%s", now.UnixMilli(), uuid.NewString()[:8]),
		UserID:         sess.UserID,
		StationID:      station.ID,
		StationName:    station.Name,
		StationAddress: station.Address,
		Date:           req.Date,
		Time:           req.Time,
		ChargerType:    req.ChargerType,
		Price:          pricing.FinalPrice,
		Status:         models.BookingStatusConfirmed,
		PaymentMethod:  paymentMethod,
		CreatedAt:      now,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := slotKey(booking.StationID, booking.Date, booking.Time)
	claimed, err := l.store.SetNX(ctx, key, []byte(booking.ID))
	if err != nil {
		return nil, fmt.Errorf("ledger: reserve slot: %w", err)
	}
	if !claimed {
		return nil, fmt.Errorf("station %d at %s %s: %w", booking.StationID, booking.Date, booking.Time, ErrSlotTaken)
	}

	bookings, err := l.load(ctx, sess.UserID)
	if err == nil {
		err = l.save(ctx, sess.UserID, append(bookings, *booking))
	}
	if err != nil {
		if relErr := l.store.Remove(ctx, key); relErr != nil {
			l.logger.Error("failed to release slot after write error", zap.String("slot", key), zap.Error(relErr))
		}
		return nil, err
	}
	return booking, nil
}

// CancelBooking removes one of the session user's bookings and frees its slot.
func (l *BookingLedger) CancelBooking(ctx context.Context, sess Session, bookingID string) (*models.Booking, error) {
	if !sess.Authenticated() {
		return nil, fmt.Errorf("you must be logged in to cancel a booking: %w", ErrAuthRequired)
	}
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return nil, validationError("booking id is required")
	}

	l.mu.Lock()
	bookings, err := l.load(ctx, sess.UserID)
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}

	idx := -1
	for i := range bookings {
		if bookings[i].ID == bookingID {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return nil, notFoundError("booking %s", bookingID)
	}

	cancelled := bookings[idx]
	remaining := append(bookings[:idx:idx], bookings[idx+1:]...)
	if err := l.save(ctx, sess.UserID, remaining); err != nil {
		l.mu.Unlock()
		return nil, err
	}
	l.releaseSlot(ctx, cancelled)
	l.mu.Unlock()

	metrics.BookingCancelled(cancelled.StationID)
	l.publish(models.EventBookingCancelled, &cancelled)
	l.logger.Info("booking cancelled",
		zap.String("booking_id", cancelled.ID),
		zap.String("user_id", cancelled.UserID),
		zap.Int64("station_id", cancelled.StationID),
	)
	return &cancelled, nil
}

// GetUserBookings returns the user's bookings ordered by date and time.
func (l *BookingLedger) GetUserBookings(ctx context.Context, userID string) ([]models.BookingView, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id required: %w", ErrAuthRequired)
	}
	bookings, err := l.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := l.now()
	views := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		if b.UserID != userID {
			continue
		}
		views = append(views, models.BookingView{Booking: b, Past: l.isPast(b, now)})
	}
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Date != views[j].Date {
			return views[i].Date < views[j].Date
		}
		return views[i].Time < views[j].Time
	})
	return views, nil
}

func (l *BookingLedger) isPast(b models.Booking, now time.Time) bool {
	start, err := time.ParseInLocation(dateLayout+" 15:04", b.Date+" "+b.Time, l.loc)
	if err != nil {
		return false
	}
	return start.Before(now)
}

// releaseSlot frees the slot only if this booking still owns it.
func (l *BookingLedger) releaseSlot(ctx context.Context, b models.Booking) {
	key := slotKey(b.StationID, b.Date, b.Time)
	owner, err := l.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrKeyNotFound) {
			l.logger.Warn("failed to read slot owner", zap.String("slot", key), zap.Error(err))
		}
		return
	}
	if string(owner) != b.ID {
		return
	}
	if err := l.store.Remove(ctx, key); err != nil {
		l.logger.Warn("failed to release slot", zap.String("slot", key), zap.Error(err))
	}
}

func (l *BookingLedger) load(ctx context.Context, userID string) ([]models.Booking, error) {
	raw, err := l.store.Get(ctx, userKey(userID))
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: load bookings: %w", err)
	}
	var bookings []models.Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		return nil, fmt.Errorf("ledger: decode bookings: %w", err)
	}
	return bookings, nil
}

func (l *BookingLedger) save(ctx context.Context, userID string, bookings []models.Booking) error {
	if len(bookings) == 0 {
		if err := l.store.Remove(ctx, userKey(userID)); err != nil {
			return fmt.Errorf("ledger: save bookings: %w", err)
		}
		return nil
	}
	data, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("ledger: encode bookings: %w", err)
	}
	if err := l.store.Set(ctx, userKey(userID), data); err != nil {
		return fmt.Errorf("ledger: save bookings: %w", err)
	}
	return nil
}

func (l *BookingLedger) publish(eventType string, b *models.Booking) {
	if l.publisher == nil {
		return
	}
	l.publisher.Publish(models.BookingEvent{
		Type:      eventType,
		BookingID: b.ID,
		StationID: b.StationID,
		Date:      b.Date,
		Time:      b.Time,
		At:        l.now().UTC(),
	})
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrAuthRequired):
		return "auth_required"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}
