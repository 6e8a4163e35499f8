// Package events fans booking changes out to websocket subscribers.
package events

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"evcharge/backend/services/booking-service/internal/models"
)

// Hub tracks subscriber connections and broadcasts booking events.
type Hub struct {
	mu           sync.RWMutex
	subscribers  map[*Subscriber]struct{}
	writeTimeout time.Duration
	logger       *zap.Logger
	upgrader     websocket.Upgrader
}

// NewHub builds subscriber hub.
func NewHub(writeTimeout time.Duration, logger *zap.Logger) *Hub {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Hub{
		subscribers:  make(map[*Subscriber]struct{}),
		writeTimeout: writeTimeout,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Publish sends event to every subscriber whose station filter matches.
func (h *Hub) Publish(event models.BookingEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("failed to encode booking event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers {
		if sub.stationID != 0 && sub.stationID != event.StationID {
			continue
		}
		sub.Send(payload)
	}
}

// Count returns the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) add(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[sub] = struct{}{}
}

func (h *Hub) remove(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, sub)
}

// HandleWS is the HTTP handler for GET /ws/bookings. The optional station_id query
// parameter limits the feed to one station.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	var stationID int64
	if raw := r.URL.Query().Get("station_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid station_id", http.StatusBadRequest)
			return
		}
		stationID = id
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	sub := newSubscriber(stationID, conn, h.writeTimeout, h.logger, func(s *Subscriber) {
		h.remove(s)
		cancel()
	})
	h.add(sub)

	go sub.Start(ctx)
	h.logger.Debug("events subscriber connected", zap.Int64("station_id", stationID))
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		_ = sub.ws.Close()
	}
}
