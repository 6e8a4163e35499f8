package httpserver

import (
	"net/http"

	"go.uber.org/zap"

	"evcharge/backend/services/booking-service/internal/http/handlers"
	"evcharge/backend/services/booking-service/internal/http/middleware"
)

// Routes aggregates handlers and middleware for the HTTP server.
type Routes struct {
	Stations *handlers.StationHandlers
	Bookings *handlers.BookingHandlers
	Health   http.HandlerFunc
	Events   http.HandlerFunc
	Metrics  http.Handler

	Auth    *middleware.Authenticator
	Limiter *middleware.RateLimiter
	Logger  *zap.Logger
}

// NewRouter wires all HTTP routes.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()

	if s := routes.Stations; s != nil {
		mux.HandleFunc("GET /stations", s.List)
		mux.HandleFunc("GET /stations/{id}", s.Get)
		mux.HandleFunc("GET /stations/{id}/slots", s.Slots)
		mux.HandleFunc("GET /stations/{id}/price", s.Price)
	}
	if b := routes.Bookings; b != nil {
		mutation := []func(http.Handler) http.Handler{routes.Auth.Require}
		if routes.Limiter != nil {
			mutation = append(mutation, routes.Limiter.Wrap)
		}
		mux.Handle("POST /bookings", middleware.Chain(http.HandlerFunc(b.Create), mutation...))
		mux.Handle("DELETE /bookings/{id}", middleware.Chain(http.HandlerFunc(b.Cancel), mutation...))
		mux.Handle("GET /bookings/me", routes.Auth.Require(http.HandlerFunc(b.Mine)))
	}
	if routes.Events != nil {
		mux.HandleFunc("GET /ws/bookings", routes.Events)
	}
	if routes.Metrics != nil {
		mux.Handle("GET /metrics", routes.Metrics)
	}
	if routes.Health != nil {
		mux.HandleFunc("GET /health", routes.Health)
	}

	logger := routes.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return middleware.Chain(mux, middleware.Recovery(logger), middleware.Logging(logger))
}
