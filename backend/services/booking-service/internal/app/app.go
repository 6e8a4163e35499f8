package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libredis "evcharge/backend/libs/redis"
	"evcharge/backend/services/booking-service/internal/catalog"
	appconfig "evcharge/backend/services/booking-service/internal/config"
	"evcharge/backend/services/booking-service/internal/db"
	"evcharge/backend/services/booking-service/internal/events"
	httpserver "evcharge/backend/services/booking-service/internal/http"
	"evcharge/backend/services/booking-service/internal/http/handlers"
	"evcharge/backend/services/booking-service/internal/http/middleware"
	"evcharge/backend/services/booking-service/internal/metrics"
	"evcharge/backend/services/booking-service/internal/repository"
	"evcharge/backend/services/booking-service/internal/service"
	"evcharge/backend/services/booking-service/internal/store"
)

// App wires dependencies for the booking service.
type App struct {
	server  *httpserver.Server
	hub     *events.Hub
	limiter *middleware.RateLimiter
	rate    appconfig.RateLimit
	db      *sql.DB
	redis   *goredis.Client
	logger  *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}

	stations, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		return nil, err
	}

	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		if a.db, err = db.NewPostgres(dsn); err != nil {
			return nil, fmt.Errorf("app: connect postgres: %w", err)
		}
		if err := db.Migrate(ctx, a.db); err != nil {
			a.Close()
			return nil, fmt.Errorf("app: migrate: %w", err)
		}
		if err := repository.NewStationRepository(a.db).Sync(ctx, stations.List()); err != nil {
			a.Close()
			return nil, err
		}
		logger.Info("station catalog mirrored to postgres", zap.Int("stations", len(stations.List())))
	}

	kv, err := a.buildStore(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		a.Close()
		return nil, err
	}

	metrics.Register()
	a.hub = events.NewHub(cfg.WebSocket.WriteTimeout, logger)
	ledger := service.NewBookingLedger(stations, service.NewPricingEngine(cfg.Tariff), kv, logger,
		service.WithLocation(loc),
		service.WithPublisher(a.hub),
	)

	a.limiter = middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	a.rate = cfg.RateLimit

	routes := httpserver.Routes{
		Stations: handlers.NewStationHandlers(ledger, logger),
		Bookings: handlers.NewBookingHandlers(ledger, logger),
		Health:   handlers.NewHealthHandler(a.healthChecks()),
		Events:   a.hub.HandleWS,
		Metrics:  metrics.Handler(),
		Auth:     middleware.NewAuthenticator(cfg.JWT.Secret),
		Limiter:  a.limiter,
		Logger:   logger,
	}
	a.server = httpserver.NewServer(cfg.HTTPAddress(), httpserver.NewRouter(routes), logger, a.hub.Close)

	logger.Info("booking service configured",
		zap.String("store", cfg.Store.Backend),
		zap.Int("stations", len(stations.List())),
		zap.String("timezone", loc.String()),
	)
	return a, nil
}

func (a *App) healthChecks() map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{}
	if a.db != nil {
		checks["postgres"] = a.db.PingContext
	}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	}
	return checks
}

func (a *App) buildStore(cfg *appconfig.Config) (store.KeyValueStore, error) {
	switch cfg.Store.Backend {
	case store.BackendRedis:
		client, err := libredis.NewRedisClient(libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("app: connect redis: %w", err)
		}
		a.redis = client
		return store.NewRedisStore(client, cfg.Redis.Prefix), nil
	case store.BackendPostgres:
		if a.db == nil {
			return nil, fmt.Errorf("app: postgres store needs a database dsn")
		}
		return store.NewPostgresStore(a.db), nil
	default:
		a.logger.Warn("using in-memory booking store; bookings are lost on restart")
		return store.NewMemoryStore(), nil
	}
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	go a.limiter.Run(ctx, a.rate.PruneInterval, a.rate.IdleTimeout)
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.hub != nil {
		a.hub.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
