package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	appconfig "evcharge/backend/services/auth-service/internal/config"
	"evcharge/backend/services/auth-service/internal/db"
	httpserver "evcharge/backend/services/auth-service/internal/http"
	"evcharge/backend/services/auth-service/internal/http/handlers"
	"evcharge/backend/services/auth-service/internal/password"
	"evcharge/backend/services/auth-service/internal/repository"
	"evcharge/backend/services/auth-service/internal/service"
)

// App wires dependencies for the auth service.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	logger *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}

	var users service.UserRepository
	var healthCheck func(context.Context) error
	if cfg.UsesDatabase() {
		sqlDB, err := db.NewPostgres(cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("app: connect postgres: %w", err)
		}
		a.db = sqlDB
		if err := db.Migrate(ctx, sqlDB); err != nil {
			a.Close()
			return nil, fmt.Errorf("app: migrate: %w", err)
		}
		users = repository.NewUserRepository(sqlDB)
		healthCheck = sqlDB.PingContext
	} else {
		logger.Warn("no database configured; users are kept in memory")
		users = repository.NewMemoryUserRepository()
	}

	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	authSvc := service.NewAuthService(users, password.NewBcryptHasher(cfg.Bcrypt.Cost), tokenSvc, logger)

	routes := httpserver.Routes{
		Signup: handlers.NewSignupHandler(authSvc, logger),
		Login:  handlers.NewLoginHandler(authSvc, logger),
		Health: handlers.NewHealthHandler(healthCheck),
	}
	a.server = httpserver.NewServer(cfg.HTTPAddress(), httpserver.NewRouter(routes), logger)
	return a, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
