package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "evcharge/backend/libs/config"
	"evcharge/backend/services/booking-service/internal/service"
	"evcharge/backend/services/booking-service/internal/store"
)

const defaultPort = "8081"

// Config defines booking service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"BOOKING_HTTP_PORT"`
	} `yaml:"http"`
	Store struct {
		Backend string `yaml:"backend" env:"BOOKING_STORE_BACKEND"`
	} `yaml:"store"`
	Database struct {
		DSN string `yaml:"dsn" env:"BOOKING_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"BOOKING_REDIS_ADDR"`
		Password string `yaml:"password" env:"BOOKING_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"BOOKING_REDIS_DB"`
		Prefix   string `yaml:"prefix" env:"BOOKING_REDIS_PREFIX"`
	} `yaml:"redis"`
	JWT struct {
		Secret string `yaml:"secret" env:"BOOKING_JWT_SECRET"`
	} `yaml:"jwt"`
	Catalog struct {
		File string `yaml:"file" env:"BOOKING_CATALOG_FILE"`
	} `yaml:"catalog"`
	Tariff   service.Tariff `yaml:"tariff" env:"BOOKING_TARIFF"`
	Timezone string         `yaml:"timezone" env:"BOOKING_TIMEZONE"`

	RateLimit RateLimit `yaml:"rateLimit"`
	WebSocket struct {
		WriteTimeout time.Duration `yaml:"writeTimeout" env:"BOOKING_WS_WRITE_TIMEOUT"`
	} `yaml:"websocket"`
}

// RateLimit bounds per-caller request rates. Callers idle past IdleTimeout are pruned
// every PruneInterval.
type RateLimit struct {
	PerSecond     float64       `yaml:"perSecond" env:"BOOKING_RATE_PER_SECOND"`
	Burst         int           `yaml:"burst" env:"BOOKING_RATE_BURST"`
	IdleTimeout   time.Duration `yaml:"idleTimeout" env:"BOOKING_RATE_IDLE_TIMEOUT"`
	PruneInterval time.Duration `yaml:"pruneInterval" env:"BOOKING_RATE_PRUNE_INTERVAL"`
}

// Load reads configuration via the shared loader and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = defaultPort
	cfg.Store.Backend = store.BackendMemory
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.Prefix = "evcharge"
	cfg.Tariff = service.DefaultTariff
	cfg.Timezone = "UTC"
	cfg.RateLimit.PerSecond = 5
	cfg.RateLimit.Burst = 10
	cfg.RateLimit.IdleTimeout = 10 * time.Minute
	cfg.RateLimit.PruneInterval = time.Minute
	cfg.WebSocket.WriteTimeout = 10 * time.Second

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings for the selected backend.
func (c *Config) Validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case store.BackendMemory:
	case store.BackendRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return errors.New("config: redis addr required for redis store")
		}
	case store.BackendPostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return errors.New("config: database dsn required for postgres store")
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("config: jwt secret is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.RateLimit.PerSecond <= 0 {
		c.RateLimit.PerSecond = 5
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 10
	}
	if c.RateLimit.IdleTimeout <= 0 {
		c.RateLimit.IdleTimeout = 10 * time.Minute
	}
	if c.RateLimit.PruneInterval <= 0 {
		c.RateLimit.PruneInterval = time.Minute
	}
	if c.WebSocket.WriteTimeout <= 0 {
		c.WebSocket.WriteTimeout = 10 * time.Second
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	return libconfig.NormalizeAddress(c.HTTP.Port, ":"+defaultPort)
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", name, err)
	}
	return loc, nil
}
