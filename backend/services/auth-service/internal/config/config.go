package config

import (
	"errors"
	"strings"
	"time"

	libconfig "evcharge/backend/libs/config"
)

const defaultPort = "8080"

// Config represents service configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"AUTH_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"AUTH_POSTGRES_DSN"`
	} `yaml:"database"`
	JWT struct {
		Secret    string        `yaml:"secret" env:"AUTH_JWT_SECRET"`
		ExpiresIn time.Duration `yaml:"expiresIn" env:"AUTH_JWT_EXPIRES_IN"`
	} `yaml:"jwt"`
	Bcrypt struct {
		Cost int `yaml:"cost" env:"AUTH_BCRYPT_COST"`
	} `yaml:"bcrypt"`
}

// Load reads configuration using the shared config loader. Without a database DSN users
// are kept in memory.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = defaultPort
	cfg.JWT.ExpiresIn = time.Hour

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("config: jwt secret is required")
	}
	if cfg.JWT.ExpiresIn <= 0 {
		cfg.JWT.ExpiresIn = time.Hour
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	return libconfig.NormalizeAddress(c.HTTP.Port, ":"+defaultPort)
}

// UsesDatabase reports whether users are persisted in Postgres.
func (c *Config) UsesDatabase() bool {
	return strings.TrimSpace(c.Database.DSN) != ""
}
