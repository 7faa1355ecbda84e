// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the server and the CLI.
type Config struct {
	AppEnv          string        `envconfig:"APP_ENV" default:"development"`
	AppPort         string        `envconfig:"APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"20"`

	JWTSecret string `envconfig:"JWT_SECRET"`

	// TimeZone is the business calendar for "today", month ranges and cutoffs.
	TimeZone string `envconfig:"APP_TIMEZONE" default:"America/Argentina/Buenos_Aires"`

	NotifyBackend string        `envconfig:"NOTIFY_BACKEND" default:"postgres"`
	NotifyTimeout time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"5s"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`

	StatsFanout int `envconfig:"STATS_FANOUT" default:"8"`

	location *time.Location
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL must be provided")
	}
	switch c.AppEnv {
	case "development", "test", "production":
	default:
		return fmt.Errorf("config: APP_ENV must be development, test or production, got %q", c.AppEnv)
	}
	switch c.NotifyBackend {
	case "postgres", "redis", "none":
	default:
		return fmt.Errorf("config: NOTIFY_BACKEND must be postgres, redis or none, got %q", c.NotifyBackend)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if c.StatsFanout < 1 {
		return fmt.Errorf("config: STATS_FANOUT must be at least 1")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("config: DB_MAX_CONNS must be at least 1")
	}
	if c.IsProduction() && c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must be provided in production")
	}

	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return fmt.Errorf("config: APP_TIMEZONE: %w", err)
	}
	c.location = loc
	return nil
}

// Location is the loaded APP_TIMEZONE.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// IsProduction reports whether the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// IsDevelopment reports whether the application runs in development.
func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}
