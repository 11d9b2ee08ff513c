/*
config.go - Runtime settings

PURPOSE:
  Reads an optional .env file, then environment variables, applying
  defaults so the server boots with no configuration at all. Command-line
  flags in cmd/server override the HTTP port and database path.

VARIABLES:
  HTTP_PORT            8080
  DB_PATH              staff.db
  LOG_LEVEL            info
  LOG_ENCODING         json (or console)
  ALERT_SCAN_ENABLED   true
  ALERT_SCAN_INTERVAL  1h (Go duration or whole seconds)
  URGENCY_WINDOW_DAYS  90
  APP_TIMEZONE         Local (IANA name, e.g. America/Sao_Paulo)
  CORS_ORIGINS         comma-separated; empty allows any origin
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	HTTP     HTTPConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Alerts   AlertsConfig
	App      AppConfig
}

type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

type DatabaseConfig struct {
	Path string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type AlertsConfig struct {
	ScanEnabled       bool
	ScanInterval      time.Duration
	UrgencyWindowDays int
}

type AppConfig struct {
	Timezone string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		HTTP: HTTPConfig{
			Port:            getString("HTTP_PORT", "8080"),
			ReadTimeout:     getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			CORSOrigins:     getSlice("CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Path: getString("DB_PATH", "staff.db"),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Alerts: AlertsConfig{
			ScanEnabled:       getBool("ALERT_SCAN_ENABLED", true),
			ScanInterval:      getDuration("ALERT_SCAN_INTERVAL", time.Hour),
			UrgencyWindowDays: getInt("URGENCY_WINDOW_DAYS", 90),
		},
		App: AppConfig{
			Timezone: getString("APP_TIMEZONE", "Local"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.HTTP.Port == "" {
		return errors.New("HTTP_PORT is required")
	}
	if c.Database.Path == "" {
		return errors.New("DB_PATH is required")
	}
	if c.Alerts.UrgencyWindowDays <= 0 {
		return fmt.Errorf("URGENCY_WINDOW_DAYS must be positive, got %d", c.Alerts.UrgencyWindowDays)
	}
	if c.Alerts.ScanEnabled && c.Alerts.ScanInterval <= 0 {
		return fmt.Errorf("ALERT_SCAN_INTERVAL must be positive, got %s", c.Alerts.ScanInterval)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves APP_TIMEZONE. Dates are anchored at noon in this zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.App.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

// Address returns the HTTP listen address.
func (c *Config) Address() string {
	return ":" + c.HTTP.Port
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getSlice(key string) []string {
	val := getString(key, "")
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
