// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"lingopress/internal/paging"
	"lingopress/internal/query"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string // "debug", "info", "warn", "error"
	BaseURL  string // public site URL used in sitemaps

	// Database
	DBDriver   query.Dialect
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	// Valkey (Redis-compatible cache). An empty host disables caching.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ListCacheTTL   time.Duration

	// Locales
	DefaultLocale string
	Locales       []string

	// Listing page sizes
	PageSizeDefault int
	PageSizeMin     int
	PageSizeMax     int

	// Admin API
	AdminAPIKey string

	// Machine translation
	TranslateBaseURL   string
	TranslateTimeout   time.Duration
	TranslateRateLimit int // requests per minute per IP on the blog endpoint
}

// LoadEnvFile loads variables from a .env file without overriding values
// already present in the environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if a value cannot be
// parsed or critical values are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("APP_PORT", "8080"),
		Env:      envOrDefault("APP_ENV", "development"),
		LogLevel: envOrDefault("LOG_LEVEL", "info"),
		BaseURL:  envOrDefault("BASE_URL", "http://localhost:8080"),

		DBDriver:   query.ParseDialect(envOrDefault("DB_DRIVER", "postgres")),
		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "lingopress"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "lingopress"),
		SQLitePath: envOrDefault("SQLITE_PATH", "lingopress.db"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		DefaultLocale: envOrDefault("DEFAULT_LOCALE", "en"),
		Locales:       splitList(envOrDefault("LOCALES", "en,es,fr,de,ja,zh")),

		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		TranslateBaseURL: envOrDefault("TRANSLATE_BASE_URL", "https://translate.googleapis.com"),
	}

	var err error
	if cfg.ListCacheTTL, err = envDuration("LIST_CACHE_TTL", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.TranslateTimeout, err = envDuration("TRANSLATE_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.PageSizeDefault, err = envInt("PAGE_SIZE_DEFAULT", paging.DefaultPageSize); err != nil {
		return nil, err
	}
	if cfg.PageSizeMin, err = envInt("PAGE_SIZE_MIN", 1); err != nil {
		return nil, err
	}
	if cfg.PageSizeMax, err = envInt("PAGE_SIZE_MAX", 100); err != nil {
		return nil, err
	}
	if cfg.TranslateRateLimit, err = envInt("TRANSLATE_RATE_LIMIT", 30); err != nil {
		return nil, err
	}

	if !cfg.HasLocale(cfg.DefaultLocale) {
		cfg.Locales = append([]string{cfg.DefaultLocale}, cfg.Locales...)
	}

	if cfg.Env == "production" {
		if cfg.DBDriver == query.Postgres && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.AdminAPIKey == "" {
			return nil, fmt.Errorf("ADMIN_API_KEY must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the connection string for the configured driver: a
// PostgreSQL URL, or the SQLite file path.
func (c *Config) DSN() string {
	if c.DBDriver == query.SQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// PageBounds returns the listing page size limits.
func (c *Config) PageBounds() paging.Bounds {
	return paging.Bounds{Min: c.PageSizeMin, Max: c.PageSizeMax}
}

// HasLocale reports whether locale is one of the configured locales.
func (c *Config) HasLocale(locale string) bool {
	return slices.Contains(c.Locales, locale)
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
