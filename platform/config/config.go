// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; the first one that exists is loaded.
var envFiles = []string{".env", "exempl.env"}

// MinGeocoderInterval is the smallest spacing the public Nominatim usage
// policy accepts between two requests from one client.
const MinGeocoderInterval = time.Second

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// MigrationConfig provides settings for schema migrations.
type MigrationConfig interface {
	DatabaseConfig
	GetMigrationsEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// RateLimitConfig provides settings for the per-IP API rate limiter.
type RateLimitConfig interface {
	GetAPIRateLimitRPS() float64
	GetAPIRateLimitBurst() int
}

// GeocoderConfig provides settings for the geocoding resolver.
type GeocoderConfig interface {
	GetGeocoderProvider() string
	GetGeocoderTimeout() time.Duration
	GetGeocoderMinInterval() time.Duration
	GetGeocoderLanguage() string
	GetGeocoderUserAgent() string
	GetNominatimURL() string
	GetOpenCageAPIKey() string
	GetMapboxToken() string
}

// PhoneConfig provides settings for phone number normalization.
type PhoneConfig interface {
	GetPhoneDefaultRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	EnvFile             string
	HTTPAddr            string
	DatabaseURL         string
	DBHost              string
	DBPort              int
	DBName              string
	DBUser              string
	DBPassword          string
	DBSSLMode           string
	MigrationsEnabled   bool
	CORSAllowAll        bool
	CORSOrigins         []string
	APIRateLimitRPS     float64
	APIRateLimitBurst   int
	GeocoderProvider    string
	GeocoderTimeout     time.Duration
	GeocoderMinInterval time.Duration
	GeocoderLanguage    string
	GeocoderUserAgent   string
	NominatimURL        string
	OpenCageAPIKey      string
	MapboxToken         string
	PhoneDefaultRegion  string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// MigrationConfig implementation
func (c *Config) GetMigrationsEnabled() bool { return c.MigrationsEnabled }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// RateLimitConfig implementation
func (c *Config) GetAPIRateLimitRPS() float64 { return c.APIRateLimitRPS }
func (c *Config) GetAPIRateLimitBurst() int   { return c.APIRateLimitBurst }

// GeocoderConfig implementation
func (c *Config) GetGeocoderProvider() string           { return c.GeocoderProvider }
func (c *Config) GetGeocoderTimeout() time.Duration     { return c.GeocoderTimeout }
func (c *Config) GetGeocoderMinInterval() time.Duration { return c.GeocoderMinInterval }
func (c *Config) GetGeocoderLanguage() string           { return c.GeocoderLanguage }
func (c *Config) GetGeocoderUserAgent() string          { return c.GeocoderUserAgent }
func (c *Config) GetNominatimURL() string               { return c.NominatimURL }
func (c *Config) GetOpenCageAPIKey() string             { return c.OpenCageAPIKey }
func (c *Config) GetMapboxToken() string                { return c.MapboxToken }

// PhoneConfig implementation
func (c *Config) GetPhoneDefaultRegion() string { return c.PhoneDefaultRegion }

// Load reads configuration from environment variables. Values from a .env
// file (or exempl.env when .env is missing) fill in variables that are not
// already set in the process environment.
func Load() (*Config, error) {
	envFile := loadEnvFile()

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil || dbPort <= 0 {
		return nil, fmt.Errorf("DB_PORT must be a positive integer")
	}

	geocoderTimeout, err := time.ParseDuration(getEnv("GEOCODER_TIMEOUT", "15s"))
	if err != nil || geocoderTimeout <= 0 {
		return nil, fmt.Errorf("GEOCODER_TIMEOUT must be a positive duration")
	}

	minInterval, err := time.ParseDuration(getEnv("GEOCODER_MIN_INTERVAL", "1s"))
	if err != nil {
		return nil, fmt.Errorf("GEOCODER_MIN_INTERVAL must be a duration: %w", err)
	}
	if minInterval < MinGeocoderInterval {
		return nil, fmt.Errorf("GEOCODER_MIN_INTERVAL must be at least %s", MinGeocoderInterval)
	}

	rps, err := strconv.ParseFloat(getEnv("API_RATE_LIMIT_RPS", "10"), 64)
	if err != nil || rps < 0 {
		return nil, fmt.Errorf("API_RATE_LIMIT_RPS must be a non-negative number")
	}
	burst, err := strconv.Atoi(getEnv("API_RATE_LIMIT_BURST", "20"))
	if err != nil || burst < 0 {
		return nil, fmt.Errorf("API_RATE_LIMIT_BURST must be a non-negative integer")
	}

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		EnvFile:             envFile,
		HTTPAddr:            getEnv("HTTP_ADDR", ":"+getEnv("PORT", "3001")),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              dbPort,
		DBName:              getEnv("DB_NAME", "user_map_db"),
		DBUser:              getEnv("DB_USER", "postgres"),
		DBPassword:          getEnv("DB_PASSWORD", ""),
		DBSSLMode:           getEnv("DB_SSLMODE", "disable"),
		MigrationsEnabled:   strings.EqualFold(getEnv("MIGRATIONS_ENABLED", "true"), "true"),
		CORSAllowAll:        containsWildcard(corsOrigins),
		CORSOrigins:         corsOrigins,
		APIRateLimitRPS:     rps,
		APIRateLimitBurst:   burst,
		GeocoderProvider:    strings.ToLower(strings.TrimSpace(getEnv("GEOCODER_PROVIDER", "openstreetmap"))),
		GeocoderTimeout:     geocoderTimeout,
		GeocoderMinInterval: minInterval,
		GeocoderLanguage:    getEnv("GEOCODER_LANGUAGE", "ru-RU,ru,en"),
		GeocoderUserAgent:   getEnv("GEOCODER_USER_AGENT", "VolunteerMap/1.0"),
		NominatimURL:        getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
		OpenCageAPIKey:      getEnv("OPENCAGE_API_KEY", ""),
		MapboxToken:         getEnv("MAPBOX_TOKEN", ""),
		PhoneDefaultRegion:  strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "RU")),
	}
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.buildDatabaseURL())

	switch cfg.GeocoderProvider {
	case "openstreetmap", "nominatim":
	case "opencage":
		if cfg.OpenCageAPIKey == "" {
			return nil, fmt.Errorf("OPENCAGE_API_KEY is required when GEOCODER_PROVIDER is opencage")
		}
	case "mapbox":
		if cfg.MapboxToken == "" {
			return nil, fmt.Errorf("MAPBOX_TOKEN is required when GEOCODER_PROVIDER is mapbox")
		}
	default:
		return nil, fmt.Errorf("unsupported GEOCODER_PROVIDER %q", cfg.GeocoderProvider)
	}
	if _, err := url.ParseRequestURI(cfg.NominatimURL); err != nil {
		return nil, fmt.Errorf("NOMINATIM_URL is invalid: %w", err)
	}

	return cfg, nil
}

// MissingPassword reports whether DB_PASSWORD is empty or blank.
func (c *Config) MissingPassword() bool {
	return strings.TrimSpace(c.DBPassword) == ""
}

// MaskedDatabaseURL returns the connection URL with the password redacted.
func (c *Config) MaskedDatabaseURL() string {
	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return "<invalid>"
	}
	return u.Redacted()
}

func (c *Config) buildDatabaseURL() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:   "/" + c.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.DBSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func loadEnvFile() string {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			continue
		}
		return name
	}
	return ""
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
