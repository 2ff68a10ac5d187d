package collection

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config validation errors
var (
	// ErrMissingJWTSecret is returned when JWTSecret is shorter than 16 bytes
	ErrMissingJWTSecret = errors.New("JWTSecret must be at least 16 bytes")
	// ErrInvalidTokenTTL is returned when TokenTTL is not positive
	ErrInvalidTokenTTL = errors.New("TokenTTL must be positive")
	// ErrInvalidRateLimit is returned when RateLimitPerMinute is not positive
	ErrInvalidRateLimit = errors.New("RateLimitPerMinute must be positive")
	// ErrInvalidSeedPosts is returned when SeedPosts is negative
	ErrInvalidSeedPosts = errors.New("SeedPosts cannot be negative")
)

// Config holds the configuration of the collection server.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// DatabaseURL selects the Postgres store. Empty uses the in-memory store.
	DatabaseURL string

	// JWTSecret signs access tokens.
	JWTSecret string

	// DevUsername and DevPassword register one login at startup. Empty disables it.
	DevUsername string
	DevPassword string

	// CORSAllowedOrigins for browser clients.
	CORSAllowedOrigins []string

	// TokenTTL is the access token lifetime.
	TokenTTL time.Duration

	// SeedPosts demo posts are created when the store is empty.
	SeedPosts int

	// RateLimitPerMinute is the per-client request budget.
	RateLimitPerMinute int
}

// DefaultConfig returns a Config for local development.
func DefaultConfig() Config {
	return Config{
		Port:               "8081",
		JWTSecret:          "dev-secret-change-me-please",
		DevUsername:        "emilys",
		DevPassword:        "emilyspass",
		CORSAllowedOrigins: []string{"*"},
		TokenTTL:           60 * time.Minute,
		SeedPosts:          30,
		RateLimitPerMinute: 100,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if len(c.JWTSecret) < 16 {
		return ErrMissingJWTSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTokenTTL, c.TokenTTL)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRateLimit, c.RateLimitPerMinute)
	}
	if c.SeedPosts < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSeedPosts, c.SeedPosts)
	}
	return nil
}

// ConfigFromEnv creates a Config from environment variables.
// Uses defaults for any missing environment variables.
//
// Environment variables:
//   - APPVIEW_PORT: listen port (default: "8081")
//   - DATABASE_URL: Postgres connection string (default: "" for the in-memory store)
//   - JWT_SECRET: access token signing secret
//   - TOKEN_TTL_MINUTES: access token lifetime (default: 60)
//   - DEV_USERNAME / DEV_PASSWORD: development login (default: emilys / emilyspass)
//   - SEED_POSTS: demo posts created in an empty store (default: 30)
//   - CORS_ALLOWED_ORIGINS: comma-separated origins (default: "*")
//   - RATE_LIMIT_PER_MINUTE: requests per client per minute (default: 100)
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("APPVIEW_PORT"); v != "" {
		cfg.Port = v
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v, ok := os.LookupEnv("DEV_USERNAME"); ok {
		cfg.DevUsername = v
	}
	if v, ok := os.LookupEnv("DEV_PASSWORD"); ok {
		cfg.DevPassword = v
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.CORSAllowedOrigins = origins
		}
	}

	if v := os.Getenv("TOKEN_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TokenTTL = time.Duration(n) * time.Minute
		} else {
			slog.Warn("[COLLECTION] invalid TOKEN_TTL_MINUTES value, using default",
				"value", v,
				"default_minutes", int(cfg.TokenTTL.Minutes()),
				"error", err,
			)
		}
	}

	if v := os.Getenv("SEED_POSTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.SeedPosts = n
		} else {
			slog.Warn("[COLLECTION] invalid SEED_POSTS value, using default",
				"value", v,
				"default", cfg.SeedPosts,
				"error", err,
			)
		}
	}

	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitPerMinute = n
		} else {
			slog.Warn("[COLLECTION] invalid RATE_LIMIT_PER_MINUTE value, using default",
				"value", v,
				"default", cfg.RateLimitPerMinute,
				"error", err,
			)
		}
	}

	return cfg
}
