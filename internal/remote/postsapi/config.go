package postsapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config validation errors
var (
	// ErrInvalidBaseURL is returned when BaseURL is not an absolute http(s) URL
	ErrInvalidBaseURL = errors.New("BaseURL must be an absolute http or https URL")
	// ErrInvalidTimeout is returned when Timeout is not positive
	ErrInvalidTimeout = errors.New("Timeout must be positive")
	// ErrInvalidRate is returned when RequestsPerSecond or Burst is not positive
	ErrInvalidRate = errors.New("RequestsPerSecond and Burst must be positive")
	// ErrInvalidCircuit is returned when the circuit breaker settings are not positive
	ErrInvalidCircuit = errors.New("FailureThreshold and OpenDuration must be positive")
)

// Config holds the configuration of the posts API client.
type Config struct {
	// BaseURL is the collection server origin, e.g. "https://dummyjson.com".
	BaseURL string

	// UserAgent is sent with every request.
	UserAgent string

	// Timeout bounds each request, including reading the response body.
	Timeout time.Duration

	// OpenDuration is how long an operation fails fast once its circuit opened.
	OpenDuration time.Duration

	// RequestsPerSecond and Burst pace outbound requests.
	RequestsPerSecond float64
	Burst             int

	// FailureThreshold is the number of consecutive transport failures that opens the circuit.
	FailureThreshold int
}

// DefaultConfig returns a Config pointing at the public demo collection.
func DefaultConfig() Config {
	return Config{
		BaseURL:           "https://dummyjson.com",
		UserAgent:         "Postdeck/1.0",
		Timeout:           10 * time.Second,
		RequestsPerSecond: 10,
		Burst:             5,
		FailureThreshold:  3,
		OpenDuration:      30 * time.Second,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: got %q", ErrInvalidBaseURL, c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTimeout, c.Timeout)
	}
	if c.RequestsPerSecond <= 0 || c.Burst <= 0 {
		return fmt.Errorf("%w: got %v/%d", ErrInvalidRate, c.RequestsPerSecond, c.Burst)
	}
	if c.FailureThreshold <= 0 || c.OpenDuration <= 0 {
		return fmt.Errorf("%w: got %d/%v", ErrInvalidCircuit, c.FailureThreshold, c.OpenDuration)
	}
	return nil
}

// ConfigFromEnv creates a Config from environment variables.
// Uses defaults for any missing environment variables.
//
// Environment variables:
//   - POSTS_API_BASE_URL: collection server origin (default: "https://dummyjson.com")
//   - POSTS_API_USER_AGENT: User-Agent header (default: "Postdeck/1.0")
//   - POSTS_API_TIMEOUT_SECONDS: per-request timeout (default: 10)
//   - POSTS_API_RPS: outbound requests per second (default: 10)
//   - POSTS_API_BURST: outbound burst size (default: 5)
//   - POSTS_API_CIRCUIT_THRESHOLD: consecutive failures before failing fast (default: 3)
//   - POSTS_API_CIRCUIT_OPEN_SECONDS: how long to fail fast (default: 30)
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("POSTS_API_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}

	if v := os.Getenv("POSTS_API_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}

	if v := os.Getenv("POSTS_API_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Timeout = time.Duration(n) * time.Second
		} else {
			slog.Warn("[POSTS-API] invalid POSTS_API_TIMEOUT_SECONDS value, using default",
				"value", v,
				"default_seconds", int(cfg.Timeout.Seconds()),
				"error", err,
			)
		}
	}

	if v := os.Getenv("POSTS_API_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.RequestsPerSecond = f
		} else {
			slog.Warn("[POSTS-API] invalid POSTS_API_RPS value, using default",
				"value", v,
				"default", cfg.RequestsPerSecond,
				"error", err,
			)
		}
	}

	if v := os.Getenv("POSTS_API_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Burst = n
		} else {
			slog.Warn("[POSTS-API] invalid POSTS_API_BURST value, using default",
				"value", v,
				"default", cfg.Burst,
				"error", err,
			)
		}
	}

	if v := os.Getenv("POSTS_API_CIRCUIT_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FailureThreshold = n
		} else {
			slog.Warn("[POSTS-API] invalid POSTS_API_CIRCUIT_THRESHOLD value, using default",
				"value", v,
				"default", cfg.FailureThreshold,
				"error", err,
			)
		}
	}

	if v := os.Getenv("POSTS_API_CIRCUIT_OPEN_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.OpenDuration = time.Duration(n) * time.Second
		} else {
			slog.Warn("[POSTS-API] invalid POSTS_API_CIRCUIT_OPEN_SECONDS value, using default",
				"value", v,
				"default_seconds", int(cfg.OpenDuration.Seconds()),
				"error", err,
			)
		}
	}

	return cfg
}
