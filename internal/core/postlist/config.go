package postlist

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// Config holds the list engine settings
type Config struct {
	// PageSize is the browse page size (the limit sent with every list request)
	PageSize int
}

// DefaultConfig returns a Config with the default page size
func DefaultConfig() Config {
	return Config{
		PageSize: 10,
	}
}

// ConfigFromEnv creates a Config from environment variables, using defaults for unset values.
// Invalid values log a warning and fall back to the default.
//
// Environment variables:
//   - POSTLIST_PAGE_SIZE: browse page size (default 10, 1..100)
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("POSTLIST_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PageSize = n
		} else {
			slog.Warn("[POSTLIST] invalid POSTLIST_PAGE_SIZE value, using default",
				"value", v,
				"default", cfg.PageSize,
				"error", err)
		}
	}

	return cfg
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("page size must be between 1 and 100, got %d", c.PageSize)
	}
	return nil
}
