package postsapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("POSTS_API_BASE_URL", "http://localhost:8081")
	t.Setenv("POSTS_API_TIMEOUT_SECONDS", "3")
	t.Setenv("POSTS_API_RPS", "2.5")
	t.Setenv("POSTS_API_BURST", "oops")
	t.Setenv("POSTS_API_CIRCUIT_THRESHOLD", "-1")
	t.Setenv("POSTS_API_CIRCUIT_OPEN_SECONDS", "60")

	cfg := ConfigFromEnv()
	assert.Equal(t, "http://localhost:8081", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 2.5, cfg.RequestsPerSecond)
	assert.Equal(t, 5, cfg.Burst, "invalid values fall back to the default")
	assert.Equal(t, 3, cfg.FailureThreshold)
	assert.Equal(t, time.Minute, cfg.OpenDuration)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "default is valid", modify: func(*Config) {}},
		{name: "relative base URL", modify: func(c *Config) { c.BaseURL = "/api" }, wantErr: ErrInvalidBaseURL},
		{name: "ftp base URL", modify: func(c *Config) { c.BaseURL = "ftp://example.com" }, wantErr: ErrInvalidBaseURL},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "zero burst", modify: func(c *Config) { c.Burst = 0 }, wantErr: ErrInvalidRate},
		{name: "zero threshold", modify: func(c *Config) { c.FailureThreshold = 0 }, wantErr: ErrInvalidCircuit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
