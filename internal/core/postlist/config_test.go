package postlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{name: "unset", value: "", expected: 10},
		{name: "valid", value: "25", expected: 25},
		{name: "not a number", value: "lots", expected: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("POSTLIST_PAGE_SIZE", tt.value)
			assert.Equal(t, tt.expected, ConfigFromEnv().PageSize)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, Config{PageSize: 1}.Validate())
	assert.NoError(t, Config{PageSize: 100}.Validate())
	assert.Error(t, Config{PageSize: 0}.Validate())
	assert.Error(t, Config{PageSize: 101}.Validate())
}
