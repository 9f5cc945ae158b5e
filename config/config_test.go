package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "5250", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "https://www.microburbs.com.au/report_generator/api/suburb/properties", cfg.Upstream.BaseURL)
	assert.Equal(t, "test", cfg.Upstream.Token)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, uint32(5), cfg.Upstream.BreakerFailures)
	assert.Equal(t, "Belmont North", cfg.Search.DefaultSuburb)
	assert.Equal(t, "house", cfg.Search.DefaultPropertyType)
	assert.Equal(t, 10, cfg.Search.DisplayRows)
	assert.Equal(t, 30*time.Minute, cfg.Search.SessionTTL)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("UPSTREAM_TOKEN", "abc123")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("DEFAULT_SUBURB", "Charlestown")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://dash.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "abc123", cfg.Upstream.Token)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "Charlestown", cfg.Search.DefaultSuburb)
	assert.Equal(t, []string{"http://localhost:3000", "https://dash.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "house", cfg.Search.DefaultPropertyType)
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	t.Setenv("DISPLAY_ROWS", "ten")

	_, err := LoadConfig()
	assert.Error(t, err)
}
