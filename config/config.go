package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port string `env:"PORT" envDefault:"5250"`

		// Origins allowed to call the API from a browser
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

		// Time given to in-flight requests on shutdown
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

		GinMode string `env:"GIN_MODE" envDefault:"release"`
	}

	// Upstream listings provider
	Upstream struct {
		BaseURL string `env:"UPSTREAM_BASE_URL" envDefault:"https://www.microburbs.com.au/report_generator/api/suburb/properties"`

		// Static bearer credential sent as-is
		Token string `env:"UPSTREAM_TOKEN" envDefault:"test"`

		Timeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"15s"`

		// Requests per second allowed towards the provider
		RateLimit float64 `env:"UPSTREAM_RATE_LIMIT" envDefault:"2"`
		RateBurst int     `env:"UPSTREAM_RATE_BURST" envDefault:"2"`

		// Consecutive failures before the circuit opens
		BreakerFailures uint32 `env:"UPSTREAM_BREAKER_FAILURES" envDefault:"5"`

		// Time the circuit stays open before probing again
		BreakerCooldown time.Duration `env:"UPSTREAM_BREAKER_COOLDOWN" envDefault:"30s"`
	}

	Search struct {
		DefaultSuburb       string        `env:"DEFAULT_SUBURB" envDefault:"Belmont North"`
		DefaultPropertyType string        `env:"DEFAULT_PROPERTY_TYPE" envDefault:"house"`
		SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"30m"`
		DisplayRows         int           `env:"DISPLAY_ROWS" envDefault:"10"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"info"`
	}
}

// LoadConfig reads an optional .env file and then parses the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config populated only from the envDefault tags.
func Default() *Config {
	cfg := &Config{}
	_ = env.Parse(cfg, env.Options{Environment: map[string]string{}})
	return cfg
}
