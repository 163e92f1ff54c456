package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application settings that are not part of the server runtime.
type Config struct {
	AppEnv       string        `envconfig:"APP_ENV" default:"local"`
	SentryDSN    string        `envconfig:"SENTRY_DSN"`
	AllowOrigins string        `envconfig:"ALLOW_ORIGINS"`
	ListingURL   string        `envconfig:"LISTING_URL" default:"https://www.cinesvandycktormes.com/cartelera"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"2s"`
	RateLimit    float64       `envconfig:"RATE_LIMIT" default:"20"`
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	return cfg, nil
}
