package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// ClientConfig configures the interactive player. Flags override these values.
type ClientConfig struct {
	CollectorURL     string
	CollectorTimeout time.Duration
	FlushGracePeriod time.Duration
	PacingDelay      time.Duration
	// Strict is on everywhere except APP_ENV=production.
	Strict bool
	Env    string
}

func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	url := os.Getenv("COLLECTOR_URL")
	if url == "" {
		url = "http://localhost:8080"
	}

	timeout, err := durationEnv("COLLECTOR_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	grace, err := durationEnv("FLUSH_GRACE_PERIOD", 2*time.Second)
	if err != nil {
		return nil, err
	}

	var pacing time.Duration
	if v := os.Getenv("PACING_DELAY"); v != "" {
		pacing, err = time.ParseDuration(v)
		if err != nil || pacing < 0 {
			return nil, fmt.Errorf("invalid PACING_DELAY environment variable: %q", v)
		}
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	return &ClientConfig{
		CollectorURL:     url,
		CollectorTimeout: timeout,
		FlushGracePeriod: grace,
		PacingDelay:      pacing,
		Strict:           env != "production",
		Env:              env,
	}, nil
}
