package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит параметры сервера-сборщика голосов.
type Config struct {
	DatabaseURL      string
	SessionSecretKey string
	SessionTTL       time.Duration
	ServerPort       int

	RedisURL      string
	StatsCacheTTL time.Duration

	CORSAllowedOrigins []string
	VoteRateLimit      float64
	VoteRateBurst      int

	R2 R2Config
}

// R2Config описывает бакет для публикации снимков статистики.
// Пустой AccountID означает, что публикация выключена.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

func (c R2Config) Enabled() bool {
	return c.AccountID != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	secret := os.Getenv("SESSION_SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	sessionTTL, err := durationEnv("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := durationEnv("STATS_CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	rateLimit := 20.0
	if v := os.Getenv("VOTE_RATE_LIMIT"); v != "" {
		rateLimit, err = strconv.ParseFloat(v, 64)
		if err != nil || rateLimit <= 0 {
			return nil, fmt.Errorf("invalid VOTE_RATE_LIMIT environment variable: %q", v)
		}
	}
	burst, err := intEnv("VOTE_RATE_BURST", 40)
	if err != nil {
		return nil, err
	}

	r2 := R2Config{
		AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("R2_BUCKET_NAME"),
		PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}
	if r2.Enabled() && (r2.AccessKeyID == "" || r2.SecretAccessKey == "" || r2.BucketName == "") {
		return nil, errors.New("R2_ACCOUNT_ID is set but R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY or R2_BUCKET_NAME is missing")
	}

	return &Config{
		DatabaseURL:        dbURL,
		SessionSecretKey:   secret,
		SessionTTL:         sessionTTL,
		ServerPort:         port,
		RedisURL:           os.Getenv("REDIS_URL"),
		StatsCacheTTL:      cacheTTL,
		CORSAllowedOrigins: listEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		VoteRateLimit:      rateLimit,
		VoteRateBurst:      burst,
		R2:                 r2,
	}, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}

func listEnv(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
