package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server configuration loaded from the environment
type Config struct {
	Host string
	Port int

	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string
	RedisURL    string

	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	TelegramBotToken string
}

// Load reads configuration from the environment, with an optional
// .env file for local development.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Host:             os.Getenv("PICKUP_HOST"),
		Port:             8080,
		StorageType:      getEnvOrDefault("PICKUP_STORAGE_TYPE", "memory"),
		RedisURL:         os.Getenv("PICKUP_REDIS_URL"),
		AccessSecret:     os.Getenv("PICKUP_ACCESS_SECRET"),
		RefreshSecret:    os.Getenv("PICKUP_REFRESH_SECRET"),
		AccessTTL:        15 * time.Minute,
		RefreshTTL:       7 * 24 * time.Hour,
		TelegramBotToken: os.Getenv("PICKUP_TELEGRAM_BOT_TOKEN"),
	}

	if port := os.Getenv("PICKUP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PICKUP_PORT: %w", err)
		}
		cfg.Port = p
	}

	if ttl := os.Getenv("PICKUP_ACCESS_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid PICKUP_ACCESS_TTL: %w", err)
		}
		cfg.AccessTTL = d
	}

	if ttl := os.Getenv("PICKUP_REFRESH_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid PICKUP_REFRESH_TTL: %w", err)
		}
		cfg.RefreshTTL = d
	}

	if cfg.AccessSecret == "" {
		return nil, fmt.Errorf("PICKUP_ACCESS_SECRET is required")
	}
	if cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("PICKUP_REFRESH_SECRET is required")
	}
	if cfg.StorageType == "redis" && cfg.RedisURL == "" {
		return nil, fmt.Errorf("PICKUP_REDIS_URL is required when PICKUP_STORAGE_TYPE=redis")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
