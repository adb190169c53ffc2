package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// GuestUserTTL expires guest accounts that never return.
	// Registered and telegram users are kept indefinitely.
	GuestUserTTL time.Duration

	// MatchTTL expires matches; zero keeps them indefinitely
	MatchTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		GuestUserTTL: 30 * 24 * time.Hour,
		MatchTTL:     0,
	}
}
