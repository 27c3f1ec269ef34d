package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL settings for transient entities. Registered players never expire.
	BotPlayerTTL time.Duration
	RoomTTL      time.Duration
	MatchTTL     time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		BotPlayerTTL: 6 * time.Hour,
		RoomTTL:      6 * time.Hour,
		MatchTTL:     6 * time.Hour,
	}
}
