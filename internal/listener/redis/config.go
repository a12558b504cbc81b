package redis

import "time"

// Config holds Redis connection and publishing settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Prefix namespaces every channel and key
	Prefix string

	// ListenerID is the session ID the listener registers under
	ListenerID string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// SnapshotTTL bounds how long the latest snapshot key outlives the
	// process. Zero keeps it forever.
	SnapshotTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		Prefix:       "statesync",
		ListenerID:   "redis",
		PoolSize:     10,
		MinIdleConns: 2,
		SnapshotTTL:  time.Minute,
	}
}
