package cli

import (
	"fmt"
	"os"
	"time"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Output    string
	Verbose   bool
	Timeout   time.Duration
}

// DefaultConfig reads defaults from STATESYNC_SERVER and STATESYNC_TIMEOUT
func DefaultConfig() *Config {
	timeout := 10 * time.Second
	if d, err := time.ParseDuration(os.Getenv("STATESYNC_TIMEOUT")); err == nil && d > 0 {
		timeout = d
	}
	return &Config{
		ServerURL: getEnvOrDefault("STATESYNC_SERVER", "http://localhost:8080"),
		Output:    "text",
		Timeout:   timeout,
	}
}

// Validate checks flag values before any request is made
func (c *Config) Validate() error {
	if c.Output != "text" && c.Output != "json" {
		return fmt.Errorf("invalid output format %q: must be text or json", c.Output)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
