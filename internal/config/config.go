package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/statesync/internal/dependencies/random"
	"github.com/mcoot/statesync/internal/worker"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "STATESYNC_"

// Config holds the server configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Workers  WorkersConfig  `yaml:"workers"`
	Listener ListenerConfig `yaml:"listener"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// WorkersConfig holds background worker settings
type WorkersConfig struct {
	ClockInterval     time.Duration `yaml:"clock_interval"`
	PowerInterval     time.Duration `yaml:"power_interval"`
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`
	// TimerTickInterval drives the timer list; zero leaves timers frozen
	TimerTickInterval time.Duration `yaml:"timer_tick_interval"`
	PowerSeed         uint32        `yaml:"power_seed"`
	OnPoison          string        `yaml:"on_poison"`
	// HubIdleTimeout closes SSE hubs nobody has watched for this long
	HubIdleTimeout time.Duration `yaml:"hub_idle_timeout"`
}

// ListenerConfig holds outward listener settings
type ListenerConfig struct {
	// RedisURL enables the Redis listener when set
	RedisURL    string        `yaml:"redis_url"`
	RedisPrefix string        `yaml:"redis_prefix"`
	RedisID     string        `yaml:"redis_id"`
	SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:        8080,
			ReadTimeout: 15 * time.Second,
			// Event streams stay open indefinitely
			WriteTimeout:    0,
			ShutdownTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Workers: WorkersConfig{
			ClockInterval:     time.Millisecond,
			PowerInterval:     time.Second,
			BroadcastInterval: 37 * time.Millisecond,
			PowerSeed:         random.DefaultSeed,
			OnPoison:          string(worker.PolicyReset),
			HubIdleTimeout:    5 * time.Minute,
		},
		Listener: ListenerConfig{
			RedisPrefix: "statesync",
			RedisID:     "redis",
			SnapshotTTL: time.Minute,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// if one is given, then STATESYNC_* environment variables
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with
func (c Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Workers.ClockInterval <= 0 {
		errs = append(errs, errors.New("workers.clock_interval must be positive"))
	}
	if c.Workers.PowerInterval <= 0 {
		errs = append(errs, errors.New("workers.power_interval must be positive"))
	}
	if c.Workers.BroadcastInterval <= 0 {
		errs = append(errs, errors.New("workers.broadcast_interval must be positive"))
	}
	if c.Workers.TimerTickInterval < 0 {
		errs = append(errs, errors.New("workers.timer_tick_interval must not be negative"))
	}
	if _, err := worker.ParsePoisonPolicy(c.Workers.OnPoison); err != nil {
		errs = append(errs, fmt.Errorf("workers.on_poison: %w", err))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("log.format %q must be json or text", c.Log.Format))
	}

	return errors.Join(errs...)
}

// SlogLevel parses the configured level
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// PoisonPolicy returns the parsed worker poison policy
func (w WorkersConfig) PoisonPolicy() worker.PoisonPolicy {
	policy, err := worker.ParsePoisonPolicy(w.OnPoison)
	if err != nil {
		return worker.PolicyReset
	}
	return policy
}

func (c *Config) applyEnv() error {
	c.Server.Host = getEnvOrDefault(EnvPrefix+"HOST", c.Server.Host)
	c.Log.Level = getEnvOrDefault(EnvPrefix+"LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault(EnvPrefix+"LOG_FORMAT", c.Log.Format)
	c.Workers.OnPoison = getEnvOrDefault(EnvPrefix+"ON_POISON", c.Workers.OnPoison)
	c.Listener.RedisURL = getEnvOrDefault(EnvPrefix+"REDIS_URL", c.Listener.RedisURL)
	c.Listener.RedisPrefix = getEnvOrDefault(EnvPrefix+"REDIS_PREFIX", c.Listener.RedisPrefix)

	var errs []error
	if v := os.Getenv(EnvPrefix + "PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sPORT: %w", EnvPrefix, err))
		}
		c.Server.Port = port
	}
	if v := os.Getenv(EnvPrefix + "POWER_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sPOWER_SEED: %w", EnvPrefix, err))
		}
		c.Workers.PowerSeed = uint32(seed)
	}
	if v := os.Getenv(EnvPrefix + "TIMER_TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTIMER_TICK_INTERVAL: %w", EnvPrefix, err))
		}
		c.Workers.TimerTickInterval = d
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
