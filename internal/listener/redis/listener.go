package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/statesync/internal/services/broadcast"
)

// emitTimeout bounds one publish round trip
const emitTimeout = time.Second

// Listener publishes every emitted event to Redis pub/sub and keeps the
// latest payload per event under a key, for consumers that join late
type Listener struct {
	client *redis.Client
	cfg    Config
}

// Ensure Listener implements the broadcast listener interface
var _ broadcast.Listener = (*Listener)(nil)

// New connects to Redis and returns a Listener
func New(cfg Config) (*Listener, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Listener with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Listener {
	return &Listener{
		client: client,
		cfg:    cfg,
	}
}

// ID returns the listener session ID
func (l *Listener) ID() string {
	return l.cfg.ListenerID
}

// Emit publishes payload as JSON and stores it as the latest value
func (l *Listener) Emit(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", event, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
	defer cancel()

	pipe := l.client.Pipeline()
	pipe.Set(ctx, latestKey(l.cfg.Prefix, event), data, l.cfg.SnapshotTTL)
	pipe.Publish(ctx, channelKey(l.cfg.Prefix, event), data)
	_, err = pipe.Exec(ctx)
	if errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("publishing %s: %w", event, broadcast.ErrListenerClosed)
	}
	if err != nil {
		return fmt.Errorf("publishing %s: %w", event, err)
	}
	return nil
}

// Latest returns the most recent raw payload published for event
func (l *Listener) Latest(ctx context.Context, event string) ([]byte, error) {
	data, err := l.client.Get(ctx, latestKey(l.cfg.Prefix, event)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

// Close closes the Redis connection
func (l *Listener) Close() error {
	return l.client.Close()
}
