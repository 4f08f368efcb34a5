package suppress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore implements Store using Redis SETNX keys with a TTL, so a
// crashed run does not leave suppression entries behind forever.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL string
	// TTL bounds how long a run's suppression entries survive.
	TTL time.Duration
}

// NewRedisStore creates a Redis-backed suppression store.
func NewRedisStore(cfg RedisConfig, logger *slog.Logger) (Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	logger.Info("connected to Redis",
		slog.String("addr", opts.Addr),
		slog.Duration("suppression_ttl", ttl),
	)

	return &redisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (s *redisStore) MarkSent(ctx context.Context, runID, recipient string) (bool, error) {
	key := fmt.Sprintf("suppress:%s:%s", runID, recipient)

	first, err := s.client.SetNX(ctx, key, 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark recipient: %w", err)
	}

	if !first {
		s.logger.Debug("duplicate recipient suppressed",
			slog.String("run_id", runID),
			slog.String("recipient", recipient),
		)
	}

	return first, nil
}

// Health checks if Redis is reachable
func (s *redisStore) Health(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *redisStore) Close() error {
	return s.client.Close()
}
