package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/league-history/internal/platform/logging"
	"github.com/riskibarqy/league-history/internal/platform/resilience"
)

// NewRedisClient parses url (redis://host:port/db) and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// Redis is a Loader[T] storing JSON-encoded values in Redis. Redis failures
// are logged and the loader result is served uncached.
type Redis[T any] struct {
	client    redis.UniversalClient
	namespace string
	ttl       time.Duration
	logger    *logging.Logger
	flight    resilience.SingleFlight
}

func NewRedis[T any](client redis.UniversalClient, namespace string, ttl time.Duration, logger *logging.Logger) *Redis[T] {
	if logger == nil {
		logger = logging.Default()
	}
	return &Redis[T]{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
		logger:    logger,
	}
}

func (r *Redis[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	fullKey := r.namespace + key

	if value, ok := r.get(ctx, fullKey); ok {
		return value, nil
	}

	value, err, _ := r.flight.Do(fullKey, func() (any, error) {
		loaded, loadErr := load(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		r.set(ctx, fullKey, loaded)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}

	return value.(T), nil
}

// Invalidate deletes every key under namespace+prefix using SCAN.
func (r *Redis[T]) Invalidate(ctx context.Context, prefix string) error {
	iter := r.client.Scan(ctx, 0, r.namespace+prefix+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("delete redis keys: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan redis keys prefix=%s: %w", prefix, err)
	}
	if len(batch) > 0 {
		if err := r.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("delete redis keys: %w", err)
		}
	}
	return nil
}

func (r *Redis[T]) get(ctx context.Context, key string) (T, bool) {
	var zero T
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.WarnContext(ctx, "redis cache get failed", "key", key, "error", err)
		}
		return zero, false
	}

	var value T
	if err := sonic.Unmarshal(raw, &value); err != nil {
		r.logger.WarnContext(ctx, "redis cache entry undecodable", "key", key, "error", err)
		return zero, false
	}
	return value, true
}

func (r *Redis[T]) set(ctx context.Context, key string, value T) {
	raw, err := sonic.Marshal(value)
	if err != nil {
		r.logger.WarnContext(ctx, "redis cache encode failed", "key", key, "error", err)
		return
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "redis cache set failed", "key", key, "error", err)
	}
}
