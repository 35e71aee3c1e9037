package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/praeto/tendertrack/internal/model"
)

const redisKeySet = "tendertrack:seen"

// RedisKeys keeps the dedup key set in a redis SET so concurrent or
// distributed runners share a single "already seen" view.
type RedisKeys struct {
	client *redis.Client
}

// NewRedisKeys connects to redisURL and verifies connectivity.
func NewRedisKeys(ctx context.Context, redisURL string) (*RedisKeys, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisKeys{client: client}, nil
}

// Known returns every committed key from the shared set.
func (r *RedisKeys) Known(ctx context.Context) (map[model.DedupKey]struct{}, error) {
	members, err := r.client.SMembers(ctx, redisKeySet).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers: %w", err)
	}

	known := make(map[model.DedupKey]struct{}, len(members))
	for _, m := range members {
		source, id, ok := strings.Cut(m, ":")
		if !ok {
			continue
		}
		known[model.DedupKey{Source: model.Source(source), ExternalID: id}] = struct{}{}
	}
	return known, nil
}

// Commit adds keys to the shared set. SADD is idempotent, so a retried
// commit after a partial failure is harmless.
func (r *RedisKeys) Commit(ctx context.Context, keys []model.DedupKey) error {
	if len(keys) == 0 {
		return nil
	}
	members := make([]any, len(keys))
	for i, k := range keys {
		members[i] = k.String()
	}
	if err := r.client.SAdd(ctx, redisKeySet, members...).Err(); err != nil {
		return fmt.Errorf("sadd: %w", err)
	}
	return nil
}

// Close releases the redis connection.
func (r *RedisKeys) Close() error { return r.client.Close() }
