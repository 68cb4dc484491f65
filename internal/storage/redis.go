package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stores session values in Redis, for hosts that share a
// session between several machines or containers
type RedisRepository struct {
	client *redis.Client
	scope  string
}

// NewRedisRepository wraps an existing client
func NewRedisRepository(client *redis.Client, scope string) *RedisRepository {
	return &RedisRepository{client: client, scope: scope}
}

func (r *RedisRepository) redisKey(key Key) string {
	return fmt.Sprintf("agrimarket:session:%s:%s", r.scope, key)
}

func (r *RedisRepository) Get(ctx context.Context, key Key) (string, error) {
	value, err := r.client.Get(ctx, r.redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load %s from redis: %w", key, err)
	}
	return value, nil
}

func (r *RedisRepository) Set(ctx context.Context, key Key, value string) error {
	if err := r.client.Set(ctx, r.redisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s to redis: %w", key, err)
	}
	return nil
}

func (r *RedisRepository) Clear(ctx context.Context, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}

	redisKeys := make([]string, len(keys))
	for i, key := range keys {
		redisKeys[i] = r.redisKey(key)
	}

	if err := r.client.Del(ctx, redisKeys...).Err(); err != nil {
		return fmt.Errorf("failed to clear session keys in redis: %w", err)
	}
	return nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}
