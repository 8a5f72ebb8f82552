package tokens

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the token pair in a single Redis hash, so pair writes
// and clears are one command each.
type RedisStore struct {
	rdb  *redis.Client
	hash string
}

// NewRedisStore parses redisURL and returns a store scoped by namespace.
func NewRedisStore(redisURL, namespace string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisStoreFromClient(redis.NewClient(opts), namespace), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(rdb *redis.Client, namespace string) *RedisStore {
	if namespace == "" {
		namespace = "default"
	}
	return &RedisStore{rdb: rdb, hash: "vidtube:tokens:" + namespace}
}

// Ping verifies the server is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Get returns the stored token or "".
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	v, err := s.rdb.HGet(ctx, s.hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis hget %s: %w", key, err)
	}
	return v, nil
}

// Set stores a single token; an empty value removes it.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if value == "" {
		return s.Delete(ctx, key)
	}
	if err := s.rdb.HSet(ctx, s.hash, key, value).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

// Delete removes a single token.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := s.rdb.HDel(ctx, s.hash, key).Err(); err != nil {
		return fmt.Errorf("redis hdel %s: %w", key, err)
	}
	return nil
}

// SavePair replaces both tokens in one MULTI/EXEC.
func (s *RedisStore) SavePair(ctx context.Context, pair Pair) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.hash)
		fields := map[string]any{}
		if pair.AccessToken != "" {
			fields[AccessTokenKey] = pair.AccessToken
		}
		if pair.RefreshToken != "" {
			fields[RefreshTokenKey] = pair.RefreshToken
		}
		if len(fields) > 0 {
			pipe.HSet(ctx, s.hash, fields)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save token pair: %w", err)
	}
	return nil
}

// ClearPair deletes the whole hash.
func (s *RedisStore) ClearPair(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.hash).Err(); err != nil {
		return fmt.Errorf("redis clear tokens: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
