package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "revoked:"

// RedisRevocations keeps the revocation list in Redis so it is shared by
// every instance. Entries expire with the token they revoke.
type RedisRevocations struct {
	rdb *redis.Client
}

// ConnectRedis parses url, pings the server and returns a revocation list.
func ConnectRedis(ctx context.Context, url string) (*RedisRevocations, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return NewRedisRevocations(rdb), nil
}

func NewRedisRevocations(rdb *redis.Client) *RedisRevocations {
	return &RedisRevocations{rdb: rdb}
}

func (s *RedisRevocations) Revoke(ctx context.Context, id string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revokedPrefix+id, 1, ttl).Err()
}

func (s *RedisRevocations) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedPrefix+id).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisRevocations) Close() error {
	return s.rdb.Close()
}
