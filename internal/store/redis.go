package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smallwat3r/textdrop/internal/domain"
)

// RedisStore keeps texts as plain string keys with a native TTL.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, redisKey(key), value, ttl).Err(); err != nil {
		return &domain.StoreError{Op: "set", Err: err}
	}
	return nil
}

// GetAndDelete uses GETDEL, which redis executes atomically.
func (s *RedisStore) GetAndDelete(ctx context.Context, key string) (string, error) {
	val, err := s.rdb.GetDel(ctx, redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrNotFound
		}
		return "", &domain.StoreError{Op: "getdel", Err: err}
	}
	return val, nil
}

func redisKey(code string) string { return "text:" + code }
