package memo

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient captures the subset of redis.Client used by the store.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

type redisStore struct {
	client RedisClient
	prefix string
}

func newRedisStore(client RedisClient, prefix string) Store {
	if prefix == "" {
		prefix = defaultStorePrefix
	}
	return &redisStore{
		client: client,
		prefix: prefix,
	}
}

func (s *redisStore) Driver() Driver {
	return DriverRedis
}

func (s *redisStore) Get(ctx context.Context, scope, key string) ([]byte, bool, error) {
	if s.client == nil {
		return nil, false, errors.New("redis client unavailable")
	}
	value, err := s.client.Get(ctx, s.storeKey(scope, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (s *redisStore) Set(ctx context.Context, scope, key string, value []byte) error {
	if s.client == nil {
		return errors.New("redis client unavailable")
	}
	// Expiration 0 = no TTL; entries live until deleted or purged.
	return s.client.Set(ctx, s.storeKey(scope, key), value, 0).Err()
}

func (s *redisStore) Delete(ctx context.Context, scope, key string) error {
	if s.client == nil {
		return errors.New("redis client unavailable")
	}
	return s.client.Del(ctx, s.storeKey(scope, key)).Err()
}

func (s *redisStore) Purge(ctx context.Context, scope string) error {
	return s.deletePattern(ctx, s.scopeKey(scope)+":*")
}

func (s *redisStore) Flush(ctx context.Context) error {
	return s.deletePattern(ctx, s.prefix+":*")
}

func (s *redisStore) deletePattern(ctx context.Context, pattern string) error {
	if s.client == nil {
		return errors.New("redis client unavailable")
	}
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (s *redisStore) storeKey(scope, key string) string {
	return s.scopeKey(scope) + ":" + key
}

func (s *redisStore) scopeKey(scope string) string {
	return s.prefix + ":" + scope
}
