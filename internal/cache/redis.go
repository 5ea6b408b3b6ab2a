package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore backs the cache with Redis. Entries are stored without a
// Redis-side TTL: expiry decisions stay in the manager so stale entries
// remain observable for stale-while-revalidate reads.
type redisStore struct {
	client *redis.Client
}

func newRedisStore(addr, password string, db int) *redisStore {
	return &redisStore{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// probe verifies the backend accepts a write/delete round-trip before the
// manager commits to it.
func (s *redisStore) probe(ctx context.Context) error {
	key := "lens:probe"
	if err := s.client.Set(ctx, key, "1", 10*time.Second).Err(); err != nil {
		return err
	}
	return s.client.Del(ctx, key).Err()
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *redisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		out = append(out, iter.Val())
	}
	return out, iter.Err()
}
