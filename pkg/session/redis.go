package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding the session.
const DefaultRedisKey = "eventmaster:session"

// redisClient is the subset of redis.Cmdable used by RedisStore.
type redisClient interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisStore keeps the session in a Redis hash so several dashboard
// processes share one login.
type RedisStore struct {
	client redisClient
	key    string
	ttl    time.Duration
}

// RedisOptions configures a RedisStore. A zero TTL keeps the hash forever.
type RedisOptions struct {
	Key string
	TTL time.Duration
}

// NewRedisStore wraps a go-redis client.
func NewRedisStore(client redisClient, opts RedisOptions) *RedisStore {
	key := opts.Key
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key, ttl: opts.TTL}
}

func (s *RedisStore) Load(ctx context.Context) (map[string]string, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("session: redis load: %w", err)
	}
	return values, nil
}

func (s *RedisStore) Save(ctx context.Context, values map[string]string) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("session: redis reset: %w", err)
	}
	if len(values) == 0 {
		return nil
	}
	args := make([]any, 0, len(values)*2)
	for k, v := range values {
		args = append(args, k, v)
	}
	if err := s.client.HSet(ctx, s.key, args...).Err(); err != nil {
		return fmt.Errorf("session: redis save: %w", err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, s.key, s.ttl).Err(); err != nil {
			return fmt.Errorf("session: redis expire: %w", err)
		}
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("session: redis clear: %w", err)
	}
	return nil
}
