package draft

import (
	"context"
	"errors"
	"time"

	"github.com/golang/snappy"
	redis "github.com/redis/go-redis/v9"
)

// RedisStore persists drafts in redis. Values are snappy-compressed: draft
// payloads are whole invoice forms and redis memory is shared with the rate
// limiter. A TTL bounds how long an abandoned draft lingers; zero disables
// expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil || s.client == nil {
		return nil, false, ErrStoreUnavailable
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	value, err := snappy.Decode(nil, raw)
	if err != nil {
		// corrupt entry: treat as absent, same as an unparsable snapshot
		return nil, false, nil
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if s == nil || s.client == nil {
		return ErrStoreUnavailable
	}
	compressed := snappy.Encode(nil, value)
	return s.client.Set(ctx, key, compressed, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return ErrStoreUnavailable
	}
	return s.client.Del(ctx, key).Err()
}
