package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/okian/sitefn/internal/domain/model"
)

// RedisStore keeps each counter as a hash with a "count" field.
type RedisStore struct {
	client redis.UniversalClient
}

var _ Counter = (*RedisStore)(nil)

// NewRedisStore wraps client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Add runs HINCRBY, which is atomic on the server.
func (s *RedisStore) Add(ctx context.Context, key string, delta int64) (int64, error) {
	n, err := s.client.HIncrBy(ctx, key, model.VisitorCountField, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("redis HINCRBY %s: %w", key, err)
	}
	return n, nil
}
