package waitlist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding subscribers, keyed by email.
const DefaultRedisKey = "launch-gate:waitlist"

// RedisRepo stores subscribers as JSON values in a single hash.
type RedisRepo struct {
	rdb redis.Cmdable
	key string
}

func NewRedisRepo(rdb redis.Cmdable, key string) *RedisRepo {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisRepo{rdb: rdb, key: key}
}

type redisSubscriber struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"created_at"`
}

func (r *RedisRepo) Add(ctx context.Context, s Subscriber) (bool, error) {
	v, err := json.Marshal(redisSubscriber{ID: s.ID, CreatedAt: s.CreatedAt.Unix()})
	if err != nil {
		return false, fmt.Errorf("encode subscriber: %w", err)
	}
	created, err := r.rdb.HSetNX(ctx, r.key, s.Email, v).Result()
	if err != nil {
		return false, fmt.Errorf("hsetnx subscriber: %w", err)
	}
	return created, nil
}

func (r *RedisRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.rdb.HLen(ctx, r.key).Result()
	if err != nil {
		return 0, fmt.Errorf("hlen subscribers: %w", err)
	}
	return n, nil
}
