package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// keyPrefix namespaces the application keys inside a shared Redis database.
const keyPrefix = "prawko:"

// Redis stores each logical key as a JSON string value.
type Redis struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedis wraps an already-connected Redis client.
func NewRedis(rdb *redis.Client, log zerolog.Logger) *Redis {
	return &Redis{
		rdb: rdb,
		log: log.With().Str("component", "store").Str("driver", "redis").Logger(),
	}
}

func (s *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return decodeInto(raw, dst, key, s.log), nil
}

func (s *Redis) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Redis) Close() error {
	return s.rdb.Close()
}
