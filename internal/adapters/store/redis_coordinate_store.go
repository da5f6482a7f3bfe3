package store

import (
	"context"
	"errors"
	"fmt"
	"places-autocomplete/internal/ports"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "places:coords:"

// RedisCoordinateStore keeps each session's coordinate value under its own key
// with a TTL, so abandoned sessions expire on their own.
type RedisCoordinateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCoordinateStore(client *redis.Client, ttl time.Duration) *RedisCoordinateStore {
	return &RedisCoordinateStore{client: client, ttl: ttl}
}

// OpenRedis parses a redis:// URL and verifies the connection.
func OpenRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("open redis: parse url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("open redis: ping: %w", err)
	}
	return client, nil
}

func (s *RedisCoordinateStore) Put(ctx context.Context, sessionID string, value string) error {
	if strings.TrimSpace(sessionID) == "" {
		return errors.New("put coordinates: empty session id")
	}
	if err := s.client.Set(ctx, keyPrefix+sessionID, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("put coordinates session=%s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisCoordinateStore) Get(ctx context.Context, sessionID string) (string, error) {
	v, err := s.client.Get(ctx, keyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", ports.ErrCoordinatesNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get coordinates session=%s: %w", sessionID, err)
	}
	return v, nil
}

func (s *RedisCoordinateStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete coordinates session=%s: %w", sessionID, err)
	}
	return nil
}
