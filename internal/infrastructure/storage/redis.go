package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	tokenKey = "portal:token"
	themeKey = "portal:theme"

	defaultRedisTimeout = 5 * time.Second
)

// RedisConfig captures the settings for establishing a Redis connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// ConnectRedis initialises a Redis client and validates connectivity with a
// ping. A default timeout is applied when none is provided.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisStore keeps the token and theme in Redis, for kiosk or shared
// workstation deployments where the gateway host has no durable disk.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Token(ctx context.Context) (string, error) {
	return s.get(ctx, tokenKey)
}

func (s *RedisStore) SetToken(ctx context.Context, token string) error {
	return s.client.Set(ctx, tokenKey, token, 0).Err()
}

func (s *RedisStore) ClearToken(ctx context.Context) error {
	return s.client.Del(ctx, tokenKey).Err()
}

func (s *RedisStore) Theme(ctx context.Context) (string, error) {
	return s.get(ctx, themeKey)
}

func (s *RedisStore) SetTheme(ctx context.Context, theme string) error {
	return s.client.Set(ctx, themeKey, theme, 0).Err()
}

func (s *RedisStore) get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}
