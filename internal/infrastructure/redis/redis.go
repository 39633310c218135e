package redis

import (
	"context"
	"errors"
	"time"

	"github.com/litblc/account-service/internal/domain"
	"github.com/litblc/account-service/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps a Redis connection and implements domain.KeyValueStore.
// Redis is the shared expiring store all instances coordinate through:
// rate buckets and verification codes both live here.
type Client struct {
	rdb *redis.Client
	log *zap.Logger
}

// New connects to Redis using the application configuration.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Client, error) {
	return NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
}

// NewClient connects to Redis at the given address.
func NewClient(ctx context.Context, addr, password string, db int, log *zap.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Client{rdb: rdb, log: log}, nil
}

// IncrWithTTL atomically increments key. INCR is atomic on the server, so
// two concurrent callers can never observe the same count; the TTL is
// attached only when the increment created the key.
func (c *Client) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		c.log.Error("redis incr failed", zap.Error(err))
		return 0, err
	}

	if count == 1 {
		if err := c.rdb.Expire(ctx, key, ttl).Err(); err != nil {
			c.log.Error("redis expire failed", zap.Error(err))
			return 0, err
		}
	}

	return count, nil
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	value, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (c *Client) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *Client) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, key, value, ttl).Result()
}

func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.rdb.TTL(ctx, key).Result()
}

func (c *Client) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
