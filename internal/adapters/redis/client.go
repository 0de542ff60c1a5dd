package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"gridiron/internal/adapters/config"
	"gridiron/pkg/errors"
)

// Client owns the Redis connection backing the market cache
type Client struct {
	rdb *redis.Client
}

// NewClient connects to Redis and verifies the connection with a bounded
// ping
func NewClient(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, errors.Wrap(err, "failed to ping redis")
	}

	return &Client{rdb: rdb}, nil
}

// Client exposes the raw connection to the cache layer
func (c *Client) Client() *redis.Client { return c.rdb }

func (c *Client) Close() error { return c.rdb.Close() }

// Health reports connectivity
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
