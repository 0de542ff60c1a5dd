package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gridiron/internal/domain/market"
	"gridiron/pkg/errors"
	"gridiron/pkg/logger"
)

// Compile-time check
var _ market.Repository = (*MarketCache)(nil)

// MarketCache is a read-through TTL cache over the market directory.
//
// Markets are a stable enumeration, safe to cache briefly. Active model
// bindings are NOT cached here or anywhere: the resolver reads them from
// Postgres on every request so a rebind takes effect immediately.
type MarketCache struct {
	inner  market.Repository
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewMarketCache wraps a market repository with a Redis cache
func NewMarketCache(inner market.Repository, client *redis.Client, ttl time.Duration) *MarketCache {
	return &MarketCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		log:    logger.Get().With("component", "market_cache"),
	}
}

// GetByCode retrieves a market, from cache when fresh.
// Cache failures degrade to the inner repository, never fail the request.
func (c *MarketCache) GetByCode(ctx context.Context, code string) (*market.Market, error) {
	key := c.getKey(code)

	data, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var m market.Market
		if err := json.Unmarshal([]byte(data), &m); err == nil {
			return &m, nil
		}
		c.log.Warnf("Dropping undecodable cache entry %s", key)
	} else if err != redis.Nil {
		c.log.Warnf("Market cache read failed: %v", err)
	}

	m, err := c.inner.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(m); err == nil {
		if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			c.log.Warnf("Market cache write failed: %v", err)
		}
	}

	return m, nil
}

// List always reads through; listing is rare and not worth cache staleness
func (c *MarketCache) List(ctx context.Context) ([]market.Market, error) {
	return c.inner.List(ctx)
}

// Invalidate drops the cache entry for a code
func (c *MarketCache) Invalidate(ctx context.Context, code string) error {
	if err := c.client.Del(ctx, c.getKey(code)).Err(); err != nil {
		return errors.Wrapf(err, "failed to invalidate market cache for %s", code)
	}
	return nil
}

func (c *MarketCache) getKey(code string) string {
	return fmt.Sprintf("market:code:%s", code)
}
