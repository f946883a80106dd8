package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"skoolife/backend/config"
)

// Client wraps the Redis connection.
// Used for the token blacklist, rate limiting and the subscription cache.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects to Redis and pings it.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── token blacklist ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken adds a JWT ID to the blacklist with a TTL matching the
// token's remaining lifetime.
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired, nothing to block
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted reports whether a JWT ID is blacklisted.
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── rate limiting ──

// CheckRateLimit implements a fixed-window counter for the given key.
// Returns false when the window already holds `limit` requests.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

// ── subscription cache ──
//
// Time-bounded, per-user memoization of the billing provider lookup.
// Keys are scoped by user id; invalidation is explicit.

const subscriptionPrefix = "subscription:"

// SetJSON stores a JSON-encoded value under the subscription namespace.
func (c *Client) SetJSON(ctx context.Context, userID string, v interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, subscriptionPrefix+userID, raw, ttl).Err()
}

// GetJSON loads a cached value; found=false on a cache miss.
func (c *Client) GetJSON(ctx context.Context, userID string, v interface{}) (bool, error) {
	raw, err := c.rdb.Get(ctx, subscriptionPrefix+userID).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, v)
}

// DeleteJSON drops a cached value.
func (c *Client) DeleteJSON(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, subscriptionPrefix+userID).Err()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
