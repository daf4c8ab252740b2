package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds connection settings for the optional cache.
type Config struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// Client wraps go-redis behind an enabled switch. When disabled every
// operation is a silent no-op so callers never branch on availability.
type Client struct {
	rdb     *redis.Client
	enabled bool
	logger  *zap.Logger
}

// NewClient builds the client and probes the connection. A failed probe
// downgrades to disabled instead of failing startup.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	if !cfg.Enabled {
		return &Client{enabled: false, logger: logger}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, continuing without cache",
			zap.String("addr", cfg.Addr),
			zap.Error(err),
		)
		_ = rdb.Close()
		return &Client{enabled: false, logger: logger}
	}

	logger.Info("Connected to Redis",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
	)

	return &Client{rdb: rdb, enabled: true, logger: logger}
}

// IsEnabled reports whether the cache is active.
func (c *Client) IsEnabled() bool {
	return c != nil && c.enabled
}

// Ping checks connectivity; nil when disabled.
func (c *Client) Ping(ctx context.Context) error {
	if !c.IsEnabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// Get returns the cached value, or ("", false) on miss, outage or disabled.
func (c *Client) Get(ctx context.Context, key string) (string, bool) {
	if !c.IsEnabled() {
		return "", false
	}

	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("Cache get failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return val, true
}

// Set stores a value with a TTL, best-effort.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if !c.IsEnabled() {
		return
	}
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Debug("Cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes a key, best-effort.
func (c *Client) Delete(ctx context.Context, key string) {
	if !c.IsEnabled() {
		return
	}
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.logger.Debug("Cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Close shuts down the underlying connection pool.
func (c *Client) Close() error {
	if !c.IsEnabled() {
		return nil
	}
	return c.rdb.Close()
}
