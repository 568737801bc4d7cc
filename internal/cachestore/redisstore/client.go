package redisstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/emailid501-ux/optionsense-app/internal/config"
	"github.com/emailid501-ux/optionsense-app/internal/interfaces"
)

// Ensure Client implements interfaces.RedisClient
var _ interfaces.RedisClient = (*Client)(nil)

// Client wraps redis.Client to implement the RedisClient interface
type Client struct {
	client *redis.Client
	logger *zap.Logger
}

// NewClient creates a new Redis client from the configured URL
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (interfaces.RedisClient, error) {
	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	host := parsedURL.Hostname()
	port := parsedURL.Port()
	if port == "" {
		port = "6379" // Default Redis port
	}

	opts := &redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		DialTimeout:  cfg.ConnectTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.SendTimeout,
		PoolSize:     cfg.PoolSize,
	}

	if parsedURL.User != nil {
		if password, ok := parsedURL.User.Password(); ok {
			opts.Password = password
		}
	}

	if parsedURL.Path != "" && len(parsedURL.Path) > 1 {
		if db, err := strconv.Atoi(parsedURL.Path[1:]); err == nil {
			opts.DB = db
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	logger.Info("Connected to Redis",
		zap.String("address", opts.Addr),
		zap.Duration("connect_timeout", cfg.ConnectTimeout),
		zap.Int("pool_size", cfg.PoolSize))

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// Get retrieves a value by key
func (c *Client) Get(ctx context.Context, key string) *redis.StringCmd {
	return c.client.Get(ctx, key)
}

// Set stores a value with expiration
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return c.client.Set(ctx, key, value, expiration)
}

// Del deletes one or more keys
func (c *Client) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return c.client.Del(ctx, keys...)
}

// Scan iterates keys matching a pattern
func (c *Client) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	return c.client.Scan(ctx, cursor, match, count)
}

// Ping tests connectivity
func (c *Client) Ping(ctx context.Context) *redis.StatusCmd {
	return c.client.Ping(ctx)
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.client.Close()
}
