package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

// NewClient creates a Redis client from redisURL and verifies it responds.
// The client backs the event publisher, the idempotency store and the ledger cache.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// Checker reports Redis health for the readiness probe.
type Checker struct {
	client *redis.Client
}

// NewChecker creates a Checker.
func NewChecker(client *redis.Client) *Checker {
	return &Checker{client: client}
}

// Name identifies the dependency in health reports.
func (c *Checker) Name() string { return "redis" }

// Check pings Redis.
func (c *Checker) Check(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
