package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

func NewClient(ctx context.Context, redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{client}, nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}

// SessionEventsChannel is the pub/sub channel carrying one owner's session events.
func SessionEventsChannel(ownerID string) string {
	return fmt.Sprintf("mentor:sessions:%s", ownerID)
}

// RateLimitKey is the sorted-set key backing one owner's request window.
func RateLimitKey(ownerID string) string {
	return fmt.Sprintf("mentor:ratelimit:%s", ownerID)
}
