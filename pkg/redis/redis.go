package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	RDB *redis.Client
}

type Config interface {
	GetAddr() string
	GetPassword() string
	GetDB() int
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, config Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.GetAddr(),
		Password: config.GetPassword(),
		DB:       config.GetDB(),
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Client{RDB: rdb}, nil
}

func (c *Client) Close() error {
	return c.RDB.Close()
}
