package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartcampus/campus-portal/internal/pkg/config"
)

// ClientName tags portal connections in CLIENT LIST.
const ClientName = "campus-portal"

const defaultDialTimeout = 5 * time.Second

// Connect opens the session connection described by cfg and proves it with a
// ping bounded by cfg.DialTimeout.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		ClientName:  ClientName,
		DialTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis session store at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// Open connects and returns a provider laid out by the storage settings.
// Close on the provider releases the connection.
func Open(ctx context.Context, rc config.RedisConfig, sc config.StorageConfig) (*Provider, error) {
	client, err := Connect(ctx, rc)
	if err != nil {
		return nil, err
	}
	return NewProvider(client, sc.Prefix, sc.TTL), nil
}
