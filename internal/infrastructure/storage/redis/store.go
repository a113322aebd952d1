package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/ports"
)

// Provider keeps session state in Redis so several portal instances share it.
// Key format: <prefix>:session:<namespace>:<key>
type Provider struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var (
	_ ports.StorageProvider = (*Provider)(nil)
	_ ports.Pinger          = (*Provider)(nil)
)

// NewProvider wraps client. A zero ttl stores entries without expiry; the
// server stays the only judge of token validity either way.
func NewProvider(client *redis.Client, prefix string, ttl time.Duration) *Provider {
	return &Provider{client: client, prefix: prefix, ttl: ttl}
}

func (p *Provider) Scope(namespace string) ports.KeyValueStore {
	return &Store{p: p, namespace: namespace}
}

func (p *Provider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *Provider) Close() error {
	return p.client.Close()
}

type Store struct {
	p         *Provider
	namespace string
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.p.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.p.client.Set(ctx, s.key(key), value, s.p.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.p.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *Store) key(k string) string {
	return fmt.Sprintf("%s:session:%s:%s", s.p.prefix, s.namespace, k)
}
