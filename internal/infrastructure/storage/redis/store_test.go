package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/smartcampus/campus-portal/internal/infrastructure/storage/storagetest"
	"github.com/smartcampus/campus-portal/internal/pkg/config"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func TestProvider(t *testing.T) {
	_, client := newTestRedis(t)
	storagetest.Run(t, NewProvider(client, "campus", 0))
}

func TestProvider_KeyLayoutAndTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	p := NewProvider(client, "campus", time.Hour)

	require.NoError(t, p.Scope("sid-1").Set(ctx, "token", "tok"))

	v, err := mr.Get("campus:session:sid-1:token")
	require.NoError(t, err)
	require.Equal(t, "tok", v)
	require.Equal(t, time.Hour, mr.TTL("campus:session:sid-1:token"))

	mr.FastForward(2 * time.Hour)
	_, err = p.Scope("sid-1").Get(ctx, "token")
	require.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr, _ := newTestRedis(t)

	client, err := Connect(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, NewProvider(client, "campus", 0).Ping(context.Background()))
	require.Equal(t, ClientName, client.Options().ClientName)
}

func TestConnect_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = Connect(context.Background(), config.RedisConfig{Addr: addr, DialTimeout: 200 * time.Millisecond})
	require.Error(t, err)
	require.Contains(t, err.Error(), addr)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	mr, _ := newTestRedis(t)

	p, err := Open(ctx, config.RedisConfig{Addr: mr.Addr()}, config.StorageConfig{Prefix: "portal", TTL: time.Minute})
	require.NoError(t, err)
	require.NoError(t, p.Scope("sid").Set(ctx, "token", "tok"))
	require.True(t, mr.Exists("portal:session:sid:token"))
	require.Equal(t, time.Minute, mr.TTL("portal:session:sid:token"))
	require.NoError(t, p.Close())
}
