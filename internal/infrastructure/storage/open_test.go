package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/smartcampus/campus-portal/internal/core/ports"
	"github.com/smartcampus/campus-portal/internal/infrastructure/storage/file"
	"github.com/smartcampus/campus-portal/internal/infrastructure/storage/memory"
	redisstore "github.com/smartcampus/campus-portal/internal/infrastructure/storage/redis"
	"github.com/smartcampus/campus-portal/internal/pkg/config"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cases := []struct {
		backend string
		check   func(t *testing.T, p ports.StorageProvider)
	}{
		{config.BackendMemory, func(t *testing.T, p ports.StorageProvider) {
			require.IsType(t, &memory.Provider{}, p)
		}},
		{config.BackendFile, func(t *testing.T, p ports.StorageProvider) {
			require.IsType(t, &file.Provider{}, p)
		}},
		{config.BackendRedis, func(t *testing.T, p ports.StorageProvider) {
			require.IsType(t, &redisstore.Provider{}, p)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.backend, func(t *testing.T) {
			cfg := &config.Config{
				Storage: config.StorageConfig{
					Backend:  tc.backend,
					FilePath: filepath.Join(t.TempDir(), "state.json"),
					Prefix:   "campus",
				},
				Redis: config.RedisConfig{Addr: mr.Addr()},
			}
			p, closeFn, err := Open(ctx, cfg, zerolog.Nop())
			require.NoError(t, err)
			t.Cleanup(func() { _ = closeFn(ctx) })
			tc.check(t, p)

			kv := p.Scope("sid")
			require.NoError(t, kv.Set(ctx, "token", "tok"))
			v, err := kv.Get(ctx, "token")
			require.NoError(t, err)
			require.Equal(t, "tok", v)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, _, err := Open(context.Background(), &config.Config{Storage: config.StorageConfig{Backend: "etcd"}}, zerolog.Nop())
	require.Error(t, err)
}
