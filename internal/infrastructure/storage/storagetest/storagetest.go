// Package storagetest holds the behaviour every session backend must share.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/ports"
)

// Run exercises p against the KeyValueStore contract: misses report
// domain.ErrNotFound, writes overwrite, deletes are idempotent and scopes
// never see each other's keys.
func Run(t *testing.T, p ports.StorageProvider) {
	t.Helper()
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		_, err := p.Scope("miss").Get(ctx, "token")
		require.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)
	})

	t.Run("overwrite", func(t *testing.T) {
		kv := p.Scope("overwrite")
		require.NoError(t, kv.Set(ctx, "token", "a"))
		require.NoError(t, kv.Set(ctx, "token", "b"))
		v, err := kv.Get(ctx, "token")
		require.NoError(t, err)
		require.Equal(t, "b", v)
	})

	t.Run("delete", func(t *testing.T) {
		kv := p.Scope("delete")
		require.NoError(t, kv.Set(ctx, "user", `{"name":"Ann"}`))
		require.NoError(t, kv.Delete(ctx, "user"))
		require.NoError(t, kv.Delete(ctx, "user"))
		require.NoError(t, kv.Delete(ctx, "never-set"))
		_, err := kv.Get(ctx, "user")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("isolation", func(t *testing.T) {
		a, b := p.Scope("browser-a"), p.Scope("browser-b")
		require.NoError(t, a.Set(ctx, "token", "tok-a"))
		_, err := b.Get(ctx, "token")
		require.ErrorIs(t, err, domain.ErrNotFound)

		require.NoError(t, b.Set(ctx, "token", "tok-b"))
		v, err := a.Get(ctx, "token")
		require.NoError(t, err)
		require.Equal(t, "tok-a", v)
	})

	t.Run("empty value", func(t *testing.T) {
		kv := p.Scope("empty")
		require.NoError(t, kv.Set(ctx, "token", ""))
		v, err := kv.Get(ctx, "token")
		require.NoError(t, err)
		require.Equal(t, "", v)
	})
}
