package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreTests runs the standard store test suite against any Store implementation.
// Use this to verify that a Store implementation correctly implements the interface.
func RunStoreTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("Get", func(t *testing.T) {
		runGetTests(t, newStore)
	})
	t.Run("Set", func(t *testing.T) {
		runSetTests(t, newStore)
	})
	t.Run("Delete", func(t *testing.T) {
		runDeleteTests(t, newStore)
	})
	t.Run("Keys", func(t *testing.T) {
		runKeysTests(t, newStore)
	})
	t.Run("Close", func(t *testing.T) {
		runCloseTests(t, newStore)
	})
}

func runGetTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		_, err := store.Get(context.Background(), "missing")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("empty key is invalid", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		_, err := store.Get(context.Background(), "")
		assert.True(t, errors.Is(err, ErrInvalidKey))
	})
}

func runSetTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("stores and returns value", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "@Gallery_Favorites", `[{"url":"x"}]`))

		v, err := store.Get(ctx, "@Gallery_Favorites")
		require.NoError(t, err)
		assert.Equal(t, `[{"url":"x"}]`, v)
	})

	t.Run("overwrites previous value", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "k", "one"))
		require.NoError(t, store.Set(ctx, "k", "two"))

		v, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "two", v)
	})

	t.Run("stores empty value", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "k", ""))

		v, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "", v)
	})

	t.Run("keys with path characters", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "a/b/../c", "1"))
		require.NoError(t, store.Set(ctx, "a:b c", "2"))

		v, err := store.Get(ctx, "a/b/../c")
		require.NoError(t, err)
		assert.Equal(t, "1", v)
		v, err = store.Get(ctx, "a:b c")
		require.NoError(t, err)
		assert.Equal(t, "2", v)
	})

	t.Run("empty key is invalid", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		err := store.Set(context.Background(), "", "v")
		assert.True(t, errors.Is(err, ErrInvalidKey))
	})
}

func runDeleteTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("removes key", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "k", "v"))
		require.NoError(t, store.Delete(ctx, "k"))

		_, err := store.Get(ctx, "k")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("missing key is not an error", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		assert.NoError(t, store.Delete(context.Background(), "missing"))
	})
}

func runKeysTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("empty store", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		keys, err := store.Keys(context.Background())
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("sorted keys", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "b", "2"))
		require.NoError(t, store.Set(ctx, "a", "1"))
		require.NoError(t, store.Set(ctx, "c/d", "3"))

		keys, err := store.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c/d"}, keys)
	})
}

func runCloseTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("operations fail after close", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()
		ctx := context.Background()

		require.NoError(t, store.Close())

		_, err := store.Get(ctx, "k")
		assert.True(t, errors.Is(err, ErrStoreClosed))
		assert.True(t, errors.Is(store.Set(ctx, "k", "v"), ErrStoreClosed))
		assert.True(t, errors.Is(store.Delete(ctx, "k"), ErrStoreClosed))
		_, err = store.Keys(ctx)
		assert.True(t, errors.Is(err, ErrStoreClosed))
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		require.NoError(t, store.Close())
		assert.NoError(t, store.Close())
	})
}
