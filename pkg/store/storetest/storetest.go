// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonggu-app/gonggu/pkg/store"
)

// Run exercises s against the Store contract. s must start empty.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "token", "abc"))
		got, err := s.Get(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, "abc", got)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "token", "first"))
		require.NoError(t, s.Set(ctx, "token", "second"))
		got, err := s.Get(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "gone", "soon"))
		require.NoError(t, s.Remove(ctx, "gone"))
		_, err := s.Get(ctx, "gone")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("remove missing is not an error", func(t *testing.T) {
		assert.NoError(t, s.Remove(ctx, "never-set"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "a", "1"))
		require.NoError(t, s.Set(ctx, "b", "2"))
		require.NoError(t, s.Remove(ctx, "a"))
		got, err := s.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, "2", got)
	})

	t.Run("json round trip", func(t *testing.T) {
		in := []string{"room-1", "room-2"}
		require.NoError(t, store.SetJSON(ctx, s, "joinedRooms", in))
		var out []string
		ok, err := store.GetJSON(ctx, s, "joinedRooms", &out)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, in, out)
	})

	t.Run("json missing", func(t *testing.T) {
		var out []string
		ok, err := store.GetJSON(ctx, s, "nothing-here", &out)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
