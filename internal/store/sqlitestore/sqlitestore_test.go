package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonggu-app/gonggu/pkg/store/storetest"
)

func TestStore(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	storetest.Run(t, s)
}

func TestStore_PersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "gonggu.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "token", "on-disk"))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "on-disk", got)
}
