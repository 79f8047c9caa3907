package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"ethmumbai-maxi/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(ctx, "maxi:c1:screen")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Set(ctx, "maxi:c1:screen", "quiz"))
	require.NoError(t, store.Set(ctx, "maxi:c1:screen", "result"))
	v, err := store.Get(ctx, "maxi:c1:screen")
	require.NoError(t, err)
	assert.Equal(t, "result", v)

	require.NoError(t, store.Delete(ctx, "maxi:c1:screen", "maxi:c1:absent"))
	_, err = store.Get(ctx, "maxi:c1:screen")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSnapshotStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "maxi.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "maxi:c1:profile", `{"handle":"kash"}`))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()
	v, err := store.Get(ctx, "maxi:c1:profile")
	require.NoError(t, err)
	assert.Equal(t, `{"handle":"kash"}`, v)
}
