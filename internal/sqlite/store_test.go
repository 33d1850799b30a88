package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner/internal/database"
	"trip-planner/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", DefaultDBFileName))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_HealthCheck(t *testing.T) {
	store := setupTestStore(t)

	assert.NoError(t, store.HealthCheck(context.Background()))
}

func TestStore_ReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultDBFileName)
	ctx := context.Background()

	first, err := New(path)
	require.NoError(t, err)
	require.NoError(t, first.DistanceCache().Set(ctx, &models.DistanceCacheEntry{
		OriginID: "a", DestinationID: "b", DistanceMeters: 1200, DurationSecs: 90,
	}))
	require.NoError(t, first.Close())

	second, err := New(path)
	require.NoError(t, err)
	defer second.Close()

	entry, err := second.DistanceCache().Get(ctx, "a", "b")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 1200.0, entry.DistanceMeters)
}

func TestDistanceCache_GetNotFound(t *testing.T) {
	store := setupTestStore(t)

	entry, err := store.DistanceCache().Get(context.Background(), "nope", "none")

	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestDistanceCache_SetReplaces(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	repo := store.DistanceCache()

	require.NoError(t, repo.Set(ctx, &models.DistanceCacheEntry{OriginID: "a", DestinationID: "b", DistanceMeters: 1, DurationSecs: 1}))
	require.NoError(t, repo.Set(ctx, &models.DistanceCacheEntry{OriginID: "a", DestinationID: "b", DistanceMeters: 2, DurationSecs: 3}))

	entry, err := repo.Get(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 2.0, entry.DistanceMeters)
	assert.Equal(t, 3.0, entry.DurationSecs)
}

func TestDistanceCache_Batch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	repo := store.DistanceCache()

	require.NoError(t, repo.SetBatch(ctx, []models.DistanceCacheEntry{
		{OriginID: "a", DestinationID: "b", DistanceMeters: 100, DurationSecs: 10},
		{OriginID: "b", DestinationID: "a", DistanceMeters: 110, DurationSecs: 11},
		{OriginID: "b", DestinationID: "c", DistanceMeters: 200, DurationSecs: 20},
	}))

	found, err := repo.GetBatch(ctx, []database.CachePair{
		{OriginID: "a", DestinationID: "b"},
		{OriginID: "b", DestinationID: "a"},
		{OriginID: "c", DestinationID: "b"},
	})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, 110.0, found[database.CacheKey("b", "a")].DistanceMeters)

	empty, err := repo.GetBatch(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDistanceCache_Clear(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	repo := store.DistanceCache()

	require.NoError(t, repo.Set(ctx, &models.DistanceCacheEntry{OriginID: "a", DestinationID: "b", DistanceMeters: 5}))
	require.NoError(t, repo.Clear(ctx))

	entry, err := repo.Get(ctx, "a", "b")
	require.NoError(t, err)
	assert.Nil(t, entry)
}
