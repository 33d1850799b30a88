package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner/internal/models"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryDistanceCache()

	miss, err := cache.Get(ctx, "a", "b")
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, cache.Set(ctx, &models.DistanceCacheEntry{OriginID: "a", DestinationID: "b", DistanceMeters: 42}))
	require.NoError(t, cache.SetBatch(ctx, []models.DistanceCacheEntry{
		{OriginID: "b", DestinationID: "a", DistanceMeters: 43},
	}))

	hit, err := cache.Get(ctx, "a", "b")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, 42.0, hit.DistanceMeters)

	batch, err := cache.GetBatch(ctx, []CachePair{{OriginID: "a", DestinationID: "b"}, {OriginID: "b", DestinationID: "a"}, {OriginID: "a", DestinationID: "c"}})
	require.NoError(t, err)
	assert.Len(t, batch, 2)
	assert.Equal(t, 43.0, batch[CacheKey("b", "a")].DistanceMeters)

	require.NoError(t, cache.Clear(ctx))
	cleared, err := cache.Get(ctx, "a", "b")
	require.NoError(t, err)
	assert.Nil(t, cleared)
}
