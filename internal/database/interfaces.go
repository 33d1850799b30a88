package database

import (
	"context"

	"trip-planner/internal/models"
)

// CachePair identifies one directed origin->destination lookup by activity ID
type CachePair struct {
	OriginID      string
	DestinationID string
}

// DistanceCacheRepository handles distance cache persistence
type DistanceCacheRepository interface {
	Get(ctx context.Context, originID, destID string) (*models.DistanceCacheEntry, error)
	GetBatch(ctx context.Context, pairs []CachePair) (map[string]*models.DistanceCacheEntry, error)
	Set(ctx context.Context, entry *models.DistanceCacheEntry) error
	SetBatch(ctx context.Context, entries []models.DistanceCacheEntry) error
	Clear(ctx context.Context) error
}

// CacheKey creates the lookup key for a directed activity pair
func CacheKey(originID, destID string) string {
	return originID + "->" + destID
}
